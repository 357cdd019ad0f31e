package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SchoolReview is attached to an Author rather than a Course and does not
// feed any course rating aggregate.
type SchoolReview struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"author_id"`
	AuthorName  string           `gorm:"size:200;not null" json:"author_name"`
	AuthorEmail *string          `gorm:"size:200" json:"-"`
	Rating      int              `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title       *string          `gorm:"size:300" json:"title,omitempty"`
	Pros        *string          `gorm:"type:text" json:"pros,omitempty"`
	Cons        *string          `gorm:"type:text" json:"cons,omitempty"`
	Comment     *string          `gorm:"type:text" json:"comment,omitempty"`
	Status      ModerationStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Author Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (SchoolReview) TableName() string {
	return "school_reviews"
}

func (sr *SchoolReview) BeforeCreate(tx *gorm.DB) error {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	return nil
}

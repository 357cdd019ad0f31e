package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a visitor-submitted course review. Only APPROVED reviews count
// toward the owning course's aggregate rating.
type Review struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CourseID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"course_id"`
	AuthorName  string           `gorm:"size:200;not null" json:"author_name"`
	AuthorEmail *string          `gorm:"size:200" json:"-"`
	Rating      int              `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Text        string           `gorm:"type:text;not null" json:"text"`
	Status      ModerationStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

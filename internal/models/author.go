package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author is the school or organization offering courses. Authors are created
// directly (no moderation state).
type Author struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Slug      string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	Logo      *string   `gorm:"size:500" json:"logo,omitempty"`
	Website   *string   `gorm:"size:500" json:"website,omitempty"`
	Email     *string   `gorm:"size:200" json:"email,omitempty"`
	Contacts  *string   `gorm:"type:text" json:"contacts,omitempty"`
	LegalInfo *string   `gorm:"type:text" json:"legal_info,omitempty"`

	SubmittedByName  *string `gorm:"size:200" json:"-"`
	SubmittedByEmail *string `gorm:"size:200" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Courses       []Course       `gorm:"foreignKey:AuthorID" json:"courses,omitempty"`
	SchoolReviews []SchoolReview `gorm:"foreignKey:AuthorID" json:"school_reviews,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

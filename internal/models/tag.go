package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Slug        string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Color       *string   `gorm:"size:20" json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Courses []CourseTag `gorm:"foreignKey:TagID" json:"courses,omitempty"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CourseTag joins courses to tags.
type CourseTag struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index:idx_course_tag,unique" json:"course_id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;index:idx_course_tag,unique" json:"tag_id"`

	CreatedAt time.Time `json:"created_at"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Tag    Tag    `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (CourseTag) TableName() string {
	return "course_tags"
}

func (ct *CourseTag) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return nil
}

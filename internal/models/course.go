package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceType tags which of the tiered price fields is authoritative.
type PriceType string

const (
	PricePerLesson PriceType = "PER_LESSON"
	PricePerMonth  PriceType = "PER_MONTH"
	PriceOneTime   PriceType = "ONE_TIME"
)

func (p PriceType) Valid() bool {
	switch p {
	case PricePerLesson, PricePerMonth, PriceOneTime:
		return true
	}
	return false
}

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:300;not null" json:"title"`
	Slug        string    `gorm:"size:300;uniqueIndex;not null" json:"slug"`
	Link        string    `gorm:"size:500;not null" json:"link"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Pros        *string   `gorm:"type:text" json:"pros,omitempty"`
	Cons        *string   `gorm:"type:text" json:"cons,omitempty"`
	Contacts    *string   `gorm:"type:text" json:"contacts,omitempty"`
	Duration    *string   `gorm:"size:100" json:"duration,omitempty"`
	Image       *string   `gorm:"size:500" json:"image,omitempty"`

	// Legacy single price plus the tiered fields. PriceType says which
	// tiered field is authoritative; nil means only the legacy price is set.
	Price          *float64   `json:"price,omitempty"`
	PricePerLesson *float64   `json:"price_per_lesson,omitempty"`
	PricePerMonth  *float64   `json:"price_per_month,omitempty"`
	PriceOneTime   *float64   `json:"price_one_time,omitempty"`
	PriceType      *PriceType `gorm:"type:varchar(20)" json:"price_type,omitempty"`

	// Derived from approved reviews unless RatingOverridden is set.
	AverageRating    float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount      int     `gorm:"default:0" json:"review_count"`
	RatingOverridden bool    `gorm:"default:false" json:"-"`

	Status      ModerationStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`

	SubmittedByName  *string `gorm:"size:200" json:"-"`
	SubmittedByEmail *string `gorm:"size:200" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`

	Author   Author      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []CourseTag `gorm:"foreignKey:CourseID" json:"tags,omitempty"`
	Reviews  []Review    `gorm:"foreignKey:CourseID" json:"reviews,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PriceKind identifies which price representation DisplayPrice resolved to.
type PriceKind string

const (
	PriceKindUnset     PriceKind = ""
	PriceKindPerMonth  PriceKind = "per_month"
	PriceKindPerLesson PriceKind = "per_lesson"
	PriceKindOneTime   PriceKind = "one_time"
	PriceKindLegacy    PriceKind = "legacy"
)

// DisplayPrice resolves the overlapping price fields into a single tagged
// value. The priority chain is per-month > per-lesson > one-time > legacy;
// every consumer of "the" price goes through here instead of re-deriving it
// from nullable-field presence.
func (c *Course) DisplayPrice() (PriceKind, float64) {
	switch {
	case c.PricePerMonth != nil:
		return PriceKindPerMonth, *c.PricePerMonth
	case c.PricePerLesson != nil:
		return PriceKindPerLesson, *c.PricePerLesson
	case c.PriceOneTime != nil:
		return PriceKindOneTime, *c.PriceOneTime
	case c.Price != nil:
		return PriceKindLegacy, *c.Price
	}
	return PriceKindUnset, 0
}

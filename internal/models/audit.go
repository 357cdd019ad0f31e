package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionApproveCourse       AuditAction = "approve_course"
	ActionRejectCourse        AuditAction = "reject_course"
	ActionApproveReview       AuditAction = "approve_review"
	ActionRejectReview        AuditAction = "reject_review"
	ActionApproveSchoolReview AuditAction = "approve_school_review"
	ActionRejectSchoolReview  AuditAction = "reject_school_review"
	ActionSetManualRating     AuditAction = "set_manual_rating"
)

// AuditEntry records a moderation action for the admin activity feed.
type AuditEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    AuditAction `gorm:"type:varchar(40);not null" json:"action"`
	TargetID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"target_id"`
	Metadata  string      `gorm:"type:text;default:'{}'" json:"metadata"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

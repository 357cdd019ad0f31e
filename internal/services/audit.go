package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"gorm.io/gorm"
)

// AuditService records moderation actions for the admin activity feed.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(userID uuid.UUID, action models.AuditAction, targetID uuid.UUID, metadata map[string]interface{}) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		bytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(bytes)
		}
	}

	entry := models.AuditEntry{
		UserID:   userID,
		Action:   action,
		TargetID: targetID,
		Metadata: metadataJSON,
	}

	return s.db.Create(&entry).Error
}

func (s *AuditService) Recent(limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := s.db.Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

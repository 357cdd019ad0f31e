package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"gorm.io/gorm"
)

var ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")

// RatingService owns the moderation state machine for courses and reviews
// and keeps each course's cached aggregate consistent with its approved
// reviews. The aggregate is always a full rescan, never an increment, so
// re-approving an approved review cannot double-count.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// ApproveReview publishes a review and recomputes the owning course's
// aggregate unless an admin has pinned it manually.
func (s *RatingService) ApproveReview(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		review.Status = models.StatusApproved
		review.PublishedAt = &now
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return s.recomputeUnlessOverridden(tx, review.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// RejectReview marks a review REJECTED. Rejected reviews were never counted,
// so no recompute happens.
func (s *RatingService) RejectReview(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}

	review.Status = models.StatusRejected
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ApproveCourse publishes a course, sets its publish timestamp and rescans
// its approved reviews. The rescan covers reviews that were approved before
// the course itself was published.
func (s *RatingService) ApproveCourse(id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		course.Status = models.StatusApproved
		course.PublishedAt = &now
		if err := tx.Save(&course).Error; err != nil {
			return err
		}
		if err := s.recomputeUnlessOverridden(tx, course.ID); err != nil {
			return err
		}
		return tx.First(&course, "id = ?", course.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// RejectCourse marks a course REJECTED. Terminal.
func (s *RatingService) RejectCourse(id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}

	course.Status = models.StatusRejected
	if err := s.db.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// SetManualRating pins a course's displayed rating to an admin-chosen value.
// The pin survives later review approvals until ClearManualRating.
func (s *RatingService) SetManualRating(courseID uuid.UUID, rating float64) (*models.Course, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	var course models.Course
	if err := s.db.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, err
	}

	course.AverageRating = rating
	course.RatingOverridden = true
	if err := s.db.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// ClearManualRating removes the pin and restores the derived aggregate.
func (s *RatingService) ClearManualRating(courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, "id = ?", courseID).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
			Update("rating_overridden", false).Error; err != nil {
			return err
		}
		if err := s.recompute(tx, courseID); err != nil {
			return err
		}
		return tx.First(&course, "id = ?", courseID).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ApproveSchoolReview publishes a school review. School reviews never feed a
// course aggregate.
func (s *RatingService) ApproveSchoolReview(id uuid.UUID) (*models.SchoolReview, error) {
	var review models.SchoolReview
	if err := s.db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	review.Status = models.StatusApproved
	review.PublishedAt = &now
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *RatingService) RejectSchoolReview(id uuid.UUID) (*models.SchoolReview, error) {
	var review models.SchoolReview
	if err := s.db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}

	review.Status = models.StatusRejected
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *RatingService) recomputeUnlessOverridden(tx *gorm.DB, courseID uuid.UUID) error {
	var course models.Course
	if err := tx.Select("rating_overridden").First(&course, "id = ?", courseID).Error; err != nil {
		return err
	}
	if course.RatingOverridden {
		return nil
	}
	return s.recompute(tx, courseID)
}

func (s *RatingService) recompute(tx *gorm.DB, courseID uuid.UUID) error {
	var agg struct {
		AverageRating float64
		ReviewCount   int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Where("course_id = ? AND status = ?", courseID, models.StatusApproved).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Course{}).Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"average_rating": agg.AverageRating,
			"review_count":   agg.ReviewCount,
		}).Error
}

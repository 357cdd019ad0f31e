package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"gorm.io/gorm"
)

// ListReviews returns course reviews for moderation, optionally filtered
// by status.
func ListReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Course").Order("created_at desc")

		if status := c.Query("status"); status != "" {
			if !models.ModerationStatus(status).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Unknown status",
					},
				})
				return
			}
			query = query.Where("status = ?", status)
		}

		var reviews []models.Review
		if err := query.Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch reviews",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    reviews,
		})
	}
}

// ApproveReview publishes a review and refreshes the course aggregate.
func ApproveReview(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		review, err := rating.ApproveReview(reviewID)
		if err != nil {
			moderationError(c, err, "Review")
			return
		}

		_ = audit.Record(adminID, models.ActionApproveReview, review.ID, map[string]interface{}{"course_id": review.CourseID})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
		})
	}
}

// RejectReview marks a review rejected without touching the aggregate.
func RejectReview(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		review, err := rating.RejectReview(reviewID)
		if err != nil {
			moderationError(c, err, "Review")
			return
		}

		_ = audit.Record(adminID, models.ActionRejectReview, review.ID, map[string]interface{}{"course_id": review.CourseID})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
		})
	}
}

// ListSchoolReviews returns school reviews for moderation.
func ListSchoolReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Author").Order("created_at desc")

		if status := c.Query("status"); status != "" {
			if !models.ModerationStatus(status).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Unknown status",
					},
				})
				return
			}
			query = query.Where("status = ?", status)
		}

		var reviews []models.SchoolReview
		if err := query.Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch school reviews",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    reviews,
		})
	}
}

// ApproveSchoolReview publishes a school review.
func ApproveSchoolReview(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		review, err := rating.ApproveSchoolReview(reviewID)
		if err != nil {
			moderationError(c, err, "Review")
			return
		}

		_ = audit.Record(adminID, models.ActionApproveSchoolReview, review.ID, map[string]interface{}{"author_id": review.AuthorID})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
		})
	}
}

// RejectSchoolReview marks a school review rejected.
func RejectSchoolReview(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		review, err := rating.RejectSchoolReview(reviewID)
		if err != nil {
			moderationError(c, err, "Review")
			return
		}

		_ = audit.Record(adminID, models.ActionRejectSchoolReview, review.ID, map[string]interface{}{"author_id": review.AuthorID})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
		})
	}
}

// GetAuditLog returns the most recent moderation actions.
func GetAuditLog(audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
				limit = parsed
			}
		}

		entries, err := audit.Recent(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch audit log",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    entries,
		})
	}
}

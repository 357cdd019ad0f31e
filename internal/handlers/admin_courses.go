package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"github.com/kursgid/kursgid-api/internal/utils"
	"gorm.io/gorm"
)

// ListAdminCourses returns courses for the moderation screens, optionally
// filtered by status.
func ListAdminCourses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Author").Preload("Category").Preload("Tags.Tag").
			Order("created_at desc")

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

		var courses []models.Course
		if err := query.Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch courses",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    courses,
		})
	}
}

type AdminCourseRequest struct {
	Title          string                   `json:"title" binding:"required"`
	Link           string                   `json:"link" binding:"required"`
	AuthorID       string                   `json:"author_id" binding:"required"`
	CategoryID     *string                  `json:"category_id"`
	Description    *string                  `json:"description"`
	Duration       *string                  `json:"duration"`
	Contacts       *string                  `json:"contacts"`
	Pros           *string                  `json:"pros"`
	Cons           *string                  `json:"cons"`
	Image          *string                  `json:"image"`
	Price          *float64                 `json:"price"`
	PricePerLesson *float64                 `json:"price_per_lesson"`
	PricePerMonth  *float64                 `json:"price_per_month"`
	PriceOneTime   *float64                 `json:"price_one_time"`
	PriceType      *models.PriceType        `json:"price_type"`
	Status         *models.ModerationStatus `json:"status"`
	TagIDs         []string                 `json:"tag_ids"`
}

// CreateCourse creates a course directly (admin only). Unlike public
// submissions the admin may set price tiers, tags and an immediate
// APPROVED status.
func CreateCourse(db *gorm.DB, rating *services.RatingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminCourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}

		authorID, err := uuid.Parse(req.AuthorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid school ID format",
				},
			})
			return
		}

		var author models.Author
		if err := db.First(&author, "id = ?", authorID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "School not found",
				},
			})
			return
		}

		var categoryID *uuid.UUID
		if req.CategoryID != nil {
			if parsed, err := uuid.Parse(*req.CategoryID); err == nil {
				var category models.Category
				if err := db.First(&category, "id = ?", parsed).Error; err == nil {
					categoryID = &category.ID
				}
			}
		}

		slug := utils.UniqueSlug(utils.Slugify(req.Title), func(candidate string) bool {
			var count int64
			db.Model(&models.Course{}).Where("slug = ?", candidate).Count(&count)
			return count > 0
		})

		course := models.Course{
			Title:          req.Title,
			Slug:           slug,
			Link:           req.Link,
			Description:    req.Description,
			Duration:       req.Duration,
			Contacts:       req.Contacts,
			Pros:           req.Pros,
			Cons:           req.Cons,
			Image:          req.Image,
			Price:          req.Price,
			PricePerLesson: req.PricePerLesson,
			PricePerMonth:  req.PricePerMonth,
			PriceOneTime:   req.PriceOneTime,
			PriceType:      req.PriceType,
			Status:         models.StatusPending,
			AuthorID:       author.ID,
			CategoryID:     categoryID,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			for _, raw := range req.TagIDs {
				tagID, err := uuid.Parse(raw)
				if err != nil {
					continue
				}
				if err := tx.Create(&models.CourseTag{CourseID: course.ID, TagID: tagID}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to create course",
				},
			})
			return
		}

		// Admin-created courses may go live immediately.
		if req.Status != nil && *req.Status == models.StatusApproved {
			if approved, err := rating.ApproveCourse(course.ID); err == nil {
				course = *approved
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// UpdateCourse updates course fields and tag links (admin only).
func UpdateCourse(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid course ID format",
				},
			})
			return
		}

		var course models.Course
		if err := db.First(&course, "id = ?", courseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "NOT_FOUND",
						"message": "Course not found",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch course",
				},
			})
			return
		}

		var req AdminCourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}

		if authorID, err := uuid.Parse(req.AuthorID); err == nil {
			var author models.Author
			if err := db.First(&author, "id = ?", authorID).Error; err == nil {
				course.AuthorID = author.ID
			}
		}

		course.CategoryID = nil
		if req.CategoryID != nil {
			if parsed, err := uuid.Parse(*req.CategoryID); err == nil {
				var category models.Category
				if err := db.First(&category, "id = ?", parsed).Error; err == nil {
					course.CategoryID = &category.ID
				}
			}
		}

		course.Title = req.Title
		course.Link = req.Link
		course.Description = req.Description
		course.Duration = req.Duration
		course.Contacts = req.Contacts
		course.Pros = req.Pros
		course.Cons = req.Cons
		course.Image = req.Image
		course.Price = req.Price
		course.PricePerLesson = req.PricePerLesson
		course.PricePerMonth = req.PricePerMonth
		course.PriceOneTime = req.PriceOneTime
		course.PriceType = req.PriceType

		err = db.Transaction(func(tx *gorm.DB) error {
			if req.TagIDs != nil {
				if err := tx.Delete(&models.CourseTag{}, "course_id = ?", course.ID).Error; err != nil {
					return err
				}
				for _, raw := range req.TagIDs {
					tagID, err := uuid.Parse(raw)
					if err != nil {
						continue
					}
					if err := tx.Create(&models.CourseTag{CourseID: course.ID, TagID: tagID}).Error; err != nil {
						return err
					}
				}
			}
			return tx.Save(&course).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to update course",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// DeleteCourse removes a course and its reviews and tag links.
func DeleteCourse(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ID",
					"message": "Invalid course ID format",
				},
			})
			return
		}

		var deleted int64
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Review{}, "course_id = ?", courseID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.CourseTag{}, "course_id = ?", courseID).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Course{}, "id = ?", courseID)
			deleted = result.RowsAffected
			return result.Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to delete course",
				},
			})
			return
		}

		if deleted == 0 {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Course not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Course deleted successfully",
		})
	}
}

// ApproveCourse publishes a pending course.
func ApproveCourse(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		course, err := rating.ApproveCourse(courseID)
		if err != nil {
			moderationError(c, err, "Course")
			return
		}

		_ = audit.Record(adminID, models.ActionApproveCourse, course.ID, map[string]interface{}{"title": course.Title})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// RejectCourse marks a pending course rejected.
func RejectCourse(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		course, err := rating.RejectCourse(courseID)
		if err != nil {
			moderationError(c, err, "Course")
			return
		}

		_ = audit.Record(adminID, models.ActionRejectCourse, course.ID, map[string]interface{}{"title": course.Title})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

type SetRatingRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
}

// SetCourseRating pins a course's displayed rating to a manual value.
func SetCourseRating(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		var req SetRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Rating is required",
				},
			})
			return
		}

		course, err := rating.SetManualRating(courseID, *req.Rating)
		if err != nil {
			if err == services.ErrRatingOutOfRange {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Rating must be between 0 and 5",
					},
				})
				return
			}
			moderationError(c, err, "Course")
			return
		}

		_ = audit.Record(adminID, models.ActionSetManualRating, course.ID, map[string]interface{}{"rating": *req.Rating})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// ClearCourseRating removes the manual pin and restores the derived value.
func ClearCourseRating(rating *services.RatingService, audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, adminID, ok := moderationIDs(c)
		if !ok {
			return
		}

		course, err := rating.ClearManualRating(courseID)
		if err != nil {
			moderationError(c, err, "Course")
			return
		}

		_ = audit.Record(adminID, models.ActionSetManualRating, course.ID, map[string]interface{}{"cleared": true})

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// moderationIDs extracts the target id from the path and the acting admin
// from the auth context.
func moderationIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid ID format",
			},
		})
		return uuid.Nil, uuid.Nil, false
	}

	adminID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid user ID",
			},
		})
		return uuid.Nil, uuid.Nil, false
	}

	return targetID, adminID, true
}

func moderationError(c *gin.Context, err error, entity string) {
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": entity + " not found",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Database error",
		},
	})
}

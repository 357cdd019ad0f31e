package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"github.com/kursgid/kursgid-api/internal/utils"
	"gorm.io/gorm"
)

// ListCourses is the public discovery endpoint. Filter and pagination errors
// degrade to defaults; a failed fetch produces an empty result, never a 500.
func ListCourses(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := services.CourseFilter{
			Search:    c.Query("search"),
			Category:  c.Query("category"),
			MinPrice:  parseFloatParam(c.Query("minPrice")),
			MaxPrice:  parseFloatParam(c.Query("maxPrice")),
			MinRating: parseFloatParam(c.Query("minRating")),
			Sort:      services.ParseSort(c.Query("sort")),
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.PageSize)))

		var seed *int64
		if raw := c.Query("seed"); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
				seed = &parsed
			}
		}

		courses, pagination := catalog.ListCourses(filter, page, limit, seed)

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"courses":    courses,
			"pagination": pagination,
		})
	}
}

// GetCourse returns one approved course with its approved reviews.
func GetCourse(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		course, err := catalog.GetCourseBySlug(c.Param("slug"))
		if err != nil {
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

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    course,
		})
	}
}

// SubmitCourse accepts a public course submission and queues it for
// moderation. Category validation and image upload are best effort: their
// failure degrades to "no category" / "no image" rather than rejecting the
// submission.
func SubmitCourse(db *gorm.DB, storage *services.StorageService, email *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		submittedByName := c.PostForm("submittedByName")
		submittedByEmail := c.PostForm("submittedByEmail")
		title := c.PostForm("title")
		link := c.PostForm("link")
		authorIDStr := c.PostForm("authorId")

		if submittedByName == "" || submittedByEmail == "" || title == "" || link == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Name, email, title and link are required",
				},
			})
			return
		}

		authorID, err := uuid.Parse(authorIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "A school must be selected",
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
					"message": "Selected school not found",
				},
			})
			return
		}

		// Optional category, validated best effort.
		var categoryID *uuid.UUID
		if raw := c.PostForm("categoryId"); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				var category models.Category
				if err := db.First(&category, "id = ?", parsed).Error; err == nil {
					categoryID = &category.ID
				}
			}
		}

		// Optional image, uploaded best effort.
		var imagePath *string
		if storage != nil {
			if file, header, err := c.Request.FormFile("image"); err == nil {
				defer file.Close()
				if path, err := storage.UploadImage(file, header, "courses"); err == nil {
					imagePath = &path
				} else {
					log.Printf("Failed to store course image: %v", err)
				}
			}
		}

		slug := utils.UniqueSlug(utils.Slugify(title), func(candidate string) bool {
			var count int64
			db.Model(&models.Course{}).Where("slug = ?", candidate).Count(&count)
			return count > 0
		})

		course := models.Course{
			Title:            title,
			Slug:             slug,
			Link:             link,
			Description:      optionalForm(c, "description"),
			Contacts:         optionalForm(c, "contacts"),
			Pros:             optionalForm(c, "pros"),
			Cons:             optionalForm(c, "cons"),
			Price:            parseFloatParam(c.PostForm("price")),
			Image:            imagePath,
			SubmittedByName:  &submittedByName,
			SubmittedByEmail: &submittedByEmail,
			Status:           models.StatusPending,
			AuthorID:         author.ID,
			CategoryID:       categoryID,
		}

		if err := db.Create(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to submit course",
				},
			})
			return
		}

		go email.NotifySubmission("course", course.Title)

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Course submitted for moderation",
			"course_id": course.ID,
		})
	}
}

func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func optionalForm(c *gin.Context, field string) *string {
	if value := c.PostForm(field); value != "" {
		return &value
	}
	return nil
}

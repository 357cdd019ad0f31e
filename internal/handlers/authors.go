package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"github.com/kursgid/kursgid-api/internal/utils"
	"gorm.io/gorm"
)

// ListAuthors returns the name-ordered school list for submission forms.
func ListAuthors(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var authors []models.Author
		if err := db.Select("id", "name", "slug").Order("name asc").Find(&authors).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch schools",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"authors": authors,
		})
	}
}

// GetSchool returns a school page: the author, its approved courses and its
// approved reviews.
func GetSchool(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var author models.Author
		err := db.
			Preload("Courses", func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ?", models.StatusApproved).Order("published_at DESC")
			}).
			Preload("Courses.Category").
			Preload("SchoolReviews", func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ?", models.StatusApproved).Order("published_at DESC")
			}).
			First(&author, "slug = ?", c.Param("slug")).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "NOT_FOUND",
						"message": "School not found",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to fetch school",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    author,
		})
	}
}

// SubmitSchool accepts a public school submission. Authors have no moderation
// state, so the school is created directly; logo upload is best effort.
func SubmitSchool(db *gorm.DB, storage *services.StorageService, email *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		submittedByName := c.PostForm("submittedByName")
		submittedByEmail := c.PostForm("submittedByEmail")
		name := c.PostForm("name")

		if submittedByName == "" || submittedByEmail == "" || name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Name, email and school name are required",
				},
			})
			return
		}

		var logoPath *string
		if storage != nil {
			if file, header, err := c.Request.FormFile("logo"); err == nil {
				defer file.Close()
				if path, err := storage.UploadImage(file, header, "schools"); err == nil {
					logoPath = &path
				} else {
					log.Printf("Failed to store school logo: %v", err)
				}
			}
		}

		slug := utils.UniqueSlug(utils.Slugify(name), func(candidate string) bool {
			var count int64
			db.Model(&models.Author{}).Where("slug = ?", candidate).Count(&count)
			return count > 0
		})

		author := models.Author{
			Name:             name,
			Slug:             slug,
			Bio:              optionalForm(c, "bio"),
			Logo:             logoPath,
			Website:          optionalForm(c, "website"),
			Email:            optionalForm(c, "email"),
			Contacts:         optionalForm(c, "contacts"),
			SubmittedByName:  &submittedByName,
			SubmittedByEmail: &submittedByEmail,
		}

		if err := db.Create(&author).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to submit school",
				},
			})
			return
		}

		go email.NotifySubmission("school", author.Name)

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "School submitted",
			"author_id": author.ID,
		})
	}
}

type AuthorRequest struct {
	Name      string  `json:"name" binding:"required"`
	Bio       *string `json:"bio"`
	Website   *string `json:"website"`
	Email     *string `json:"email"`
	Contacts  *string `json:"contacts"`
	LegalInfo *string `json:"legal_info"`
}

// CreateAuthor creates a school directly (admin only).
func CreateAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AuthorRequest
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

		slug := utils.UniqueSlug(utils.Slugify(req.Name), func(candidate string) bool {
			var count int64
			db.Model(&models.Author{}).Where("slug = ?", candidate).Count(&count)
			return count > 0
		})

		author := models.Author{
			Name:      req.Name,
			Slug:      slug,
			Bio:       req.Bio,
			Website:   req.Website,
			Email:     req.Email,
			Contacts:  req.Contacts,
			LegalInfo: req.LegalInfo,
		}

		if err := db.Create(&author).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to create school",
				},
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    author,
		})
	}
}

// UpdateAuthor updates a school (admin only).
func UpdateAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID, err := uuid.Parse(c.Param("id"))
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
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "School not found",
				},
			})
			return
		}

		var req AuthorRequest
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

		author.Name = req.Name
		author.Bio = req.Bio
		author.Website = req.Website
		author.Email = req.Email
		author.Contacts = req.Contacts
		author.LegalInfo = req.LegalInfo

		if err := db.Save(&author).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to update school",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    author,
		})
	}
}

// DeleteAuthor deletes a school (admin only).
func DeleteAuthor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID, err := uuid.Parse(c.Param("id"))
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

		result := db.Delete(&models.Author{}, "id = ?", authorID)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to delete school",
				},
			})
			return
		}

		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "School not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "School deleted successfully",
		})
	}
}

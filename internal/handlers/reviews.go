package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"gorm.io/gorm"
)

type SubmitReviewRequest struct {
	CourseID    string `json:"courseId" binding:"required"`
	AuthorName  string `json:"authorName" binding:"required"`
	AuthorEmail string `json:"authorEmail"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Text        string `json:"text" binding:"required"`
}

// SubmitReview accepts a public course review; it stays PENDING until an
// admin approves it, so it has no effect on the course rating yet.
func SubmitReview(db *gorm.DB, email *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitReviewRequest
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

		courseID, err := uuid.Parse(req.CourseID)
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
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Course not found",
				},
			})
			return
		}

		review := models.Review{
			CourseID:   course.ID,
			AuthorName: req.AuthorName,
			Rating:     req.Rating,
			Text:       req.Text,
			Status:     models.StatusPending,
		}
		if req.AuthorEmail != "" {
			review.AuthorEmail = &req.AuthorEmail
		}

		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to submit review",
				},
			})
			return
		}

		go email.NotifySubmission("review", course.Title)

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Review submitted for moderation",
			"review_id": review.ID,
		})
	}
}

type SubmitSchoolReviewRequest struct {
	AuthorName  string `json:"authorName" binding:"required"`
	AuthorEmail string `json:"authorEmail"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Title       string `json:"title"`
	Pros        string `json:"pros"`
	Cons        string `json:"cons"`
	Comment     string `json:"comment"`
}

// SubmitSchoolReview accepts a public review of a school (author). School
// reviews are moderated like course reviews but never feed a course rating.
func SubmitSchoolReview(db *gorm.DB, email *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var author models.Author
		if err := db.First(&author, "slug = ?", c.Param("slug")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "School not found",
				},
			})
			return
		}

		var req SubmitSchoolReviewRequest
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

		review := models.SchoolReview{
			AuthorID:   author.ID,
			AuthorName: req.AuthorName,
			Rating:     req.Rating,
			Status:     models.StatusPending,
		}
		if req.AuthorEmail != "" {
			review.AuthorEmail = &req.AuthorEmail
		}
		if req.Title != "" {
			review.Title = &req.Title
		}
		if req.Pros != "" {
			review.Pros = &req.Pros
		}
		if req.Cons != "" {
			review.Cons = &req.Cons
		}
		if req.Comment != "" {
			review.Comment = &req.Comment
		}

		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to submit review",
				},
			})
			return
		}

		go email.NotifySubmission("review", author.Name)

		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"message":   "Review submitted for moderation",
			"review_id": review.ID,
		})
	}
}

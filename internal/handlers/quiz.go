package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/services"
)

type RecommendationsRequest struct {
	Answers []services.QuizAnswer `json:"answers"`
}

// GetRecommendations maps the 5 quiz answers to up to 6 matching courses.
func GetRecommendations(recommender *services.RecommendationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecommendationsRequest
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

		courses, err := recommender.Recommend(req.Answers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "All quiz questions must be answered",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"courses": courses,
		})
	}
}

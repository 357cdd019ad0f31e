package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func quizRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/quiz/recommendations", GetRecommendations(services.NewRecommendationService(db)))
	return r
}

func TestGetRecommendationsRejectsIncompleteQuiz(t *testing.T) {
	db := openTestDB(t)
	r := quizRouter(db)

	payload := `{"answers":[{"questionId":1,"answer":"profession"}]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quiz/recommendations", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGetRecommendationsReturnsCourses(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	category := models.Category{Name: "программирование", Slug: "programmirovanie"}
	require.NoError(t, db.Create(&category).Error)

	createCourse(t, db, models.Course{
		Title: "Го для начинающих", AuthorID: author.ID, CategoryID: &category.ID,
		Status: models.StatusApproved,
	})

	r := quizRouter(db)

	payload := `{"answers":[
		{"questionId":1,"answer":"profession"},
		{"questionId":2,"answer":"beginner"},
		{"questionId":3,"answer":"low"},
		{"questionId":4,"answer":"any"},
		{"questionId":5,"answer":"quality"}
	]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/quiz/recommendations", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool            `json:"success"`
		Courses []models.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Courses, 1)
	assert.Equal(t, "Го для начинающих", body.Courses[0].Title)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/config"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListCoursesEndpoint(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	createCourse(t, db, models.Course{
		Title: "Скрытый", AuthorID: author.ID, Status: models.StatusPending,
	})

	r := gin.New()
	r.GET("/courses", ListCourses(services.NewCatalogService(db)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses?sort=newest", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool                `json:"success"`
		Courses    []models.Course     `json:"courses"`
		Pagination services.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Courses, 1)
	assert.Equal(t, "Курс", body.Courses[0].Title)
	assert.Equal(t, int64(1), body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Page)
}

func TestGetCourseHidesUnapproved(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	createCourse(t, db, models.Course{
		Title: "Скрытый", Slug: "skrytyy", AuthorID: author.ID, Status: models.StatusPending,
	})

	r := gin.New()
	r.GET("/courses/:slug", GetCourse(services.NewCatalogService(db)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses/skrytyy", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := openTestDB(t)
	email := services.NewEmailService(&config.Config{})

	r := gin.New()
	r.POST("/reviews", SubmitReview(db, email))

	// Rating outside 1..5 is rejected by binding.
	payload := `{"courseId":"` + createCourseForReview(t, db) + `","authorName":"Гость","rating":6,"text":"отзыв"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReviewCreatesPending(t *testing.T) {
	db := openTestDB(t)
	email := services.NewEmailService(&config.Config{})
	courseID := createCourseForReview(t, db)

	r := gin.New()
	r.POST("/reviews", SubmitReview(db, email))

	payload := `{"courseId":"` + courseID + `","authorName":"Гость","rating":5,"text":"отличный курс"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var review models.Review
	require.NoError(t, db.First(&review).Error)
	assert.Equal(t, models.StatusPending, review.Status)
	assert.Nil(t, review.PublishedAt)

	// A pending review must not touch the course aggregate.
	var course models.Course
	require.NoError(t, db.First(&course, "id = ?", review.CourseID).Error)
	assert.Equal(t, 0, course.ReviewCount)
}

func createCourseForReview(t *testing.T, db *gorm.DB) string {
	t.Helper()

	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	return course.ID.String()
}

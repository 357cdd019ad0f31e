package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/database"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func createAuthor(t *testing.T, db *gorm.DB, name, slug string) models.Author {
	t.Helper()

	author := models.Author{Name: name, Slug: slug}
	require.NoError(t, db.Create(&author).Error)
	return author
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) models.Category {
	t.Helper()

	category := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func attachTag(t *testing.T, db *gorm.DB, course models.Course, tag models.Tag) {
	t.Helper()

	require.NoError(t, db.Create(&models.CourseTag{CourseID: course.ID, TagID: tag.ID}).Error)
}

// createCourse persists the given course, filling in defaults a fixture
// usually does not care about.
func createCourse(t *testing.T, db *gorm.DB, course models.Course) models.Course {
	t.Helper()

	if course.Link == "" {
		course.Link = "https://example.com/course"
	}
	if course.Slug == "" {
		course.Slug = uuid.NewString()
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func createReview(t *testing.T, db *gorm.DB, courseID uuid.UUID, rating int, status models.ModerationStatus) models.Review {
	t.Helper()

	review := models.Review{
		CourseID:   courseID,
		AuthorName: "Гость",
		Rating:     rating,
		Text:       "отзыв",
		Status:     status,
	}
	require.NoError(t, db.Create(&review).Error)
	return review
}

func ptr(v float64) *float64 {
	return &v
}

func priceType(t models.PriceType) *models.PriceType {
	return &t
}

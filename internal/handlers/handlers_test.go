package handlers

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/database"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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

func createAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	admin := models.User{
		Email:        "admin@test.local",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

// asAdmin injects the auth context the real JWT middleware would set.
func asAdmin(admin models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", admin.ID.String())
		c.Set("role", string(models.RoleAdmin))
		c.Next()
	}
}

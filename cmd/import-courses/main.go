package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kursgid/kursgid-api/internal/config"
	"github.com/kursgid/kursgid-api/internal/database"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/kursgid/kursgid-api/internal/utils"
	"gorm.io/gorm"
)

// Imports a catalog dump from CSV. Expected columns (header row required):
// title, link, author, category, description, price, price_per_lesson,
// price_per_month, price_one_time, price_type. Unknown columns are ignored.
// Imported courses go live immediately.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <courses.csv>", os.Args[0])
	}
	csvPath := os.Args[1]

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	imported, skipped, failures, err := importCourses(db, csvPath)
	if err != nil {
		log.Fatalf("Failed to import courses: %v", err)
	}

	log.Printf("\nImport Summary:")
	log.Printf("  Courses imported: %d", imported)
	log.Printf("  Courses skipped: %d", skipped)
	log.Printf("  Errors: %d", failures)
}

func importCourses(db *gorm.DB, path string) (int, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "link", "author"} {
		if _, ok := columns[required]; !ok {
			return 0, 0, 0, fmt.Errorf("missing required column: %s", required)
		}
	}

	imported := 0
	skipped := 0
	failures := 0

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err != nil {
			break
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		title := field("title")
		link := field("link")
		authorName := field("author")
		if title == "" || link == "" || authorName == "" {
			log.Printf("Line %d: missing title, link or author, skipping", line)
			skipped++
			continue
		}

		// Skip courses that were already imported
		var existing int64
		db.Model(&models.Course{}).Where("title = ? AND link = ?", title, link).Count(&existing)
		if existing > 0 {
			skipped++
			continue
		}

		author, err := getOrCreateAuthor(db, authorName)
		if err != nil {
			log.Printf("Line %d: %v", line, err)
			failures++
			continue
		}

		var categoryID *uuid.UUID
		if categoryName := field("category"); categoryName != "" {
			category, err := getOrCreateCategory(db, categoryName)
			if err != nil {
				log.Printf("Line %d: %v", line, err)
			} else {
				categoryID = &category.ID
			}
		}

		slug := utils.UniqueSlug(utils.Slugify(title), func(candidate string) bool {
			var count int64
			db.Model(&models.Course{}).Where("slug = ?", candidate).Count(&count)
			return count > 0
		})

		now := time.Now()
		course := models.Course{
			Title:          title,
			Slug:           slug,
			Link:           link,
			Price:          parsePrice(field("price")),
			PricePerLesson: parsePrice(field("price_per_lesson")),
			PricePerMonth:  parsePrice(field("price_per_month")),
			PriceOneTime:   parsePrice(field("price_one_time")),
			Status:         models.StatusApproved,
			PublishedAt:    &now,
			AuthorID:       author.ID,
			CategoryID:     categoryID,
		}
		if description := field("description"); description != "" {
			course.Description = &description
		}
		if priceType := models.PriceType(strings.ToUpper(field("price_type"))); priceType.Valid() {
			course.PriceType = &priceType
		}

		if err := db.Create(&course).Error; err != nil {
			log.Printf("Line %d: failed to create course %q: %v", line, title, err)
			failures++
			continue
		}

		log.Printf("Imported course: %s (slug: %s)", title, slug)
		imported++
	}

	return imported, skipped, failures, nil
}

func getOrCreateAuthor(db *gorm.DB, name string) (*models.Author, error) {
	var author models.Author
	err := db.Where("name = ?", name).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("error checking author %q: %w", name, err)
	}

	slug := utils.UniqueSlug(utils.Slugify(name), func(candidate string) bool {
		var count int64
		db.Model(&models.Author{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	author = models.Author{Name: name, Slug: slug}
	if err := db.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author %q: %w", name, err)
	}
	return &author, nil
}

func getOrCreateCategory(db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := db.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("error checking category %q: %w", name, err)
	}

	slug := utils.UniqueSlug(utils.Slugify(name), func(candidate string) bool {
		var count int64
		db.Model(&models.Category{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	category = models.Category{Name: name, Slug: slug}
	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return &category, nil
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

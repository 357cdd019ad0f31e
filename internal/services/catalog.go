package services

import (
	"math/rand"
	"strings"
	"time"

	"github.com/kursgid/kursgid-api/internal/models"
	"gorm.io/gorm"
)

// PageSize is fixed for all discovery modes.
const PageSize = 30

type SortMode string

const (
	SortRating    SortMode = "rating"
	SortReviews   SortMode = "reviews"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNewest    SortMode = "newest"
	SortRandom    SortMode = "random"
)

// ParseSort maps a query value to a sort mode. Anything unknown falls back
// to random, the catalog default.
func ParseSort(value string) SortMode {
	switch SortMode(value) {
	case SortRating, SortReviews, SortPriceAsc, SortPriceDesc, SortNewest:
		return SortMode(value)
	}
	return SortRandom
}

// CourseFilter is the normalized discovery request. Zero-valued fields
// contribute no constraint.
type CourseFilter struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Sort      SortMode
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// buildQuery compiles a filter into a predicate over approved courses.
// The same filter always compiles to the same predicate.
func (s *CatalogService) buildQuery(f CourseFilter) *gorm.DB {
	query := s.db.Model(&models.Course{}).Where("courses.status = ?", models.StatusApproved)

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.
			Joins("JOIN authors ON authors.id = courses.author_id").
			Where("LOWER(courses.title) LIKE ? OR LOWER(courses.description) LIKE ? OR LOWER(authors.name) LIKE ?",
				pattern, pattern, pattern)
	}

	if f.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = courses.category_id").
			Where("categories.slug = ?", f.Category)
	}

	// Price range filters apply to the legacy price field only.
	if f.MinPrice != nil {
		query = query.Where("courses.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("courses.price <= ?", *f.MaxPrice)
	}

	if f.MinRating != nil {
		query = query.Where("courses.average_rating >= ?", *f.MinRating)
	}

	return query
}

func (s *CatalogService) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("Author").Preload("Category").Preload("Tags.Tag")
}

func orderClause(sort SortMode) string {
	switch sort {
	case SortRating:
		return "courses.average_rating DESC"
	case SortReviews:
		return "courses.review_count DESC"
	case SortPriceAsc:
		return "courses.price ASC"
	case SortPriceDesc:
		return "courses.price DESC"
	case SortNewest:
		return "courses.published_at DESC"
	}
	return ""
}

// ListCourses returns one page of courses matching the filter plus pagination
// metadata. In random mode the whole matching set is materialized, shuffled
// and sliced; a non-nil seed pins the shuffle so a client can keep a stable
// ordering across page requests. Fetch failures degrade to an empty page
// rather than an error.
func (s *CatalogService) ListCourses(f CourseFilter, page, limit int, seed *int64) ([]models.Course, Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > PageSize {
		limit = PageSize
	}
	offset := (page - 1) * limit

	empty := Pagination{Page: page, Limit: limit}

	var total int64
	if err := s.buildQuery(f).Count(&total).Error; err != nil {
		return []models.Course{}, empty
	}

	var courses []models.Course

	if f.Sort == SortRandom {
		var all []models.Course
		if err := s.withRelations(s.buildQuery(f)).Find(&all).Error; err != nil {
			return []models.Course{}, empty
		}
		shuffleCourses(all, seed)

		if offset < len(all) {
			end := offset + limit
			if end > len(all) {
				end = len(all)
			}
			courses = all[offset:end]
		} else {
			courses = []models.Course{}
		}
	} else {
		err := s.withRelations(s.buildQuery(f)).
			Order(orderClause(f.Sort)).
			Offset(offset).
			Limit(limit).
			Find(&courses).Error
		if err != nil {
			return []models.Course{}, empty
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return courses, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    int64(offset+len(courses)) < total,
	}
}

// GetCourseBySlug returns an approved course with its relations and approved
// reviews, newest first.
func (s *CatalogService) GetCourseBySlug(slug string) (*models.Course, error) {
	var course models.Course
	err := s.db.
		Preload("Author").
		Preload("Category").
		Preload("Tags.Tag").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.StatusApproved).Order("published_at DESC")
		}).
		Where("slug = ? AND status = ?", slug, models.StatusApproved).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Fisher-Yates over the fetched set.
func shuffleCourses(courses []models.Course, seed *int64) {
	source := time.Now().UnixNano()
	if seed != nil {
		source = *seed
	}
	rng := rand.New(rand.NewSource(source))
	rng.Shuffle(len(courses), func(i, j int) {
		courses[i], courses[j] = courses[j], courses[i]
	})
}

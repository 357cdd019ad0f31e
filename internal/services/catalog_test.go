package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortRating, ParseSort("rating"))
	assert.Equal(t, SortPriceAsc, ParseSort("price-asc"))
	assert.Equal(t, SortRandom, ParseSort(""))
	assert.Equal(t, SortRandom, ParseSort("random"))
	assert.Equal(t, SortRandom, ParseSort("bogus"))
}

func TestListCoursesOnlyApproved(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	approved := createCourse(t, db, models.Course{
		Title: "Курс А", AuthorID: author.ID, Status: models.StatusApproved,
	})
	createCourse(t, db, models.Course{
		Title: "Курс Б", AuthorID: author.ID, Status: models.StatusPending,
	})
	createCourse(t, db, models.Course{
		Title: "Курс В", AuthorID: author.ID, Status: models.StatusRejected,
	})

	seed := int64(1)
	courses, pagination := NewCatalogService(db).ListCourses(CourseFilter{Sort: SortRandom}, 1, PageSize, &seed)

	require.Len(t, courses, 1)
	assert.Equal(t, approved.ID, courses[0].ID)
	assert.Equal(t, int64(1), pagination.Total)
	assert.False(t, pagination.HasMore)
}

func TestListCoursesSearch(t *testing.T) {
	db := openTestDB(t)
	skyeng := createAuthor(t, db, "skyeng", "skyeng")
	other := createAuthor(t, db, "прочие", "prochie")

	english := createCourse(t, db, models.Course{
		Title: "английский для начинающих", AuthorID: other.ID, Status: models.StatusApproved,
	})
	bySchool := createCourse(t, db, models.Course{
		Title: "разговорный клуб", AuthorID: skyeng.ID, Status: models.StatusApproved,
	})
	createCourse(t, db, models.Course{
		Title: "веб-дизайн", AuthorID: other.ID, Status: models.StatusApproved,
	})

	service := NewCatalogService(db)

	courses, _ := service.ListCourses(CourseFilter{Search: "английский", Sort: SortNewest}, 1, PageSize, nil)
	require.Len(t, courses, 1)
	assert.Equal(t, english.ID, courses[0].ID)

	// Author name matches too.
	courses, _ = service.ListCourses(CourseFilter{Search: "skyeng", Sort: SortNewest}, 1, PageSize, nil)
	require.Len(t, courses, 1)
	assert.Equal(t, bySchool.ID, courses[0].ID)
}

func TestListCoursesCategoryAndRatingFilters(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	design := createCategory(t, db, "дизайн", "dizayn")

	inCategory := createCourse(t, db, models.Course{
		Title: "Курс дизайна", AuthorID: author.ID, CategoryID: &design.ID,
		Status: models.StatusApproved, AverageRating: 4.5,
	})
	createCourse(t, db, models.Course{
		Title: "Без категории", AuthorID: author.ID,
		Status: models.StatusApproved, AverageRating: 3.0,
	})

	service := NewCatalogService(db)

	courses, _ := service.ListCourses(CourseFilter{Category: "dizayn", Sort: SortNewest}, 1, PageSize, nil)
	require.Len(t, courses, 1)
	assert.Equal(t, inCategory.ID, courses[0].ID)

	courses, _ = service.ListCourses(CourseFilter{MinRating: ptr(4.0), Sort: SortNewest}, 1, PageSize, nil)
	require.Len(t, courses, 1)
	assert.Equal(t, inCategory.ID, courses[0].ID)
}

func TestListCoursesPriceRange(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	cheap := createCourse(t, db, models.Course{
		Title: "Дешёвый", AuthorID: author.ID, Status: models.StatusApproved, Price: ptr(1000),
	})
	createCourse(t, db, models.Course{
		Title: "Дорогой", AuthorID: author.ID, Status: models.StatusApproved, Price: ptr(50000),
	})
	// Only the legacy price participates in range filtering.
	createCourse(t, db, models.Course{
		Title: "Помесячный", AuthorID: author.ID, Status: models.StatusApproved,
		PricePerMonth: ptr(2000), PriceType: priceType(models.PricePerMonth),
	})

	courses, _ := NewCatalogService(db).ListCourses(CourseFilter{
		MinPrice: ptr(500), MaxPrice: ptr(5000), Sort: SortNewest,
	}, 1, PageSize, nil)

	require.Len(t, courses, 1)
	assert.Equal(t, cheap.ID, courses[0].ID)
}

func TestListCoursesSortModes(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	createCourse(t, db, models.Course{
		Title: "Средний", AuthorID: author.ID, Status: models.StatusApproved,
		AverageRating: 3.0, ReviewCount: 10, Price: ptr(2000),
	})
	createCourse(t, db, models.Course{
		Title: "Лучший", AuthorID: author.ID, Status: models.StatusApproved,
		AverageRating: 5.0, ReviewCount: 2, Price: ptr(3000),
	})
	createCourse(t, db, models.Course{
		Title: "Дешёвый", AuthorID: author.ID, Status: models.StatusApproved,
		AverageRating: 4.0, ReviewCount: 5, Price: ptr(1000),
	})

	service := NewCatalogService(db)

	courses, _ := service.ListCourses(CourseFilter{Sort: SortRating}, 1, PageSize, nil)
	require.Len(t, courses, 3)
	assert.Equal(t, "Лучший", courses[0].Title)

	courses, _ = service.ListCourses(CourseFilter{Sort: SortReviews}, 1, PageSize, nil)
	assert.Equal(t, "Средний", courses[0].Title)

	courses, _ = service.ListCourses(CourseFilter{Sort: SortPriceAsc}, 1, PageSize, nil)
	assert.Equal(t, "Дешёвый", courses[0].Title)

	courses, _ = service.ListCourses(CourseFilter{Sort: SortPriceDesc}, 1, PageSize, nil)
	assert.Equal(t, "Лучший", courses[0].Title)
}

func TestListCoursesShufflePaginationCoversEverything(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	const total = 70
	for i := 0; i < total; i++ {
		createCourse(t, db, models.Course{
			Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
		})
	}

	service := NewCatalogService(db)
	seed := int64(42)

	seen := make(map[uuid.UUID]bool)
	for page := 1; page <= 3; page++ {
		courses, pagination := service.ListCourses(CourseFilter{Sort: SortRandom}, page, PageSize, &seed)

		assert.Equal(t, int64(total), pagination.Total)
		assert.Equal(t, 3, pagination.TotalPages)
		assert.Equal(t, page < 3, pagination.HasMore)

		for _, course := range courses {
			assert.False(t, seen[course.ID], "course repeated across pages")
			seen[course.ID] = true
		}
	}
	assert.Len(t, seen, total)
}

func TestListCoursesSeededShuffleIsStable(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	for i := 0; i < 40; i++ {
		createCourse(t, db, models.Course{
			Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
		})
	}

	service := NewCatalogService(db)
	seed := int64(7)

	first, _ := service.ListCourses(CourseFilter{Sort: SortRandom}, 1, PageSize, &seed)
	second, _ := service.ListCourses(CourseFilter{Sort: SortRandom}, 1, PageSize, &seed)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestListCoursesClampsPageAndLimit(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})

	service := NewCatalogService(db)

	_, pagination := service.ListCourses(CourseFilter{Sort: SortNewest}, 0, 100, nil)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, PageSize, pagination.Limit)
}

func TestListCoursesDegradesToEmptyOnFailure(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Course{}))

	courses, pagination := NewCatalogService(db).ListCourses(CourseFilter{Sort: SortRandom}, 1, PageSize, nil)

	assert.Empty(t, courses)
	assert.Equal(t, int64(0), pagination.Total)
	assert.False(t, pagination.HasMore)
}

func TestGetCourseBySlug(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")

	course := createCourse(t, db, models.Course{
		Title: "Курс", Slug: "kurs", AuthorID: author.ID, Status: models.StatusApproved,
	})
	createReview(t, db, course.ID, 5, models.StatusApproved)
	createReview(t, db, course.ID, 1, models.StatusPending)

	hidden := createCourse(t, db, models.Course{
		Title: "Скрытый", Slug: "skrytyy", AuthorID: author.ID, Status: models.StatusPending,
	})

	service := NewCatalogService(db)

	found, err := service.GetCourseBySlug("kurs")
	require.NoError(t, err)
	assert.Equal(t, course.ID, found.ID)
	assert.Equal(t, author.ID, found.Author.ID)
	require.Len(t, found.Reviews, 1)
	assert.Equal(t, models.StatusApproved, found.Reviews[0].Status)

	_, err = service.GetCourseBySlug(hidden.Slug)
	assert.Error(t, err)
}

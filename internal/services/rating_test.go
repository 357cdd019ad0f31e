package services

import (
	"testing"

	"github.com/kursgid/kursgid-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveCourseWithoutReviews(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusPending,
	})

	approved, err := NewRatingService(db).ApproveCourse(course.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.PublishedAt)
	assert.Equal(t, float64(0), approved.AverageRating)
	assert.Equal(t, 0, approved.ReviewCount)
}

func TestApproveReviewRecomputesAggregate(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	first := createReview(t, db, course.ID, 4, models.StatusPending)
	second := createReview(t, db, course.ID, 5, models.StatusPending)

	_, err := service.ApproveReview(first.ID)
	require.NoError(t, err)
	_, err = service.ApproveReview(second.ID)
	require.NoError(t, err)

	var updated models.Course
	require.NoError(t, db.First(&updated, "id = ?", course.ID).Error)
	assert.InDelta(t, 4.5, updated.AverageRating, 0.001)
	assert.Equal(t, 2, updated.ReviewCount)

	// A third approval shifts the average down.
	third := createReview(t, db, course.ID, 3, models.StatusPending)
	_, err = service.ApproveReview(third.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&updated, "id = ?", course.ID).Error)
	assert.InDelta(t, 4.0, updated.AverageRating, 0.001)
	assert.Equal(t, 3, updated.ReviewCount)
}

func TestReApprovingReviewDoesNotDoubleCount(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	review := createReview(t, db, course.ID, 5, models.StatusPending)

	_, err := service.ApproveReview(review.ID)
	require.NoError(t, err)
	_, err = service.ApproveReview(review.ID)
	require.NoError(t, err)

	var updated models.Course
	require.NoError(t, db.First(&updated, "id = ?", course.ID).Error)
	assert.InDelta(t, 5.0, updated.AverageRating, 0.001)
	assert.Equal(t, 1, updated.ReviewCount)
}

func TestRejectReviewLeavesAggregateAlone(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	approvedReview := createReview(t, db, course.ID, 4, models.StatusPending)
	_, err := service.ApproveReview(approvedReview.ID)
	require.NoError(t, err)

	rejected := createReview(t, db, course.ID, 1, models.StatusPending)
	result, err := service.RejectReview(rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Nil(t, result.PublishedAt)

	var updated models.Course
	require.NoError(t, db.First(&updated, "id = ?", course.ID).Error)
	assert.InDelta(t, 4.0, updated.AverageRating, 0.001)
	assert.Equal(t, 1, updated.ReviewCount)
}

func TestApproveCourseRescansEarlierApprovedReviews(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusPending,
	})

	// Reviews approved before the course itself goes live.
	createReview(t, db, course.ID, 5, models.StatusApproved)
	createReview(t, db, course.ID, 4, models.StatusApproved)
	createReview(t, db, course.ID, 1, models.StatusPending)

	approved, err := NewRatingService(db).ApproveCourse(course.ID)
	require.NoError(t, err)

	assert.InDelta(t, 4.5, approved.AverageRating, 0.001)
	assert.Equal(t, 2, approved.ReviewCount)
}

func TestSetManualRatingValidatesRange(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	_, err := service.SetManualRating(course.ID, 5.5)
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	_, err = service.SetManualRating(course.ID, -0.1)
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	pinned, err := service.SetManualRating(course.ID, 4.8)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, pinned.AverageRating, 0.001)
}

func TestManualRatingSurvivesReviewApproval(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	_, err := service.SetManualRating(course.ID, 5.0)
	require.NoError(t, err)

	review := createReview(t, db, course.ID, 1, models.StatusPending)
	_, err = service.ApproveReview(review.ID)
	require.NoError(t, err)

	var updated models.Course
	require.NoError(t, db.First(&updated, "id = ?", course.ID).Error)
	assert.InDelta(t, 5.0, updated.AverageRating, 0.001)
}

func TestClearManualRatingRestoresDerivedValue(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusApproved,
	})
	service := NewRatingService(db)

	review := createReview(t, db, course.ID, 3, models.StatusPending)
	_, err := service.ApproveReview(review.ID)
	require.NoError(t, err)

	_, err = service.SetManualRating(course.ID, 5.0)
	require.NoError(t, err)

	restored, err := service.ClearManualRating(course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, restored.AverageRating, 0.001)
	assert.Equal(t, 1, restored.ReviewCount)
	assert.False(t, restored.RatingOverridden)
}

func TestApproveRejectedCourse(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	course := createCourse(t, db, models.Course{
		Title: "Курс", AuthorID: author.ID, Status: models.StatusPending,
	})
	service := NewRatingService(db)

	rejected, err := service.RejectCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.PublishedAt)

	// An explicit approve still wins over the rejected state.
	approved, err := service.ApproveCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.NotNil(t, approved.PublishedAt)
}

func TestSchoolReviewModeration(t *testing.T) {
	db := openTestDB(t)
	author := createAuthor(t, db, "Школа", "shkola")
	service := NewRatingService(db)

	review := models.SchoolReview{
		AuthorID:   author.ID,
		AuthorName: "Гость",
		Rating:     4,
		Status:     models.StatusPending,
	}
	require.NoError(t, db.Create(&review).Error)

	approved, err := service.ApproveSchoolReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.NotNil(t, approved.PublishedAt)

	other := models.SchoolReview{
		AuthorID:   author.ID,
		AuthorName: "Гость",
		Rating:     1,
		Status:     models.StatusPending,
	}
	require.NoError(t, db.Create(&other).Error)

	rejected, err := service.RejectSchoolReview(other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
}

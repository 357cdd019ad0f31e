package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/kursgid/kursgid-api/internal/models"
	"gorm.io/gorm"
)

const (
	// recommendationLimit is the guaranteed maximum (and target minimum,
	// catalog permitting) number of quiz results.
	recommendationLimit = 6
	// firstPassFetch leaves headroom for deduplication in later passes.
	firstPassFetch = 12
)

var ErrIncompleteQuiz = errors.New("quiz must contain exactly one answer per question")

// QuizAnswer is one entry of the fixed 5-question quiz.
type QuizAnswer struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

// quizProfile is the parsed answer set: 1=goal, 2=level, 3=budget,
// 4=payment format, 5=priority.
type quizProfile struct {
	Goal          string
	Level         string
	Budget        string
	PaymentFormat string
	Priority      string
}

// Goal allow/deny lists, matched case-insensitively against category, tag and
// title names. Constants are lowercase so LOWER(col) LIKE comparisons work.
var (
	// Only these schools are authorized for language recommendations.
	languageSchoolSlugs = []string{"skyeng", "skysmart"}

	languageCategoryNames = []string{
		"языки", "английский", "испанский", "французский", "немецкий",
		"китайский", "японский", "корейский", "итальянский",
	}
	languageTagNeedle = "язык"

	// Exam-prep and school-subject courses are not language recommendations
	// even when a language school offers them.
	languageDenyNeedles = []string{"впр", "огэ", "егэ", "русский язык", "математика"}

	professionCategoryNames = []string{
		"программирование", "дизайн", "маркетинг", "smm",
		"аналитика", "менеджмент", "бизнес",
	}
	professionTagNeedle = "профессия"

	hobbyCategoryNames = []string{"творчество", "музыка", "фотография"}

	skillsMinRating = 4.0
)

type RecommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

// Recommend maps the quiz answers to up to 6 approved courses. Constraints
// relax over three passes: full set, then payment format dropped, then
// budget dropped; every pass excludes ids already collected. A failed pass
// contributes zero candidates and the pipeline continues.
func (s *RecommendationService) Recommend(answers []QuizAnswer) ([]models.Course, error) {
	profile, err := parseAnswers(answers)
	if err != nil {
		return nil, err
	}

	schoolIDs := s.languageSchoolIDs()

	passes := []struct {
		build func() *gorm.DB
		take  int
	}{
		{build: func() *gorm.DB { return s.fullQuery(profile, schoolIDs) }, take: firstPassFetch},
		{build: func() *gorm.DB { return s.noFormatQuery(profile, schoolIDs) }},
		{build: func() *gorm.DB { return s.goalQuery(profile.Goal, schoolIDs) }},
	}

	collected := make([]models.Course, 0, recommendationLimit)
	seen := make(map[uuid.UUID]bool)

	for _, pass := range passes {
		if len(collected) >= recommendationLimit {
			break
		}

		take := pass.take
		if take == 0 {
			take = recommendationLimit - len(collected)
		}

		query := pass.build().
			Preload("Author").
			Preload("Category").
			Preload("Tags.Tag").
			Order(priorityOrder(profile.Priority)).
			Limit(take)

		if len(seen) > 0 {
			ids := make([]uuid.UUID, 0, len(seen))
			for id := range seen {
				ids = append(ids, id)
			}
			query = query.Where("courses.id NOT IN ?", ids)
		}

		var batch []models.Course
		if err := query.Find(&batch).Error; err != nil {
			continue
		}

		for _, course := range batch {
			if seen[course.ID] {
				continue
			}
			seen[course.ID] = true
			collected = append(collected, course)
		}
	}

	if len(collected) > recommendationLimit {
		collected = collected[:recommendationLimit]
	}
	return collected, nil
}

func parseAnswers(answers []QuizAnswer) (quizProfile, error) {
	var profile quizProfile
	if len(answers) != 5 {
		return profile, ErrIncompleteQuiz
	}

	found := make(map[int]bool, 5)
	for _, a := range answers {
		if a.QuestionID < 1 || a.QuestionID > 5 || found[a.QuestionID] {
			return profile, ErrIncompleteQuiz
		}
		found[a.QuestionID] = true

		switch a.QuestionID {
		case 1:
			profile.Goal = a.Answer
		case 2:
			profile.Level = a.Answer
		case 3:
			profile.Budget = a.Answer
		case 4:
			profile.PaymentFormat = a.Answer
		case 5:
			profile.Priority = a.Answer
		}
	}
	return profile, nil
}

// languageSchoolIDs resolves the authorized language schools. Best effort: a
// lookup failure just widens the language filter instead of aborting.
func (s *RecommendationService) languageSchoolIDs() []uuid.UUID {
	var authors []models.Author
	if err := s.db.Where("slug IN ?", languageSchoolSlugs).Find(&authors).Error; err != nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	return ids
}

// fullQuery is pass 1: goal + payment format + format-aware budget.
func (s *RecommendationService) fullQuery(p quizProfile, schoolIDs []uuid.UUID) *gorm.DB {
	query := s.goalQuery(p.Goal, schoolIDs)

	priceType, priceField := formatPriceField(p.PaymentFormat)
	if priceType != nil {
		query = query.Where("courses.price_type = ?", *priceType)
	}

	band, ok := budgetBand(p.Budget)
	if !ok {
		return query
	}

	if priceField != "" {
		cond, args := bandClause(priceField, band)
		return query.Where(cond, args...)
	}

	// Payment format "any": budget as an OR across every price
	// representation, each guarded by its own price type.
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 8)
	for _, guarded := range []struct {
		priceType models.PriceType
		field     string
	}{
		{models.PricePerMonth, "courses.price_per_month"},
		{models.PricePerLesson, "courses.price_per_lesson"},
		{models.PriceOneTime, "courses.price_one_time"},
	} {
		cond, bandArgs := bandClause(guarded.field, band)
		conds = append(conds, "(courses.price_type = '"+string(guarded.priceType)+"' AND "+cond+")")
		args = append(args, bandArgs...)
	}
	legacyCond, legacyArgs := bandClause("courses.price", band)
	conds = append(conds, "(courses.price_type IS NULL AND "+legacyCond+")")
	args = append(args, legacyArgs...)

	return query.Where(strings.Join(conds, " OR "), args...)
}

// noFormatQuery is pass 2: goal + budget across all price representations,
// no price-type gating.
func (s *RecommendationService) noFormatQuery(p quizProfile, schoolIDs []uuid.UUID) *gorm.DB {
	query := s.goalQuery(p.Goal, schoolIDs)

	band, ok := budgetBand(p.Budget)
	if !ok {
		return query
	}

	fields := []string{
		"courses.price_per_month",
		"courses.price_per_lesson",
		"courses.price_one_time",
		"courses.price",
	}
	conds := make([]string, 0, len(fields))
	args := make([]interface{}, 0, 2*len(fields))
	for _, field := range fields {
		cond, bandArgs := bandClause(field, band)
		conds = append(conds, "("+cond+")")
		args = append(args, bandArgs...)
	}

	return query.Where(strings.Join(conds, " OR "), args...)
}

// goalQuery is pass 3 and the base of the earlier passes: the goal constraint
// alone over approved courses. Unknown goal values contribute no constraint.
func (s *RecommendationService) goalQuery(goal string, schoolIDs []uuid.UUID) *gorm.DB {
	query := s.db.Model(&models.Course{}).Where("courses.status = ?", models.StatusApproved)

	switch goal {
	case "languages":
		if len(schoolIDs) > 0 {
			query = query.Where("courses.author_id IN ?", schoolIDs)
		}
		query = whereCategoryOrTag(query, languageCategoryNames, languageTagNeedle)

		for _, needle := range languageDenyNeedles {
			pattern := "%" + needle + "%"
			query = query.Where(
				"LOWER(courses.title) NOT LIKE ? AND (courses.category_id IS NULL OR courses.category_id NOT IN (SELECT id FROM categories WHERE LOWER(name) LIKE ?))",
				pattern, pattern)
		}

	case "profession":
		query = whereCategoryOrTag(query, professionCategoryNames, professionTagNeedle)

	case "skills":
		query = query.Where("courses.average_rating >= ?", skillsMinRating)

	case "hobby":
		query = whereCategoryOrTag(query, hobbyCategoryNames, "")
	}

	return query
}

// whereCategoryOrTag constrains to courses whose category name matches any of
// the needles, or that carry a matching tag.
func whereCategoryOrTag(query *gorm.DB, categoryNames []string, tagNeedle string) *gorm.DB {
	conds := make([]string, 0, len(categoryNames)+1)
	args := make([]interface{}, 0, len(categoryNames)+1)

	for _, name := range categoryNames {
		conds = append(conds, "courses.category_id IN (SELECT id FROM categories WHERE LOWER(name) LIKE ?)")
		args = append(args, "%"+name+"%")
	}
	if tagNeedle != "" {
		conds = append(conds, "courses.id IN (SELECT course_id FROM course_tags JOIN tags ON tags.id = course_tags.tag_id WHERE LOWER(tags.name) LIKE ?)")
		args = append(args, "%"+tagNeedle+"%")
	}

	return query.Where(strings.Join(conds, " OR "), args...)
}

// formatPriceField maps a payment format answer to its price-type tag and
// budget field. "any" (or anything unknown) returns no constraint.
func formatPriceField(format string) (*models.PriceType, string) {
	switch format {
	case "per_month":
		t := models.PricePerMonth
		return &t, "courses.price_per_month"
	case "per_lesson":
		t := models.PricePerLesson
		return &t, "courses.price_per_lesson"
	case "one_time":
		t := models.PriceOneTime
		return &t, "courses.price_one_time"
	}
	return nil, ""
}

type priceBand struct {
	Min *float64 // exclusive
	Max *float64 // inclusive
}

// budgetBand returns the half-open band (min, max] for a budget answer so
// every boundary price belongs to exactly one band.
func budgetBand(budget string) (priceBand, bool) {
	f := func(v float64) *float64 { return &v }
	switch budget {
	case "low":
		return priceBand{Max: f(5000)}, true
	case "medium":
		return priceBand{Min: f(5000), Max: f(15000)}, true
	case "high":
		return priceBand{Min: f(15000), Max: f(30000)}, true
	case "premium":
		return priceBand{Min: f(30000)}, true
	}
	return priceBand{}, false
}

func bandClause(field string, band priceBand) (string, []interface{}) {
	switch {
	case band.Min != nil && band.Max != nil:
		return field + " > ? AND " + field + " <= ?", []interface{}{*band.Min, *band.Max}
	case band.Min != nil:
		return field + " > ?", []interface{}{*band.Min}
	default:
		return field + " <= ?", []interface{}{*band.Max}
	}
}

// priorityOrder derives the intra-pass sort from the priority answer.
func priorityOrder(priority string) string {
	switch priority {
	case "price":
		// Ascending over the display-price priority chain.
		return "COALESCE(courses.price_per_month, courses.price_per_lesson, courses.price_one_time, courses.price) ASC"
	case "speed":
		return "courses.published_at DESC"
	}
	// quality and balance share the rating-first ordering.
	return "courses.average_rating DESC, courses.review_count DESC"
}

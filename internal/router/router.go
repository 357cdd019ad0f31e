package router

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/config"
	"github.com/kursgid/kursgid-api/internal/handlers"
	"github.com/kursgid/kursgid-api/internal/middleware"
	"github.com/kursgid/kursgid-api/internal/services"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize Services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage service: %v", err)
	}

	emailService := services.NewEmailService(cfg)
	catalogService := services.NewCatalogService(db)
	ratingService := services.NewRatingService(db)
	recommendationService := services.NewRecommendationService(db)
	auditService := services.NewAuditService(db)

	// Rate limiting is best effort: without Redis, submissions stay open.
	rateLimiter, err := middleware.NewRateLimiter(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to initialize rate limiter: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(db))

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Public routes
		api.POST("/auth/login", handlers.Login(db, cfg))

		api.GET("/courses", handlers.ListCourses(catalogService))
		api.GET("/courses/:slug", handlers.GetCourse(catalogService))

		api.POST("/quiz/recommendations", handlers.GetRecommendations(recommendationService))

		api.GET("/categories", handlers.ListCategories(db))
		api.GET("/tags", handlers.ListTags(db))
		api.GET("/authors", handlers.ListAuthors(db))
		api.GET("/schools/:slug", handlers.GetSchool(db))

		api.GET("/redirect", handlers.Redirect(cfg))

		// Public submissions, rate limited per IP when Redis is up
		submissions := api.Group("")
		if rateLimiter != nil {
			submissions.Use(rateLimiter.RateLimitByIP(10, 3600))
		}
		{
			submissions.POST("/courses", handlers.SubmitCourse(db, storageService, emailService))
			submissions.POST("/schools", handlers.SubmitSchool(db, storageService, emailService))
			submissions.POST("/reviews", handlers.SubmitReview(db, emailService))
			submissions.POST("/schools/:slug/reviews", handlers.SubmitSchoolReview(db, emailService))
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(cfg), middleware.AdminRequired())
		{
			admin.GET("/me", handlers.GetCurrentUser(db))

			// Course management
			admin.GET("/courses", handlers.ListAdminCourses(db))
			admin.POST("/courses", handlers.CreateCourse(db, ratingService))
			admin.PUT("/courses/:id", handlers.UpdateCourse(db))
			admin.DELETE("/courses/:id", handlers.DeleteCourse(db))
			admin.POST("/courses/:id/approve", handlers.ApproveCourse(ratingService, auditService))
			admin.POST("/courses/:id/reject", handlers.RejectCourse(ratingService, auditService))
			admin.PUT("/courses/:id/rating", handlers.SetCourseRating(ratingService, auditService))
			admin.DELETE("/courses/:id/rating", handlers.ClearCourseRating(ratingService, auditService))

			// Review moderation
			admin.GET("/reviews", handlers.ListReviews(db))
			admin.POST("/reviews/:id/approve", handlers.ApproveReview(ratingService, auditService))
			admin.POST("/reviews/:id/reject", handlers.RejectReview(ratingService, auditService))
			admin.GET("/school-reviews", handlers.ListSchoolReviews(db))
			admin.POST("/school-reviews/:id/approve", handlers.ApproveSchoolReview(ratingService, auditService))
			admin.POST("/school-reviews/:id/reject", handlers.RejectSchoolReview(ratingService, auditService))

			// School management
			admin.POST("/authors", handlers.CreateAuthor(db))
			admin.PUT("/authors/:id", handlers.UpdateAuthor(db))
			admin.DELETE("/authors/:id", handlers.DeleteAuthor(db))

			// Category management
			admin.POST("/categories", handlers.CreateCategory(db))
			admin.PUT("/categories/:id", handlers.UpdateCategory(db))
			admin.DELETE("/categories/:id", handlers.DeleteCategory(db))
			admin.PUT("/categories/reorder", handlers.ReorderCategories(db))

			// Tag management
			admin.POST("/tags", handlers.CreateTag(db))
			admin.PUT("/tags/:id", handlers.UpdateTag(db))
			admin.DELETE("/tags/:id", handlers.DeleteTag(db))

			// Activity feed
			admin.GET("/audit", handlers.GetAuditLog(auditService))
		}
	}

	return r
}

package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/eventflow/backend/internal/handlers"
	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/repositories"
	"github.com/eventflow/backend/internal/services"
	"github.com/eventflow/backend/pkg/config"
	"github.com/eventflow/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	db := mgClient.Database(cfg.DatabaseName)

	// The write protocol leans on unique indexes (email, username, blog_id,
	// like-notification key); create them before serving traffic.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// --- Initialize Services ---
	verifier := firebase.NewVerifier(firebaseAuthClient)
	identity := services.NewIdentityService(userRepo, verifier, cfg.JWTSecret, cfg.TokenTTL)
	blogService := services.NewBlogService(blogRepo, userRepo, commentRepo, notificationRepo)
	engagement := services.NewEngagementService(blogRepo, commentRepo, notificationRepo)
	search := services.NewSearchService(blogRepo, userRepo)
	notifications := services.NewNotificationService(notificationRepo)

	// --- Public routes ---
	authHandler := handlers.NewAuthHandler(identity)
	authHandler.RegisterAuthRoutes(e.Group(""))
	log.Println("Auth routes configured.")

	blogHandler := handlers.NewBlogHandler(blogService)
	blogHandler.RegisterPublicBlogRoutes(e)

	commentHandler := handlers.NewCommentHandler(engagement)
	commentHandler.RegisterPublicCommentRoutes(e)

	searchHandler := handlers.NewSearchHandler(search)
	searchHandler.RegisterSearchRoutes(e)

	userHandler := handlers.NewUserHandler(identity)
	userHandler.RegisterProfileRoutes(e)
	log.Println("Public routes configured.")

	// --- Protected routes (require a session token) ---
	api := e.Group("")
	api.Use(middleware.JWTAuthMiddleware(identity))

	blogHandler.RegisterBlogRoutes(api)

	likeHandler := handlers.NewLikeHandler(engagement)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler.RegisterCommentRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notifications)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Protected routes configured.")

	log.Println("All routes configured.")
}

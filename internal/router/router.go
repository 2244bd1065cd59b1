package router

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/anonto42/nano-blog/backend/internal/handlers"
	"github.com/anonto42/nano-blog/backend/internal/identity"
	"github.com/anonto42/nano-blog/backend/internal/middleware"
	"github.com/anonto42/nano-blog/backend/internal/repositories"
	"github.com/anonto42/nano-blog/backend/internal/services"
	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/anonto42/nano-blog/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

// SetupRoutes migrates the SQL schema, wires repositories into services and handlers, and registers every route
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, store uploads.Store) error {
	postsInSQL := db.Mongo == nil
	if err := repositories.AutoMigrate(db.SQL, postsInSQL); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("SQL auto-migrations completed.")

	// Static assets
	e.Static("/images", filepath.Join(cfg.StaticDir, "images"))
	e.Static("/uploads", cfg.UploadDir)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.SQL)
	commentRepo := repositories.NewPostgresCommentRepository(db.SQL)
	likeRepo := repositories.NewPostgresLikeRepository(db.SQL)
	var postRepo repositories.PostRepository
	if postsInSQL {
		postRepo = repositories.NewSQLPostRepository(db.SQL)
		log.Println("Posts are stored in SQL.")
	} else {
		postRepo = repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase))
		log.Println("Posts are stored in MongoDB.")
	}

	// --- Initialize Services ---
	credentials := services.NewCredentialService(userRepo)
	content := services.NewContentService(postRepo, commentRepo, likeRepo)
	aggregation := services.NewAggregationService(postRepo, commentRepo, likeRepo)

	// Every request carries an identity or none; handlers decide what that means
	identities := identity.NewManager(cfg.CookieSecret, identity.DefaultMaxAge, cfg.IsProduction())
	e.Use(middleware.LoadIdentity(identities))

	feedHandler := handlers.NewFeedHandler(content, aggregation)
	feedHandler.RegisterFeedRoutes(e)
	log.Println("Feed routes configured.")

	blog := e.Group("/blog")
	postHandler := handlers.NewPostHandler(content, aggregation, store)
	postHandler.RegisterPostRoutes(blog)
	commentHandler := handlers.NewCommentHandler(content)
	commentHandler.RegisterCommentRoutes(blog)
	likeHandler := handlers.NewLikeHandler(content)
	likeHandler.RegisterLikeRoutes(blog)
	log.Println("Blog routes configured.")

	user := e.Group("/user")
	authHandler := handlers.NewAuthHandler(credentials, identities, store)
	authHandler.RegisterAuthRoutes(user)
	userHandler := handlers.NewUserHandler(credentials, content, aggregation, identities, store)
	userHandler.RegisterProfileRoutes(user)
	log.Println("User routes configured.")

	log.Println("All routes configured.")
	return nil
}

package main

import (
	"context"
	"log"

	"github.com/anonto42/nano-blog/backend/internal/router"
	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/anonto42/nano-blog/backend/internal/validators"
	"github.com/anonto42/nano-blog/backend/internal/views"
	"github.com/anonto42/nano-blog/backend/pkg/config"
	"github.com/anonto42/nano-blog/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Uploads go to Firebase Storage when configured, otherwise to disk
	var store uploads.Store
	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		store = uploads.NewFirebaseStore(app.Bucket, app.BucketName)
	} else {
		store, err = uploads.NewDiskStore(cfg.UploadDir, "/uploads")
		if err != nil {
			log.Fatalf("Failed to prepare upload directory: %v", err)
		}
	}

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()
	renderer, err := views.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	e.Renderer = renderer

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, cfg, store); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipevault/backend/config"
	"github.com/recipevault/backend/internal/api"
	"github.com/recipevault/backend/internal/database"
	"github.com/recipevault/backend/internal/middleware"
	"github.com/recipevault/backend/internal/router"
	"github.com/recipevault/backend/internal/server"
	"github.com/recipevault/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; without it recipe writes are simply unthrottled.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
	}

	var imageStore service.ImageStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		imageStore = service.NewS3ImageStore(s3Config)
	} else {
		imageStore = service.NewFileImageStore(cfg.MediaDir)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	userHandler := api.NewUserHandler(authService, userService)
	recipeHandler := api.NewRecipeHandler(recipeService, imageStore, rateLimiter)
	tagHandler := api.NewTagHandler(tagService)
	ingredientHandler := api.NewIngredientHandler(ingredientService)

	r := router.SetupRouter(authService, userHandler, recipeHandler, tagHandler, ingredientHandler)
	srv := server.New(r, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

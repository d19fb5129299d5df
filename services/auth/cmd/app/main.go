package main

import (
	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/pkg/database"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/pkg/s3"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Auth Service API
// @version         1.0
// @description     Authentication and user profile service for the movie platform

// @host      localhost:8081
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		panic(err)
	}

	// Avatar uploads are optional; run without object storage if it is down.
	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("S3 unavailable, avatar uploads disabled: %v", err)
		s3Client = nil
	}

	app.Run(cfg, log, db, redisClient, s3Client)
}

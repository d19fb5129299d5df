package main

import (
	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/pkg/database"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/movies/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Movies Service API
// @version         1.0
// @description     Movie catalog proxy with tiered Redis caching over TMDB

// @host      localhost:8082
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

	if cfg.TMDBAPIKey == "" {
		panic("TMDB_API_KEY must be set in environment variables")
	}

	log := logger.New()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		panic(err)
	}

	app.Run(cfg, log, redisClient)
}

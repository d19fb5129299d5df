package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/pkg/jwt"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/pkg/middleware"
	"github.com/AmirAliEidivandi/movie/pkg/s3"
	authHTTP "github.com/AmirAliEidivandi/movie/services/auth/internal/controller/http"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/model"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/repo/persistent"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/AmirAliEidivandi/movie/services/auth/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, s3Client *s3.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessExpires, cfg.JWTRefreshExpires)

	if err := db.AutoMigrate(&model.UserModel{}); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	// Initialize repository
	userRepo := persistent.NewUserRepository(db)

	// Initialize UseCase
	var uploader usecase.FileUploader
	if s3Client != nil {
		uploader = s3Client
	}
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, uploader, log)

	// Initialize HTTP handlers
	authHandler := authHTTP.NewAuthHandler(authUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Registration and login are public but rate limited against
	// credential stuffing.
	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware(redisClient, 20, time.Minute))
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.Profile)
		protected.PATCH("/profile", authHandler.UpdateProfile)
		protected.DELETE("/profile", authHandler.DeleteAccount)
		protected.POST("/profile/avatar", authHandler.UploadAvatar)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Auth service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Auth service exited")
}

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
	"github.com/AmirAliEidivandi/movie/pkg/queue"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/gateway"
	walletHTTP "github.com/AmirAliEidivandi/movie/services/wallet/internal/controller/http"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/model"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/repo/persistent"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/AmirAliEidivandi/movie/services/wallet/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessExpires, cfg.JWTRefreshExpires)

	if err := db.AutoMigrate(&model.WalletModel{}, &model.TransactionModel{}); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	// Initialize repository and gateway
	walletRepo := persistent.NewWalletRepository(db)
	zarinpal := gateway.NewClient(cfg)

	// Initialize UseCase
	var events usecase.EventPublisher
	if queueClient != nil {
		events = queueClient
	}
	walletUseCase := usecase.NewWalletUseCase(walletRepo, events, log)

	// Initialize HTTP handlers
	walletHandler := walletHTTP.NewWalletHandler(walletUseCase, zarinpal, cfg.FrontendURL, log)

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

	// Gateway callback is public: the user's browser arrives here from
	// Zarinpal with no Authorization header.
	api.GET("/wallet/deposit/zarinpal/callback", walletHandler.ZarinpalCallback)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		protected.POST("/wallet/init", walletHandler.Init)
		protected.GET("/wallet/balance", walletHandler.Balance)
		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.POST("/wallet/deposit/:id/success", walletHandler.MarkDepositSuccess)
		protected.POST("/wallet/deposit/zarinpal", walletHandler.DepositZarinpal)
		protected.POST("/wallet/withdraw", walletHandler.Withdraw)
		protected.POST("/wallet/purchase/subscription", walletHandler.PurchaseSubscription)
		protected.GET("/wallet/transactions", walletHandler.Transactions)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Wallet service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down wallet service...")

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

	if queueClient != nil {
		queueClient.Close()
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Wallet service exited")
}

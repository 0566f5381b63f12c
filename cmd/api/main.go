package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/config"
	"casino-backend/internal/handlers"
	"casino-backend/internal/middleware"
	"casino-backend/internal/repository"
	"casino-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := repository.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	userRepo := repository.NewUserRepository()
	statsRepo := repository.NewStatsRepository()

	jwtService := services.NewJWTService(cfg)

	wsHandler := handlers.NewWebSocketHandler()

	authService := services.NewAuthService(db, userRepo, statsRepo, jwtService, redisService)
	statsService := services.NewStatsService(db, userRepo, statsRepo, wsHandler)
	depositService := services.NewDepositService(db, userRepo, nil)
	leaderboardService := services.NewLeaderboardService(db, userRepo, statsRepo, redisService)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(statsService, depositService, authService, redisService)
	gameHandler := handlers.NewGameHandler(statsService, redisService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/api/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(500, gin.H{"status": "ERROR", "database": "disconnected"})
			return
		}
		if err := redisService.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "ERROR", "redis": "disconnected"})
			return
		}
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/guest", authHandler.Guest)

	router.GET("/api/leaderboard/profit", leaderboardHandler.Profit)
	router.GET("/api/leaderboard/xp", leaderboardHandler.XP)
	router.GET("/api/leaderboard/:game", leaderboardHandler.PerGameWins)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/ws", wsHandler.HandleWebSocket)

		protected.GET("/user/profile", userHandler.GetProfile)
		protected.POST("/logout", userHandler.Logout)

		protected.POST("/game/outcome", gameHandler.SubmitOutcome)

		account := protected.Group("")
		account.Use(middleware.RequireAccount())
		{
			account.POST("/user/deposit", userHandler.Deposit)
			account.DELETE("/user/account", userHandler.DeleteAccount)
		}
	}

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

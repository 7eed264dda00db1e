package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talkwave/talkwave-backend/internal/config"
	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/handler"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/internal/repository"
	"github.com/talkwave/talkwave-backend/internal/routes"
	"github.com/talkwave/talkwave-backend/internal/service"
	"github.com/talkwave/talkwave-backend/internal/ws"
	pkgcache "github.com/talkwave/talkwave-backend/pkg/cache"
	"github.com/talkwave/talkwave-backend/pkg/jwt"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
	pkgredis "github.com/talkwave/talkwave-backend/pkg/redis"
	pkgstorage "github.com/talkwave/talkwave-backend/pkg/storage"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Redis connection (cache, rate limiting, redis store driver)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Info("Warning: Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// Document store driver
	var store docstore.Store
	switch cfg.Store.Driver {
	case "firebase":
		fbApp, fbErr := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID})
		if fbErr != nil {
			log.Fatalf("Failed to initialize Firebase app: %v", fbErr)
		}
		store, err = docstore.NewFirebaseStore(ctx, fbApp, cfg.Firebase.DatabaseURL, cfg.Store.PollInterval())
		if err != nil {
			log.Fatalf("Failed to connect to Firebase RTDB: %v", err)
		}
		pkglogger.Info("Using Firebase RTDB store: %s", cfg.Firebase.DatabaseURL)
	case "redis":
		if redisClient == nil {
			log.Fatalf("Store driver is redis but Redis is unavailable")
		}
		store = docstore.NewRedisStore(redisClient)
		pkglogger.Info("Using Redis document store")
	default:
		log.Fatalf("Unknown store driver: %q", cfg.Store.Driver)
	}

	// Blob storage
	var s3Client *pkgstorage.S3Client
	if cfg.Storage.Bucket != "" {
		s3Client, err = pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			pkglogger.Info("Warning: S3 storage init failed: %v (continuing without S3)", err)
			s3Client = nil
		} else {
			pkglogger.Info("Connected to S3 storage")
		}
	}

	// WebSocket Hub
	wsHub := ws.NewHub(store)
	go wsHub.Run()

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL())

	// Repositories
	userRepo := repository.NewUserRepository(store)
	conversationRepo := repository.NewConversationIndexRepository(store)
	messageRepo := repository.NewMessageLogRepository(store)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, cacheService)
	userService := service.NewUserService(userRepo, cacheService)
	chatService := service.NewChatService(userRepo, conversationRepo, messageRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	conversationHandler := handler.NewConversationHandler(chatService)
	messageHandler := handler.NewMessageHandler(chatService)
	uploadHandler := handler.NewUploadHandler(s3Client)
	wsHandler := handler.NewWSHandler(wsHub, store, chatService)

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}))

	// Middleware
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && cfg.RateLimit.Enabled {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			rlCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, rlCfg))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "talkwave-backend",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router,
		authHandler,
		userHandler,
		conversationHandler,
		messageHandler,
		uploadHandler,
		wsHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	pkglogger.Info("Shutting down...")
	wsHub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server shutdown error: %v", err)
	}
	pkglogger.Info("Server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/firegate/firegate/handlers"
	"github.com/firegate/firegate/internal/auth"
	"github.com/firegate/firegate/internal/config"
	"github.com/firegate/firegate/internal/database"
	"github.com/firegate/firegate/internal/sessions"
	"github.com/firegate/firegate/internal/store"
	"github.com/firegate/firegate/internal/tokens"
	"github.com/firegate/firegate/pkg/logger"
	"github.com/firegate/firegate/pkg/metrics"
	"github.com/firegate/firegate/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: firebase=%v mongo=%v redis=%v", cfg.Firebase.DatabaseURL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	ctx := context.Background()

	// pick the document store backend: Firebase when configured, then Mongo,
	// otherwise the in-process store (dev only, nothing survives a restart)
	var docStore store.Store
	switch {
	case cfg.Firebase.DatabaseURL != "":
		docStore = store.Instrument(store.NewFirebase(cfg.Firebase.DatabaseURL, cfg.Firebase.AuthToken, nil), "firebase")
		logger.Infof("using Firebase store at %s", cfg.Firebase.DatabaseURL)
	case cfg.MongoDB.URI != "":
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("failed to connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		docStore = store.Instrument(store.NewMongo(client.Database(cfg.MongoDB.Database)), "mongo")
		logger.Infof("using Mongo store, database %s", cfg.MongoDB.Database)
	default:
		docStore = store.Instrument(store.NewMemory(), "memory")
		logger.Warnf("no store backend configured, using in-memory store")
	}

	// session slots: Redis when available, in-process otherwise
	var redisClient *redis.Client
	var sessionStore sessions.Store
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}
	if redisClient != nil {
		sessionStore = sessions.NewRedisStore(redisClient, "session:", cfg.Session.TTL)
		logger.Infof("using Redis for session storage")
	} else {
		sessionStore = sessions.NewMemoryStore()
		logger.Warnf("using in-memory session storage")
	}

	userMapper := auth.NewUserMapper(docStore)
	ledger := tokens.NewLedger(docStore)
	provider := auth.NewProvider(userMapper, ledger)

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// permissive CORS for dev; front a stricter policy in production
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"store":    docStore != nil,
			"sessions": sessionStore != nil,
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil
		}
		for _, ok := range deps {
			if !ok {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.Use(middleware.Guarded(provider, sessionStore, cfg.Session.CookieName))

	authHandler := handlers.NewAuthHandler(cfg, provider, sessionStore)
	authHandler.Register(r.Group("/"))

	api := r.Group("/api/v1", middleware.Authenticated(ledger, provider))
	authHandler.RegisterProtected(api)
	handlers.NewTokenHandler(ledger).RegisterProtected(api)
	handlers.NewDataHandler(docStore).RegisterProtected(api)

	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("starting firegate on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

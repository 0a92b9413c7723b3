package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classreminder/internal/auth"
	"classreminder/internal/config"
	"classreminder/internal/datasource"
	"classreminder/internal/httpmiddleware"
	"classreminder/internal/linepush"
	"classreminder/internal/notifylog"
	"classreminder/internal/queue"
	"classreminder/internal/reminder"
	"classreminder/internal/store"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "reminder:notifications")
	}

	source := datasource.New(cfg.DataSourceURL, cfg.ProjectID, cfg.DataSourceKey, cfg.Collection, cfg.SendTimeout)
	channel := linepush.New("", cfg.LineToken, cfg.LineSkip, cfg.SendTimeout)
	dedup := store.NewRedisDeduper(redisClient.Client, "reminder:sent")
	svc := reminder.NewService(source, channel, dedup, q)

	var repo *notifylog.Repository
	if db != nil {
		repo = notifylog.NewRepository(db.Client)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Printf("warning: ensure schema failed: %v", err)
		}
	}

	r := newRouter(cfg, svc, repo, redisClient, db)

	// Graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// newRouter declares all routes; separated from runHTTP so handler tests can
// exercise the surface without a listener.
func newRouter(cfg config.App, svc *reminder.Service, repo *notifylog.Repository, redisClient *store.Redis, db *store.DB) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Healthy(c.Request.Context())
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	// Invoked by the external scheduler on a fixed cadence. Always 200 on a
	// processed cycle, whatever the individual send outcomes were.
	r.POST("/v1/reminders/run", func(c *gin.Context) {
		if missing := cfg.Missing(); len(missing) > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing configuration", "missing": missing})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		summary := svc.RunCycle(ctx)
		c.JSON(http.StatusOK, gin.H{
			"message":      strconv.Itoa(summary.SentCount()) + " reminders sent",
			"sent":         summary.Sent,
			"skippedCount": summary.SkippedCount,
			"checkedAt":    summary.CheckedAt,
		})
	})

	r.POST("/v1/token", func(c *gin.Context) {
		var req struct {
			OpsKey string `json:"ops_key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.OpsKey != cfg.OpsKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ops key"})
			return
		}
		token, exp, err := auth.Issue("ops", "operator", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"access_token": token, "expires_at": exp.Unix()})
	})

	opsGroup := r.Group("/v1", auth.OpsAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	opsGroup.POST("/broadcast", func(c *gin.Context) {
		if cfg.LineToken == "" && !cfg.LineSkip {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing configuration", "missing": []string{"LINE_CHANNEL_ACCESS_TOKEN"}})
			return
		}

		var req struct {
			To      []string `json:"to" binding:"required,min=1"`
			Message string   `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		results := svc.Broadcast(ctx, req.To, req.Message)
		c.JSON(http.StatusOK, gin.H{"results": results})
	})

	opsGroup.GET("/notifications", func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification log not available"})
			return
		}
		limit := 50
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		entries, err := repo.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if entries == nil {
			entries = []notifylog.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": entries})
	})

	return r
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

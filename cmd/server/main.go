package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"seeker/internal/api"
	"seeker/internal/config"
	"seeker/internal/identity"
	"seeker/internal/llm"
	"seeker/internal/model"
	"seeker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	verifier, err := identity.NewSecureTokenVerifier(cfg.IdentityProjectID, cfg.IdentityCertsURL)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise identity verifier")
		return
	}

	var enricher *llm.Enricher
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := llm.NewGeminiClient(cfg)
		if err != nil {
			logrus.WithError(err).Error("failed to initialise gemini client")
			return
		}
		enricher = llm.NewEnricher(gemini)
	} else {
		logrus.Warn("GEMINI_API_KEY not set; AI endpoints disabled")
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, verifier, enricher)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	authGroup := r.Group("/auth")
	authGroup.POST("/session", httpHandler.EstablishSession)
	authGroup.POST("/logout", httpHandler.Logout)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)

	users := r.Group("/users")
	users.Use(httpHandler.AuthMiddleware(), httpHandler.RequireAdmin())
	users.GET("", httpHandler.ListUsers)
	users.PUT("/:externalId/approve", httpHandler.ApproveUser)

	r.GET("/articles", httpHandler.ListPublicArticles)
	r.GET("/articles/:slug", httpHandler.GetPublicArticle)

	admin := r.Group("/admin")
	admin.Use(httpHandler.AuthMiddleware(), httpHandler.RequireCanPost())
	admin.GET("/articles", httpHandler.ListAdminArticles)
	admin.GET("/articles/:id", httpHandler.GetAdminArticle)
	admin.POST("/articles", httpHandler.CreateArticle)
	admin.PUT("/articles/:id", httpHandler.UpdateArticle)
	admin.DELETE("/articles/:id", httpHandler.DeleteArticle)
	admin.POST("/ai/excerpt", httpHandler.GenerateExcerpt)
	admin.POST("/ai/title", httpHandler.GenerateTitle)
	admin.POST("/ai/tags", httpHandler.GenerateTags)
	admin.POST("/uploads", httpHandler.UploadImage)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server failed")
	}
}

// CORSMiddleware handles cross origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}

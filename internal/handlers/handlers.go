package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kopiscan/api/internal/classifier"
	"kopiscan/api/internal/config"
	"kopiscan/api/internal/denylist"
	"kopiscan/api/internal/middleware"
	"kopiscan/api/internal/models"
	"kopiscan/api/internal/repository"
	"kopiscan/api/internal/security"
	"kopiscan/api/internal/service"
	"kopiscan/api/internal/storage"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    *service.AuthService
	history *service.HistoryService
	db      *pgxpool.Pool
	cache   *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	dl := denylist.NewRedis(cache)
	cls := classifier.NewHTTPClassifier(cfg.Inference)

	auth := service.NewAuthService(userRepo, dl, cfg, log)
	history := service.NewHistoryService(predictionRepo, store, cls, log)

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		auth:    auth,
		history: history,
		db:      db,
		cache:   cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.auth))
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
	}

	predict := v1.Group("")
	predict.Use(middleware.Auth(h.auth))
	predict.POST("/predict", h.Predict)
	predict.GET("/history", h.ListHistory)
	predict.DELETE("/history/:id", h.DeleteHistory)
	predict.GET("/history/:id/image", h.HistoryArtifact)
}

func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get("current_user")
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func currentClaims(c *gin.Context) (*security.AccessClaims, bool) {
	val, exists := c.Get("access_claims")
	if !exists {
		return nil, false
	}
	claims, ok := val.(*security.AccessClaims)
	return claims, ok
}

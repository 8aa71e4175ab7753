package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devconnector/internal/service"
)

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps lists everything the Handler needs. Metrics and Store are optional.
type Deps struct {
	Users    service.UserService
	Profiles service.ProfileService
	Tokens   TokenService
	Store    Pinger
	Logger   *logrus.Logger
	Metrics  *Metrics
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	profiles service.ProfileService
	tokens   TokenService
	store    Pinger
	logger   *logrus.Logger
	metrics  *Metrics
}

func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &Handler{
		users:    deps.Users,
		profiles: deps.Profiles,
		tokens:   deps.Tokens,
		store:    deps.Store,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.logger), corsMiddleware())
	if h.metrics != nil {
		router.Use(h.metrics.middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.handler))
	}

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		api.POST("/users", bindBody[registerRequest](), h.register)

		api.GET("/auth", h.authGate(), h.currentUser)
		api.POST("/auth", bindBody[loginRequest](), h.login)

		api.GET("/profile", h.listProfiles)
		api.GET("/profile/me", h.authGate(), h.myProfile)
		api.GET("/profile/user/:user_id", h.profileByUser)
		api.POST("/profile", h.authGate(), bindBody[profileRequest](), h.upsertProfile)
		api.DELETE("/profile", h.authGate(), h.deleteAccount)

		api.POST("/posts", h.createPost)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+authHeader+", "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) health(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("health check: store unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// serverError logs err with request context and answers with a generic 500.
func (h *Handler) serverError(c *gin.Context, err error, op string) {
	entry := h.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey))
	if errors.Is(err, context.Canceled) {
		entry.Warn(op)
	} else {
		entry.Error(op)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
}

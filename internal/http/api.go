package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"identity-service/internal/auth"
	"identity-service/internal/service"
)

const ctxKeyUserID = "userId"

// Handler wires HTTP routes to the identity service.
type Handler struct {
	identity service.IdentityService
	tokens   *auth.TokenService
	logger   *logrus.Logger
}

func NewHandler(identity service.IdentityService, tokens *auth.TokenService, logger *logrus.Logger) *Handler {
	return &Handler{
		identity: identity,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))

	router.POST("/register", h.register)
	router.POST("/login", h.login)

	users := router.Group("/users", h.authenticate())
	{
		users.GET("/:userId/profile", h.getProfile)
		users.PUT("/:userId/profile", h.updateProfile)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response{Status: false, Message: "Page Not Found"})
	})
}

// response is the envelope every endpoint returns: status is a
// machine-stable success indicator, message is human-readable.
type response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
		}).Info("request")
	}
}

// authenticate verifies the bearer token and stashes its subject id.
// Expired and malformed tokens both collapse to unauthenticated here.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Status: false, Message: "authentication token is required"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		userID, err := h.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response{Status: false, Message: "authentication failed"})
			return
		}

		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Status: false, Message: service.ErrInvalidRequest.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response{Status: true, Message: "User created successfully", Data: user})
}

func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Status: false, Message: service.ErrInvalidRequest.Error()})
		return
	}

	result, err := h.identity.Login(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Status: true, Message: "User login successfully", Data: result})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.identity.GetProfile(c.Request.Context(), c.GetString(ctxKeyUserID), c.Param("userId"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Status: true, Message: "User profile details", Data: user})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req service.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Status: false, Message: service.ErrInvalidRequest.Error()})
		return
	}

	user, err := h.identity.UpdateProfile(c.Request.Context(), c.GetString(ctxKeyUserID), c.Param("userId"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{Status: true, Message: "User profile updated", Data: user})
}

// renderError maps pipeline errors to status codes. Anything outside
// the taxonomy is a server-side failure and stays opaque to the caller.
func (h *Handler) renderError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	var conflictErr *service.ConflictError
	var forbiddenErr *service.ForbiddenError

	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrMismatch),
		errors.As(err, &fieldErr),
		errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, response{Status: false, Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response{Status: false, Message: err.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, response{Status: false, Message: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response{Status: false, Message: err.Error()})
	default:
		h.logger.WithField("error", err.Error()).Error("request failed")
		c.JSON(http.StatusInternalServerError, response{Status: false, Message: "Internal Server Error"})
	}
}

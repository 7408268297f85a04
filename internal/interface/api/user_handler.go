package api

import (
	"errors"
	"net/http"

	"farewatch/internal/usecase"
	"farewatch/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes account registration over HTTP
type UserHandler struct {
	tracker *usecase.FlightTracker
	logger  logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(tracker *usecase.FlightTracker, logger logger.Logger) *UserHandler {
	return &UserHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// CreateUserRequest is the registration request body
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Plan  string `json:"plan" binding:"omitempty,oneof=free pro"`
}

// CreateUser registers a new account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.tracker.RegisterUser(c.Request.Context(), req.Email, req.Plan)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to register user", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"plan":            user.Plan,
		"lifetimeSavings": user.LifetimeSavings,
	})
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tazeembhat/PaymentsApp/internal/cqrs"
	"github.com/tazeembhat/PaymentsApp/internal/middleware"
	"github.com/tazeembhat/PaymentsApp/internal/models"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
)

// AuthQuerier defines the signin operation used by AuthHandler.
type AuthQuerier interface {
	SignIn(ctx context.Context, cmd cqrs.SignInCommand) (*models.User, string, error)
}

// AuthHandler handles signin. Signup lives on UserHandler because it
// creates state.
type AuthHandler struct {
	queries AuthQuerier
}

type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusLengthRequired, "Invalid input")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, signed, err := h.queries.SignIn(c.Request.Context(), cqrs.SignInCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     signed,
		"firstName": user.FirstName,
	})
}

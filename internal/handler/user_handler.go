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

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	SignUp(ctx context.Context, cmd cqrs.SignUpCommand) (*models.User, string, error)
	UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) error
	DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error)
	SearchUsers(ctx context.Context, q cqrs.SearchUsersQuery) ([]models.DirectoryEntry, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type SignUpRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// UpdateUserRequest is a partial update: every field is optional, but fields
// that are present must be non-empty strings. The username is immutable.
type UpdateUserRequest struct {
	Password  *string `json:"password" validate:"omitempty,min=1"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusLengthRequired, "Invalid input")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, signed, err := h.commands.SignUp(c.Request.Context(), cqrs.SignUpCommand{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			middleware.RespondWithError(c, http.StatusBadRequest, "User already exists")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "User created successfully",
		"token":     signed,
		"firstName": user.FirstName,
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusLengthRequired, "Invalid input")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:    userID,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

// SearchUsers is the unauthenticated directory endpoint. An absent filter
// matches every user.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	filter := c.Query("filter")

	entries, err := h.queries.SearchUsers(c.Request.Context(), cqrs.SearchUsersQuery{Filter: filter})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to search users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": entries})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User and related account deleted successfully"})
}

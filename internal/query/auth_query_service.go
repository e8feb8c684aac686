package query

import (
	"context"

	"github.com/tazeembhat/PaymentsApp/internal/cqrs"
	"github.com/tazeembhat/PaymentsApp/internal/models"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
	"github.com/tazeembhat/PaymentsApp/internal/token"
)

// AuthQueryService handles signin. There's no command service for auth
// because issuing a token doesn't mutate application state.
type AuthQueryService struct {
	users  *repository.UserWriteRepository
	tokens *token.Service
}

func NewAuthQueryService(users *repository.UserWriteRepository, tokens *token.Service) *AuthQueryService {
	return &AuthQueryService{users: users, tokens: tokens}
}

// SignIn is a single-path decision: a row matches the exact
// username+password pair or it doesn't. No token is issued on failure.
func (s *AuthQueryService) SignIn(ctx context.Context, cmd cqrs.SignInCommand) (*models.User, string, error) {
	user, err := s.users.GetByCredentials(ctx, cmd.Username, cmd.Password)
	if err != nil {
		return nil, "", err
	}
	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

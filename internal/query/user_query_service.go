package query

import (
	"context"

	"github.com/tazeembhat/PaymentsApp/internal/cqrs"
	"github.com/tazeembhat/PaymentsApp/internal/models"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
)

// UserQueryService reads user views from the Redis cache (with a Postgres
// fallback) and serves the unauthenticated directory search.
type UserQueryService struct {
	readRepo *repository.UserReadRepository
}

func NewUserQueryService(readRepo *repository.UserReadRepository) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(ctx, q.UserID)
}

func (s *UserQueryService) SearchUsers(ctx context.Context, q cqrs.SearchUsersQuery) ([]models.DirectoryEntry, error) {
	return s.readRepo.Search(ctx, q.Filter)
}

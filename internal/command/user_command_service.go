package command

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tazeembhat/PaymentsApp/internal/cqrs"
	"github.com/tazeembhat/PaymentsApp/internal/events"
	"github.com/tazeembhat/PaymentsApp/internal/models"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
	"github.com/tazeembhat/PaymentsApp/internal/token"
	"github.com/tazeembhat/PaymentsApp/internal/utils"
)

// userStore is the write-side persistence surface the command service needs.
type userStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CreateUserAndAccount(ctx context.Context, user *models.User, account *models.Account) error
	UpdateFields(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error)
	DeleteUserAndAccount(ctx context.Context, id string) error
}

// accountReader exposes the account lookup used for the closing-balance
// audit on delete.
type accountReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)
}

// viewCache is the Redis read-model surface the write path keeps current.
type viewCache interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

type eventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService owns the cross-entity invariants of the identity
// lifecycle: every user has exactly one account, created and deleted with
// it. The paired writes run inside a single transaction so neither record
// can be orphaned. The Redis view cache is updated synchronously on every
// mutation; the stream projector is only a backstop for other consumers.
type UserCommandService struct {
	store     userStore
	accounts  accountReader
	cache     viewCache
	publisher eventPublisher
	tokens    *token.Service
}

func NewUserCommandService(
	store userStore,
	accounts accountReader,
	cache viewCache,
	publisher eventPublisher,
	tokens *token.Service,
) *UserCommandService {
	return &UserCommandService{
		store:     store,
		accounts:  accounts,
		cache:     cache,
		publisher: publisher,
		tokens:    tokens,
	}
}

// SignUp registers a new user with a freshly funded account and returns the
// created user plus a signed bearer token. A taken username yields
// repository.ErrUsernameTaken — either from the pre-check or, under a
// concurrent race, from the unique index.
func (s *UserCommandService) SignUp(ctx context.Context, cmd cqrs.SignUpCommand) (*models.User, string, error) {
	taken, err := s.store.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", repository.ErrUsernameTaken
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        utils.GenerateID("usr"),
		Username:  cmd.Username,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := &models.Account{
		UserID:    user.ID,
		Balance:   utils.InitialBalance(),
		CreatedAt: now,
	}

	if err := s.store.CreateUserAndAccount(ctx, user, account); err != nil {
		return nil, "", err
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.cache.CacheUserView(ctx, userToView(user))

	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}); err != nil {
		logrus.Warnf("failed to publish user.created event: %v", err)
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		UserID:  user.ID,
		Balance: account.Balance,
	}); err != nil {
		logrus.Warnf("failed to publish account.created event: %v", err)
	}

	return user, signed, nil
}

// UpdateUser applies a partial overwrite: only the fields present in the
// command change, everything else keeps its stored value. The refreshed
// view is cached before returning so a read that follows the PUT sees the
// new state.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) error {
	user, err := s.store.UpdateFields(ctx, cmd.UserID, cmd.Password, cmd.FirstName, cmd.LastName)
	if err != nil {
		return err
	}

	s.cache.CacheUserView(ctx, userToView(user))

	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}); err != nil {
		logrus.Warnf("failed to publish user.updated event: %v", err)
	}
	return nil
}

// DeleteUser removes the user and its account in one transaction and drops
// the cached view before returning, so a fetch-self with the now-stale
// token fails immediately rather than after the projector catches up.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	var closingBalance int64
	if account, err := s.accounts.GetByUserID(ctx, cmd.UserID); err == nil {
		closingBalance = account.Balance
	}

	if err := s.store.DeleteUserAndAccount(ctx, cmd.UserID); err != nil {
		return err
	}

	s.cache.InvalidateUserView(ctx, cmd.UserID)

	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: cmd.UserID,
	}); err != nil {
		logrus.Warnf("failed to publish user.deleted event: %v", err)
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		UserID:  cmd.UserID,
		Balance: closingBalance,
	}); err != nil {
		logrus.Warnf("failed to publish account.deleted event: %v", err)
	}
	return nil
}

func userToView(u *models.User) *models.UserView {
	return &models.UserView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

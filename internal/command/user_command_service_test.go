package command

import (
	"context"
	"errors"
	"testing"

	"github.com/tazeembhat/PaymentsApp/internal/cqrs"
	"github.com/tazeembhat/PaymentsApp/internal/events"
	"github.com/tazeembhat/PaymentsApp/internal/models"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
	"github.com/tazeembhat/PaymentsApp/internal/token"
)

type mockUserStore struct {
	existsFn func(ctx context.Context, username string) (bool, error)
	createFn func(ctx context.Context, user *models.User, account *models.Account) error
	updateFn func(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.existsFn(ctx, username)
}

func (m *mockUserStore) CreateUserAndAccount(ctx context.Context, user *models.User, account *models.Account) error {
	return m.createFn(ctx, user, account)
}

func (m *mockUserStore) UpdateFields(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error) {
	return m.updateFn(ctx, id, password, firstName, lastName)
}

func (m *mockUserStore) DeleteUserAndAccount(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockAccountReader struct {
	getFn func(ctx context.Context, userID string) (*models.Account, error)
}

func (m *mockAccountReader) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	return m.getFn(ctx, userID)
}

// recordingCache records cache traffic so tests can assert the write path
// keeps the read model current before returning.
type recordingCache struct {
	cached      []*models.UserView
	invalidated []string
}

func (c *recordingCache) CacheUserView(ctx context.Context, view *models.UserView) {
	c.cached = append(c.cached, view)
}

func (c *recordingCache) InvalidateUserView(ctx context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
}

type publishedEvent struct {
	stream    string
	eventType string
	data      any
}

type recordingPublisher struct {
	published []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	p.published = append(p.published, publishedEvent{stream: stream, eventType: eventType, data: data})
	return nil
}

func newTestTokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.NewService("test-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func strPtr(s string) *string { return &s }

func TestSignUpWarmsCacheAndPublishes(t *testing.T) {
	var createdUser *models.User
	var createdAccount *models.Account
	store := &mockUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *models.User, account *models.Account) error {
			createdUser = user
			createdAccount = account
			return nil
		},
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	tokens := newTestTokens(t)
	svc := NewUserCommandService(store, &mockAccountReader{}, cache, publisher, tokens)

	user, signed, err := svc.SignUp(context.Background(), cqrs.SignUpCommand{
		Username:  "alice@example.com",
		Password:  "hunter22",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if createdUser == nil || createdAccount == nil {
		t.Fatal("expected user and account to be persisted together")
	}
	if createdAccount.UserID != createdUser.ID {
		t.Errorf("account bound to %q, want %q", createdAccount.UserID, createdUser.ID)
	}
	if createdAccount.Balance < 1 || createdAccount.Balance > 10000 {
		t.Errorf("opening balance %d outside [1, 10000]", createdAccount.Balance)
	}

	subject, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if subject != user.ID {
		t.Errorf("token subject = %q, want %q", subject, user.ID)
	}

	if len(cache.cached) != 1 {
		t.Fatalf("cached %d views, want 1", len(cache.cached))
	}
	if cache.cached[0].ID != user.ID || cache.cached[0].Username != user.Username {
		t.Errorf("cached view %+v does not match created user", cache.cached[0])
	}

	if len(publisher.published) != 2 {
		t.Fatalf("published %d events, want 2", len(publisher.published))
	}
	if publisher.published[0].eventType != events.UserCreated {
		t.Errorf("first event = %q, want %q", publisher.published[0].eventType, events.UserCreated)
	}
	if publisher.published[1].eventType != events.AccountCreated {
		t.Errorf("second event = %q, want %q", publisher.published[1].eventType, events.AccountCreated)
	}
}

func TestSignUpUsernameTakenHasNoSideEffects(t *testing.T) {
	store := &mockUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) { return true, nil },
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	svc := NewUserCommandService(store, &mockAccountReader{}, cache, publisher, newTestTokens(t))

	_, _, err := svc.SignUp(context.Background(), cqrs.SignUpCommand{Username: "taken@example.com"})
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("error = %v, want ErrUsernameTaken", err)
	}
	if len(cache.cached) != 0 || len(publisher.published) != 0 {
		t.Error("failed signup must not touch the cache or publish events")
	}
}

func TestUpdateUserRecachesView(t *testing.T) {
	var gotPassword, gotFirst, gotLast *string
	store := &mockUserStore{
		updateFn: func(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error) {
			gotPassword, gotFirst, gotLast = password, firstName, lastName
			return &models.User{
				ID:        id,
				Username:  "alice@example.com",
				FirstName: "Alicia",
				LastName:  "Smith",
			}, nil
		},
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	svc := NewUserCommandService(store, &mockAccountReader{}, cache, publisher, newTestTokens(t))

	err := svc.UpdateUser(context.Background(), cqrs.UpdateUserCommand{
		UserID:    "usr-abc1234567",
		FirstName: strPtr("Alicia"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPassword != nil || gotLast != nil {
		t.Error("absent fields must reach the store as nil")
	}
	if gotFirst == nil || *gotFirst != "Alicia" {
		t.Errorf("firstName = %v, want Alicia", gotFirst)
	}

	if len(cache.cached) != 1 {
		t.Fatalf("cached %d views, want 1", len(cache.cached))
	}
	if cache.cached[0].FirstName != "Alicia" {
		t.Errorf("cached view carries firstName %q, want the updated value", cache.cached[0].FirstName)
	}

	if len(publisher.published) != 1 || publisher.published[0].eventType != events.UserUpdated {
		t.Errorf("published = %+v, want a single user.updated event", publisher.published)
	}
}

func TestUpdateUserNotFoundHasNoSideEffects(t *testing.T) {
	store := &mockUserStore{
		updateFn: func(ctx context.Context, id string, password, firstName, lastName *string) (*models.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	svc := NewUserCommandService(store, &mockAccountReader{}, cache, publisher, newTestTokens(t))

	err := svc.UpdateUser(context.Background(), cqrs.UpdateUserCommand{UserID: "usr-missing123"})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
	if len(cache.cached) != 0 || len(publisher.published) != 0 {
		t.Error("failed update must not touch the cache or publish events")
	}
}

// A token that outlives its user must stop resolving the moment the delete
// returns, not when the projector eventually consumes the stream. The
// invalidation therefore has to happen synchronously inside DeleteUser.
func TestDeleteUserInvalidatesView(t *testing.T) {
	const userID = "usr-abc1234567"

	deleted := false
	store := &mockUserStore{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	accounts := &mockAccountReader{
		getFn: func(ctx context.Context, id string) (*models.Account, error) {
			return &models.Account{UserID: id, Balance: 4242}, nil
		},
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	svc := NewUserCommandService(store, accounts, cache, publisher, newTestTokens(t))

	if err := svc.DeleteUser(context.Background(), cqrs.DeleteUserCommand{UserID: userID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !deleted {
		t.Fatal("expected user and account rows to be removed")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != userID {
		t.Fatalf("invalidated = %v, want exactly [%s] before DeleteUser returns", cache.invalidated, userID)
	}

	if len(publisher.published) != 2 {
		t.Fatalf("published %d events, want 2", len(publisher.published))
	}
	if publisher.published[0].eventType != events.UserDeleted {
		t.Errorf("first event = %q, want %q", publisher.published[0].eventType, events.UserDeleted)
	}
	closed, ok := publisher.published[1].data.(events.AccountDeletedEvent)
	if !ok {
		t.Fatalf("second event payload = %T, want AccountDeletedEvent", publisher.published[1].data)
	}
	if closed.Balance != 4242 {
		t.Errorf("closing balance = %d, want 4242", closed.Balance)
	}
}

func TestDeleteUserNotFoundHasNoSideEffects(t *testing.T) {
	store := &mockUserStore{
		deleteFn: func(ctx context.Context, id string) error {
			return repository.ErrUserNotFound
		},
	}
	accounts := &mockAccountReader{
		getFn: func(ctx context.Context, id string) (*models.Account, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	cache := &recordingCache{}
	publisher := &recordingPublisher{}
	svc := NewUserCommandService(store, accounts, cache, publisher, newTestTokens(t))

	err := svc.DeleteUser(context.Background(), cqrs.DeleteUserCommand{UserID: "usr-missing123"})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
	if len(cache.invalidated) != 0 || len(publisher.published) != 0 {
		t.Error("failed delete must not touch the cache or publish events")
	}
}

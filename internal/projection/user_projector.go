package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tazeembhat/PaymentsApp/internal/events"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
)

// UserProjector keeps the Redis read model in step with the write store by
// consuming the user and account event streams. The write side updates the
// cache synchronously; the projector is the backstop that repairs the view
// when a synchronous update was lost, and a cold cache is always repaired
// by the read repository's PostgreSQL fallback.
type UserProjector struct {
	readRepo *repository.UserReadRepository
}

func NewUserProjector(readRepo *repository.UserReadRepository) *UserProjector {
	return &UserProjector{readRepo: readRepo}
}

// Handle is the stream subscriber entry point for both event streams.
func (p *UserProjector) Handle(ctx context.Context, event events.Event) error {
	logrus.WithField("type", event.Type).Debug("projector received event")

	switch event.Type {
	case events.UserCreated:
		var data events.UserCreatedEvent
		if err := decode(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode user.created event: %w", err)
		}
		return p.refresh(ctx, data.UserID)

	case events.UserUpdated:
		var data events.UserUpdatedEvent
		if err := decode(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode user.updated event: %w", err)
		}
		return p.refresh(ctx, data.UserID)

	case events.UserDeleted:
		var data events.UserDeletedEvent
		if err := decode(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode user.deleted event: %w", err)
		}
		p.readRepo.InvalidateUserView(ctx, data.UserID)

	case events.AccountCreated:
		var data events.AccountCreatedEvent
		if err := decode(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode account.created event: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"userId":  data.UserID,
			"balance": data.Balance,
		}).Info("account opened")

	case events.AccountDeleted:
		var data events.AccountDeletedEvent
		if err := decode(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode account.deleted event: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"userId":         data.UserID,
			"closingBalance": data.Balance,
		}).Info("account closed")
	}
	return nil
}

// refresh drops any stale cached view and rewarms it from PostgreSQL.
// A user deleted between event and projection is not an error.
func (p *UserProjector) refresh(ctx context.Context, userID string) error {
	p.readRepo.InvalidateUserView(ctx, userID)
	if _, err := p.readRepo.GetByID(ctx, userID); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	return nil
}

// decode round-trips the untyped event payload into its concrete type.
func decode(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

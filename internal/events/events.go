package events

import "time"

// Event types
const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"

	AccountCreated = "account.created"
	AccountDeleted = "account.deleted"
)

// Stream names
const (
	UserEventsStream    = "user.events"
	AccountEventsStream = "account.events"
)

// Base event structure
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UserUpdatedEvent struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UserDeletedEvent struct {
	UserID string `json:"userId"`
}

// Account events
type AccountCreatedEvent struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}

type AccountDeletedEvent struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"closingBalance"`
}

package models

import "time"

// UserView is the read-optimised projection of a user.
// It never carries the password column and is what every read endpoint
// (fetch-self, directory search) serialises.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// DirectoryEntry is the trimmed projection returned by the bulk directory
// search: identity fields only, no timestamps.
type DirectoryEntry struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

type Account struct {
	UserID    string    `json:"-"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

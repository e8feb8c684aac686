package cqrs

type SignUpCommand struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserCommand carries a partial overwrite: nil fields are left
// untouched. Username is deliberately absent — handles are immutable.
type UpdateUserCommand struct {
	UserID    string
	Password  *string
	FirstName *string
	LastName  *string
}

type DeleteUserCommand struct {
	UserID string
}

type SignInCommand struct {
	Username string
	Password string
}

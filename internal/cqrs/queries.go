package cqrs

// GetUserQuery fetches the authenticated user's own record.
type GetUserQuery struct {
	UserID string
}

// SearchUsersQuery matches users whose first or last name contains Filter.
// An empty Filter matches everyone.
type SearchUsersQuery struct {
	Filter string
}

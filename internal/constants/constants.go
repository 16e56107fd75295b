package constants

// ContextKeyUserID is the key under which the authenticated user ID is stored
// in both the session and the gin context.
const ContextKeyUserID = "user_id"

// ContextKeyUser holds the full user model once loaded by middleware.
const ContextKeyUser = "user"

// Pagination limits for list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// DefaultSortColumn is the create-date column index used when the client
// does not ask for an explicit sort order.
const DefaultSortColumn = 9

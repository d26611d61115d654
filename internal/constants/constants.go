package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyActor  = "actor"
)

// Auth
const (
	MinPasswordLength = 6
	TokenCookieName   = "token"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Uploads
const (
	MaxAvatarSizeBytes = 5 << 20 // 5MB, matches the upload form limit
)

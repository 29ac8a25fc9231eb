package constants

// Context keys
const (
	ContextKeyClaims = "auth_claims"
)

// Password rules
const (
	MinPasswordLength = 8
)

// Token rules
const (
	MinTokenSecretLength = 32
	DefaultTokenTTLHours = 24
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

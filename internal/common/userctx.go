package common

import "context"

// UserContext holds per-request user identity injected via the
// X-Clarity-User-ID header. When absent the server operates in
// single-tenant mode using the configured default user.
type UserContext struct {
	UserID string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or fallback when no user
// context is present. Used by handlers and services that need a user scope.
func ResolveUserID(ctx context.Context, fallback string) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	if fallback != "" {
		return fallback
	}
	return "local"
}

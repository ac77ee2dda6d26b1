package session

import "context"

type contextKey struct{ name string }

var (
	tokenKey = contextKey{"session.token"}
	userKey  = contextKey{"session.user"}
)

// WithIdentity attaches the verified token and profile to the request context.
func WithIdentity(ctx context.Context, token string, user *User) context.Context {
	ctx = context.WithValue(ctx, tokenKey, token)
	if user != nil {
		ctx = context.WithValue(ctx, userKey, user)
	}
	return ctx
}

// TokenFromContext returns the verified bearer token for the request, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// UserFromContext returns the authenticated profile for the request, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok && user != nil
}

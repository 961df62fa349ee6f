// Package identity resolves the optional user a result is attributed to.
package identity

import (
	"context"
	"regexp"
	"strings"
)

type contextKey int

const userIDKey contextKey = iota

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)

// Provider supplies the current user, if any.
type Provider interface {
	UserID(ctx context.Context) (string, bool)
}

// Static is a Provider with a fixed user. The empty Static is anonymous.
type Static string

// UserID implements Provider.
func (s Static) UserID(context.Context) (string, bool) {
	id := string(s)
	return id, id != ""
}

// ContextProvider reads the user stored by WithUserID.
type ContextProvider struct{}

// UserID implements Provider.
func (ContextProvider) UserID(ctx context.Context) (string, bool) {
	id := UserIDFromContext(ctx)
	return id, id != ""
}

// WithUserID returns a child context carrying id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the user ID from ctx.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// Normalize trims id and reports whether it is an acceptable user name.
func Normalize(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if !userIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

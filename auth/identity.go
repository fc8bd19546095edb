// Package auth resolves the principal that owns every repository operation.
package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeUnauthenticated is attached to every error returned when no principal is present.
const TextCodeUnauthenticated = "UNAUTHENTICATED"

// Resolver returns the id of the current principal, or an authentication error.
type Resolver interface {
	CurrentUser(ctx context.Context) (string, error)
}

type userKey struct{}

// WithUser returns a copy of ctx carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the principal stored by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}

// ContextResolver reads the principal placed on the context by WithUser,
// typically by the HTTP middleware after verifying a token.
type ContextResolver struct{}

func (ContextResolver) CurrentUser(ctx context.Context) (string, error) {
	if userID, ok := UserFromContext(ctx); ok {
		return userID, nil
	}
	return "", Unauthenticated()
}

// Static always resolves to the same principal. An empty Static is never authenticated.
type Static string

func (s Static) CurrentUser(context.Context) (string, error) {
	if s == "" {
		return "", Unauthenticated()
	}
	return string(s), nil
}

// Unauthenticated builds the error returned when there is no current principal.
func Unauthenticated() *goerrors.Error {
	return goerrors.New("authentication required", goerrors.CategoryAuth).
		WithTextCode(TextCodeUnauthenticated)
}

// Package auth identifies the staff member behind a request.
// The application sits behind an AWS Application Load Balancer that performs the
// OIDC login and forwards the user claims as a signed JWT.
package auth

import (
	"context"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
)

// AnonymousName is the display name used when login is disabled.
const AnonymousName = "anonymous"

// User is an authenticated user of the web app.
type User struct {
	MITID string `json:"mit_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`

	// Anonymous is set when authentication is bypassed.
	Anonymous bool `json:"-"`
}

// ID returns the stable identifier of the user.
func (u *User) ID() string {
	return u.MITID
}

// Authenticated reports whether the user logged in through the load balancer.
func (u *User) Authenticated() bool {
	return u != nil && !u.Anonymous
}

// AnonymousUser returns the placeholder user used when login is disabled.
func AnonymousUser() *User {
	return &User{Name: AnonymousName, Anonymous: true}
}

// WithUser returns a copy of ctx carrying the user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, constants.UserCtxKey, user)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(constants.UserCtxKey).(*User)
	return user, ok && user != nil
}

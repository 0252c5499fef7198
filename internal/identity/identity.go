// Package identity implements the identity domain: user profiles, role
// assignments, and the request-scoped actor that every operation receives.
// There is no ambient session state; handlers resolve an Actor from the
// request context and pass it explicitly into domain operations.
package identity

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role is a closed set of application roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Actor is the authenticated identity a request acts as.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Roles  []Role
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return slices.Contains(a.Roles, role)
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Is(RoleAdmin)
}

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom extracts the actor from the context.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// Profile is the per-user profile row, created alongside account
// registration. The ID equals the auth provider subject.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegisterCommand carries the data needed to provision a user: one profile
// row and one default student role row, created atomically.
type RegisterCommand struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// UpdateProfileCommand carries the mutable profile fields.
type UpdateProfileCommand struct {
	DisplayName string `json:"display_name"`
}

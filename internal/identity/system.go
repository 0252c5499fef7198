package identity

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for identity domain operations.
// Operations that act on behalf of a user take an explicit Actor; ownership
// and role checks are enforced here, not left to callers.
type System interface {
	Handler() *Handler

	// Register provisions a user: exactly one profile row and one default
	// student role row, inserted in a single transaction. Registering an
	// already-provisioned user returns the existing profile unchanged.
	Register(ctx context.Context, cmd RegisterCommand) (*Profile, error)

	// Profile returns a profile readable by its owner or an admin.
	Profile(ctx context.Context, actor Actor, userID uuid.UUID) (*Profile, error)

	// UpdateProfile updates a profile writable by its owner or an admin.
	UpdateProfile(ctx context.Context, actor Actor, userID uuid.UUID, cmd UpdateProfileCommand) (*Profile, error)

	// Roles returns the roles assigned to a user. Used by the auth
	// middleware to build the request actor.
	Roles(ctx context.Context, userID uuid.UUID) ([]Role, error)

	// Grant assigns a role to a user. Admin only.
	Grant(ctx context.Context, actor Actor, userID uuid.UUID, role Role) error

	// Revoke removes a role from a user. Admin only.
	Revoke(ctx context.Context, actor Actor, userID uuid.UUID, role Role) error
}

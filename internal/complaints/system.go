package complaints

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/pagination"
)

// System defines the public contract for complaint domain operations.
// Every operation receives an explicit Actor; ownership and role checks are
// enforced here, mirroring the row-level policies in the schema.
type System interface {
	Handler() *Handler

	// Create validates the submission, obtains a classification, and
	// persists the complaint with an atomically assigned ticket code.
	// Classification failure aborts the create; nothing is written.
	Create(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error)

	// List returns a page of complaints visible to the actor: students see
	// only their own rows, admins see all.
	List(ctx context.Context, actor identity.Actor, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error)

	// Find returns a complaint by id, scoped to the actor's visibility.
	Find(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error)

	// FindByTicket returns a complaint by ticket code, scoped to the
	// actor's visibility.
	FindByTicket(ctx context.Context, actor identity.Actor, code string) (*Complaint, error)

	// UpdateOwn lets the owning student correct title, description, and
	// category while the complaint is still Pending. Re-validated.
	UpdateOwn(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd UpdateCommand) (*Complaint, error)

	// Withdraw moves the owning student's Pending complaint to Withdrawn.
	Withdraw(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error)

	// Review records an admin triage decision: status and response, set in
	// a single atomic update. Never re-invokes classification.
	Review(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd ReviewCommand) (*Complaint, error)
}

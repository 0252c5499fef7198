package attachments

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/storage"
)

// System defines the public contract for attachment operations. Visibility
// follows the parent complaint: students act only on their own complaints,
// and only while those are Pending; admins are unrestricted.
type System interface {
	Handler() *Handler

	// Upload stores one file and its metadata row. The blob write happens
	// first; a failed row insert triggers a compensating blob delete.
	Upload(ctx context.Context, actor identity.Actor, complaintID uuid.UUID, cmd UploadCommand) (*Attachment, error)

	// UploadBatch fans out uploads concurrently and reports per-file
	// results; one bad file never fails the batch.
	UploadBatch(ctx context.Context, actor identity.Actor, complaintID uuid.UUID, cmds []UploadCommand) ([]UploadResult, error)

	// List returns the attachments of a complaint visible to the actor.
	List(ctx context.Context, actor identity.Actor, complaintID uuid.UUID) ([]Attachment, error)

	// Download streams an attachment's content.
	Download(ctx context.Context, actor identity.Actor, complaintID, id uuid.UUID) (*Attachment, *storage.DownloadResult, error)

	// Delete removes an attachment: its uploader while the complaint is
	// Pending, or an admin.
	Delete(ctx context.Context, actor identity.Actor, complaintID, id uuid.UUID) error
}

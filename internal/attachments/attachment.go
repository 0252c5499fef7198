// Package attachments implements evidence files attached to complaints.
// Files live in blob storage; metadata rows live alongside complaints.
package attachments

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Attachment is the metadata row for a stored evidence file.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaint_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count,omitempty"`
	StorageKey  string    `json:"-"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadCommand carries one file's content and metadata. Data is fully
// buffered; the upload size cap is enforced before the command is built.
type UploadCommand struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is the per-file outcome of a batch upload.
type UploadResult struct {
	Filename   string      `json:"filename"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func storageKey(complaintID, attachmentID uuid.UUID) string {
	return fmt.Sprintf("complaints/%s/%s", complaintID, attachmentID)
}

package attachments

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/campusdesk/campusdesk/internal/complaints"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/repository"
	"github.com/campusdesk/campusdesk/pkg/storage"
)

const attachmentColumns = `id, complaint_id, filename, content_type,
	size_bytes, page_count, storage_key, uploaded_by, uploaded_at`

type repo struct {
	db     *sql.DB
	blobs  storage.System
	owner  complaints.System
	cfg    Config
	logger *slog.Logger
}

// New creates an attachment repository implementing the System interface.
// The complaints system supplies visibility scoping for parent complaints.
func New(db *sql.DB, blobs storage.System, owner complaints.System, cfg Config, logger *slog.Logger) System {
	return &repo{
		db:     db,
		blobs:  blobs,
		owner:  owner,
		cfg:    cfg,
		logger: logger.With("system", "attachments"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.cfg, r.logger)
}

func (r *repo) Upload(ctx context.Context, actor identity.Actor, complaintID uuid.UUID, cmd UploadCommand) (*Attachment, error) {
	if err := r.authorizeWrite(ctx, actor, complaintID); err != nil {
		return nil, err
	}
	return r.upload(ctx, actor, complaintID, cmd)
}

func (r *repo) UploadBatch(ctx context.Context, actor identity.Actor, complaintID uuid.UUID, cmds []UploadCommand) ([]UploadResult, error) {
	if err := r.authorizeWrite(ctx, actor, complaintID); err != nil {
		return nil, err
	}

	results := make([]UploadResult, len(cmds))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, cmd := range cmds {
		g.Go(func() error {
			attachment, err := r.upload(gctx, actor, complaintID, cmd)

			mu.Lock()
			defer mu.Unlock()

			results[i] = UploadResult{Filename: cmd.Filename}
			if err != nil {
				results[i].Error = err.Error()
			} else {
				results[i].Attachment = attachment
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *repo) List(ctx context.Context, actor identity.Actor, complaintID uuid.UUID) ([]Attachment, error) {
	if _, err := r.owner.Find(ctx, actor, complaintID); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s FROM complaint_attachments
		WHERE complaint_id = $1
		ORDER BY uploaded_at`, attachmentColumns)

	items, err := repository.QueryMany(ctx, r.db, q, []any{complaintID}, scanAttachment)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return items, nil
}

func (r *repo) Download(ctx context.Context, actor identity.Actor, complaintID, id uuid.UUID) (*Attachment, *storage.DownloadResult, error) {
	attachment, err := r.find(ctx, actor, complaintID, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := r.blobs.Download(ctx, attachment.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download attachment %s: %w", id, err)
	}

	return attachment, result, nil
}

func (r *repo) Delete(ctx context.Context, actor identity.Actor, complaintID, id uuid.UUID) error {
	complaint, err := r.owner.Find(ctx, actor, complaintID)
	if err != nil {
		return err
	}

	attachment, err := r.find(ctx, actor, complaintID, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if attachment.UploadedBy != actor.UserID {
			return ErrForbidden
		}
		if complaint.Status != complaints.StatusPending {
			return ErrNotPending
		}
	}

	err = repository.ExecExpectOne(ctx, r.db,
		"DELETE FROM complaint_attachments WHERE id = $1 AND complaint_id = $2",
		id, complaintID,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.blobs.Delete(ctx, attachment.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		// The row is gone; an orphaned blob is recoverable by key prefix.
		r.logger.Warn("blob delete failed after row delete",
			"key", attachment.StorageKey,
			"error", err,
		)
	}

	r.logger.Info("attachment deleted", "id", id, "complaint_id", complaintID)
	return nil
}

// authorizeWrite enforces the write rule: owner while the complaint is
// Pending, or admin. Visibility itself comes from the complaints lookup.
func (r *repo) authorizeWrite(ctx context.Context, actor identity.Actor, complaintID uuid.UUID) error {
	complaint, err := r.owner.Find(ctx, actor, complaintID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && complaint.Status != complaints.StatusPending {
		return ErrNotPending
	}
	return nil
}

func (r *repo) upload(ctx context.Context, actor identity.Actor, complaintID uuid.UUID, cmd UploadCommand) (*Attachment, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(cmd.Data)) > r.cfg.MaxUploadBytes() {
		return nil, ErrTooLarge
	}

	attachment := Attachment{
		ID:          uuid.New(),
		ComplaintID: complaintID,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		SizeBytes:   int64(len(cmd.Data)),
		UploadedBy:  actor.UserID,
	}
	attachment.StorageKey = storageKey(complaintID, attachment.ID)
	attachment.PageCount = pageCount(cmd)

	if err := r.blobs.Upload(ctx, attachment.StorageKey, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO complaint_attachments(
			id, complaint_id, filename, content_type, size_bytes,
			page_count, storage_key, uploaded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, attachmentColumns)

	stored, err := repository.QueryOne(ctx, r.db, insert, []any{
		attachment.ID,
		attachment.ComplaintID,
		attachment.Filename,
		attachment.ContentType,
		attachment.SizeBytes,
		attachment.PageCount,
		attachment.StorageKey,
		attachment.UploadedBy,
	}, scanAttachment)

	if err != nil {
		// Compensate: the blob must not outlive a failed metadata insert.
		if delErr := r.blobs.Delete(ctx, attachment.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			r.logger.Error("compensating blob delete failed",
				"key", attachment.StorageKey,
				"error", delErr,
			)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("attachment uploaded",
		"id", stored.ID,
		"complaint_id", complaintID,
		"size_bytes", stored.SizeBytes,
	)
	return &stored, nil
}

func (r *repo) find(ctx context.Context, actor identity.Actor, complaintID, id uuid.UUID) (*Attachment, error) {
	if _, err := r.owner.Find(ctx, actor, complaintID); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s FROM complaint_attachments
		WHERE id = $1 AND complaint_id = $2`, attachmentColumns)

	attachment, err := repository.QueryOne(ctx, r.db, q, []any{id, complaintID}, scanAttachment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &attachment, nil
}

// pageCount extracts the page count for PDF uploads; other content types
// have no page notion and store NULL.
func pageCount(cmd UploadCommand) *int {
	if cmd.ContentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(cmd.Data), nil)
	if err != nil || count <= 0 {
		return nil
	}
	return &count
}

func scanAttachment(s repository.Scanner) (Attachment, error) {
	var a Attachment
	err := s.Scan(
		&a.ID,
		&a.ComplaintID,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&a.StorageKey,
		&a.UploadedBy,
		&a.UploadedAt,
	)
	return a, err
}

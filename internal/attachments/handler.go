package attachments

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/complaints"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/handlers"
	"github.com/campusdesk/campusdesk/pkg/routes"
)

// Handler exposes attachment operations over HTTP, nested under a
// complaint resource.
type Handler struct {
	sys    System
	cfg    Config
	logger *slog.Logger
}

func NewHandler(sys System, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		cfg:    cfg,
		logger: logger.With("handler", "attachments"),
	}
}

func (h *Handler) Routes() *routes.Group {
	return &routes.Group{
		Prefix: "/complaints/{id}/attachments",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "", Handler: h.Upload},
			{Method: http.MethodGet, Pattern: "", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{attachmentId}", Handler: h.Download},
			{Method: http.MethodDelete, Pattern: "/{attachmentId}", Handler: h.Delete},
		},
	}
}

// Upload accepts a multipart form with one or more "files" parts. A single
// file responds with the attachment; multiple files respond with per-file
// results.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	limit := h.cfg.MaxUploadBytes()*int64(h.cfg.MaxBatchFiles) + 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("no files provided"))
		return
	}
	if len(files) > h.cfg.MaxBatchFiles {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("too many files: limit is %d", h.cfg.MaxBatchFiles))
		return
	}

	cmds := make([]UploadCommand, 0, len(files))
	for _, header := range files {
		cmd, err := commandFromPart(header, h.cfg.MaxUploadBytes())
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		cmds = append(cmds, cmd)
	}

	if len(cmds) == 1 {
		attachment, err := h.sys.Upload(r.Context(), actor, complaintID, cmds[0])
		if err != nil {
			handlers.RespondError(w, h.logger, h.mapStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusCreated, attachment)
		return
	}

	results, err := h.sys.UploadBatch(r.Context(), actor, complaintID, cmds)
	if err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusMultiStatus, results)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := h.sys.List(r.Context(), actor, complaintID)
	if err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	attachmentID, err := uuid.Parse(r.PathValue("attachmentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	attachment, result, err := h.sys.Download(r.Context(), actor, complaintID, attachmentID)
	if err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = attachment.ContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("attachment stream interrupted",
			"id", attachment.ID,
			"error", err,
		)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrUnauthorized)
		return
	}

	complaintID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	attachmentID, err := uuid.Parse(r.PathValue("attachmentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), actor, complaintID, attachmentID); err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mapStatus also consults the complaints mapping because parent lookups
// surface complaint domain errors.
func (h *Handler) mapStatus(err error) int {
	if status := MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return complaints.MapHTTPStatus(err)
}

func commandFromPart(header *multipart.FileHeader, maxBytes int64) (UploadCommand, error) {
	if header.Size > maxBytes {
		return UploadCommand{}, fmt.Errorf("%w: %s", ErrTooLarge, header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return UploadCommand{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return UploadCommand{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}
	if int64(len(data)) > maxBytes {
		return UploadCommand{}, fmt.Errorf("%w: %s", ErrTooLarge, header.Filename)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return UploadCommand{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

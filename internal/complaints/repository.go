package complaints

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/events"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/pkg/pagination"
	"github.com/campusdesk/campusdesk/pkg/query"
	"github.com/campusdesk/campusdesk/pkg/repository"
)

const complaintColumns = `id, ticket_code, student_id, title, description,
	category, suggested_category, priority, ai_priority_score, status,
	admin_response, ai_draft_response, created_at, updated_at`

type repo struct {
	db         *sql.DB
	classifier classifier.System
	bus        events.Bus
	pageCfg    pagination.Config
	logger     *slog.Logger
}

// New creates a complaint repository implementing the System interface.
func New(db *sql.DB, cls classifier.System, bus events.Bus, pageCfg pagination.Config, logger *slog.Logger) System {
	return &repo{
		db:         db,
		classifier: cls,
		bus:        bus,
		pageCfg:    pageCfg,
		logger:     logger.With("system", "complaints"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.pageCfg, r.logger)
}

func (r *repo) Create(ctx context.Context, actor identity.Actor, cmd SubmitCommand) (*Complaint, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	category, err := ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}

	// Classification is a precondition for persistence: any failure here
	// aborts the create before a row or ticket code is allocated.
	result, err := r.classifier.Classify(ctx, classifier.Request{
		Title:       cmd.Title,
		Description: cmd.Description,
		Category:    string(category),
	})
	if err != nil {
		return nil, err
	}

	suggested, err := ParseCategory(result.SuggestedCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", classifier.ErrInvalidResult, err)
	}
	priority, err := ParsePriority(result.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", classifier.ErrInvalidResult, err)
	}

	// The sequence upsert and the complaint insert share a transaction; the
	// row lock on ticket_sequences serializes concurrent creates so codes
	// within a year are unique and monotonic.
	nextSeq := `
		INSERT INTO ticket_sequences(year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = ticket_sequences.last_seq + 1
		RETURNING last_seq`

	insert := fmt.Sprintf(`
		INSERT INTO complaints(
			id, ticket_code, student_id, title, description, category,
			suggested_category, priority, ai_priority_score, ai_draft_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, complaintColumns)

	year := time.Now().UTC().Year()

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Complaint, error) {
		seq, err := repository.QueryOne(ctx, tx, nextSeq, []any{year}, scanCount)
		if err != nil {
			return Complaint{}, fmt.Errorf("next ticket sequence: %w", err)
		}

		return repository.QueryOne(ctx, tx, insert, []any{
			uuid.New(),
			TicketCode(year, seq),
			actor.UserID,
			cmd.Title,
			cmd.Description,
			string(category),
			string(suggested),
			string(priority),
			result.PriorityScore,
			result.SuggestedResponse,
		}, scanComplaint)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("complaint created",
		"id", c.ID,
		"ticket_code", c.TicketCode,
		"priority", c.Priority,
	)
	r.publish(ctx, events.ActionCreated, &c)

	return &c, nil
}

func (r *repo) List(ctx context.Context, actor identity.Actor, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error) {
	builder := r.scopedBuilder(actor)
	filters.apply(builder)
	builder.WhereSearch(page.Search, "title", "description")
	builder.OrderBy(page.Sort)

	countSQL, countArgs := builder.BuildCount()
	total, err := repository.QueryOne(ctx, r.db, countSQL, countArgs, scanCount)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(page.Page, page.PageSize)
	data, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanComplaint)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	result := pagination.NewPageResult(data, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
	return r.findBy(ctx, actor, "id", id)
}

func (r *repo) FindByTicket(ctx context.Context, actor identity.Actor, code string) (*Complaint, error) {
	return r.findBy(ctx, actor, "ticket_code", code)
}

func (r *repo) UpdateOwn(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd UpdateCommand) (*Complaint, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	category, err := ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}

	update := fmt.Sprintf(`
		UPDATE complaints
		SET title = $1, description = $2, category = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING %s`, complaintColumns)

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Complaint, error) {
		current, err := r.lockRow(ctx, tx, id)
		if err != nil {
			return Complaint{}, err
		}
		if err := studentWriteGuard(current, actor); err != nil {
			return Complaint{}, err
		}

		return repository.QueryOne(ctx, tx, update, []any{
			cmd.Title, cmd.Description, string(category), id,
		}, scanComplaint)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("complaint updated", "id", c.ID, "ticket_code", c.TicketCode)
	r.publish(ctx, events.ActionUpdated, &c)

	return &c, nil
}

func (r *repo) Withdraw(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Complaint, error) {
	update := fmt.Sprintf(`
		UPDATE complaints
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, complaintColumns)

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Complaint, error) {
		current, err := r.lockRow(ctx, tx, id)
		if err != nil {
			return Complaint{}, err
		}
		if err := studentWriteGuard(current, actor); err != nil {
			return Complaint{}, err
		}

		return repository.QueryOne(ctx, tx, update, []any{
			string(StatusWithdrawn), id,
		}, scanComplaint)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("complaint withdrawn", "id", c.ID, "ticket_code", c.TicketCode)
	r.publish(ctx, events.ActionUpdated, &c)

	return &c, nil
}

func (r *repo) Review(ctx context.Context, actor identity.Actor, id uuid.UUID, cmd ReviewCommand) (*Complaint, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	status, err := ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	update := fmt.Sprintf(`
		UPDATE complaints
		SET status = $1, admin_response = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, complaintColumns)

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Complaint, error) {
		current, err := r.lockRow(ctx, tx, id)
		if err != nil {
			return Complaint{}, err
		}

		response := current.AdminResponse
		if cmd.AdminResponse != nil && *cmd.AdminResponse != "" {
			response = cmd.AdminResponse
		} else if cmd.AdoptAIDraft {
			response = current.AIDraftResponse
		}

		return repository.QueryOne(ctx, tx, update, []any{
			string(status), response, id,
		}, scanComplaint)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("complaint reviewed",
		"id", c.ID,
		"ticket_code", c.TicketCode,
		"status", c.Status,
	)
	r.publish(ctx, events.ActionUpdated, &c)

	return &c, nil
}

// scopedBuilder narrows queries to the actor's visibility: students only
// ever see their own rows.
func (r *repo) scopedBuilder(actor identity.Actor) *query.Builder {
	builder := query.NewBuilder(columnMap(), query.SortField{Field: "created_at", Descending: true})
	if !actor.IsAdmin() {
		builder.WhereEquals("student_id", actor.UserID)
	}
	return builder
}

func (r *repo) findBy(ctx context.Context, actor identity.Actor, field string, value any) (*Complaint, error) {
	builder := r.scopedBuilder(actor)
	builder.WhereEquals(field, value)

	sqlText, args := builder.BuildPage(1, 1)

	c, err := repository.QueryOne(ctx, r.db, sqlText, args, scanComplaint)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

// studentWriteGuard applies the student mutation rules to a locked row.
// A non-owner gets the same not-found the scoped read path produces, so the
// write path never confirms that a foreign row exists.
func studentWriteGuard(current Complaint, actor identity.Actor) error {
	if current.StudentID != actor.UserID {
		return ErrNotFound
	}
	if current.Status != StatusPending {
		return ErrNotPending
	}
	return nil
}

func (r *repo) lockRow(ctx context.Context, tx *sql.Tx, id uuid.UUID) (Complaint, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM complaints WHERE id = $1 FOR UPDATE",
		complaintColumns,
	)
	return repository.QueryOne(ctx, tx, q, []any{id}, scanComplaint)
}

// publish is best-effort: a broken bus never fails the mutation that
// already committed.
func (r *repo) publish(ctx context.Context, action string, c *Complaint) {
	event := events.Event{
		Entity:     "complaint",
		Action:     action,
		ID:         c.ID,
		TicketCode: c.TicketCode,
		At:         time.Now().UTC(),
	}

	if err := r.bus.Publish(ctx, event); err != nil {
		r.logger.Warn("event publish failed",
			"action", action,
			"ticket_code", c.TicketCode,
			"error", err,
		)
	}
}

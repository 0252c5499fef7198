package identity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campusdesk/campusdesk/pkg/repository"
)

const profileColumns = "id, display_name, email, created_at, updated_at"

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an identity repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "identity"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Profile, error) {
	insertProfile := `
		INSERT INTO profiles(id, display_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	insertRole := `
		INSERT INTO user_roles(user_id, role)
		VALUES ($1, 'student')
		ON CONFLICT (user_id, role) DO NOTHING`

	selectProfile := fmt.Sprintf(
		"SELECT %s FROM profiles WHERE id = $1", profileColumns,
	)

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Profile, error) {
		if _, err := tx.ExecContext(ctx, insertProfile, cmd.UserID, cmd.DisplayName, cmd.Email); err != nil {
			return Profile{}, fmt.Errorf("insert profile: %w", err)
		}

		if _, err := tx.ExecContext(ctx, insertRole, cmd.UserID); err != nil {
			return Profile{}, fmt.Errorf("insert default role: %w", err)
		}

		return repository.QueryOne(ctx, tx, selectProfile, []any{cmd.UserID}, scanProfile)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user registered", "id", p.ID, "email", p.Email)
	return &p, nil
}

func (r *repo) Profile(ctx context.Context, actor Actor, userID uuid.UUID) (*Profile, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	q := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", profileColumns)

	p, err := repository.QueryOne(ctx, r.db, q, []any{userID}, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) UpdateProfile(ctx context.Context, actor Actor, userID uuid.UUID, cmd UpdateProfileCommand) (*Profile, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	q := fmt.Sprintf(`
		UPDATE profiles
		SET display_name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, profileColumns)

	p, err := repository.QueryOne(ctx, r.db, q, []any{cmd.DisplayName, userID}, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("profile updated", "id", p.ID)
	return &p, nil
}

func (r *repo) Roles(ctx context.Context, userID uuid.UUID) ([]Role, error) {
	q := "SELECT role FROM user_roles WHERE user_id = $1"

	roles, err := repository.QueryMany(ctx, r.db, q, []any{userID}, scanRole)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	return roles, nil
}

func (r *repo) Grant(ctx context.Context, actor Actor, userID uuid.UUID, role Role) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	q := `
		INSERT INTO user_roles(user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, userID, string(role)); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}

	r.logger.Info("role granted", "user_id", userID, "role", role)
	return nil
}

func (r *repo) Revoke(ctx context.Context, actor Actor, userID uuid.UUID, role Role) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM user_roles WHERE user_id = $1 AND role = $2",
		userID, string(role),
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("role revoked", "user_id", userID, "role", role)
	return nil
}

func scanProfile(s repository.Scanner) (Profile, error) {
	var p Profile
	err := s.Scan(&p.ID, &p.DisplayName, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanRole(s repository.Scanner) (Role, error) {
	var raw string
	if err := s.Scan(&raw); err != nil {
		return "", err
	}
	return ParseRole(raw)
}

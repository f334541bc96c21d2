package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	"github.com/wapify/credit_ledger_app/internal/models"
	"github.com/wapify/credit_ledger_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, username, email, role, password_hash, business_name, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUserRow(row pgx.Row) (*models.User, error) {
	var m models.User
	var businessName sql.NullString

	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Username,
		&m.Email,
		&m.Role,
		&m.PasswordHash,
		&businessName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if businessName.Valid {
		m.BusinessName = businessName.String
	}
	return &m, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		INSERT INTO users (user_id, name, username, email, role, password_hash, business_name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	var businessName sql.NullString
	if m.BusinessName != "" {
		businessName = sql.NullString{String: m.BusinessName, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Username,
		m.Email,
		m.Role,
		m.PasswordHash,
		businessName,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, m.Username)
		}
		return mapStoreError(err, "failed to save user "+m.UserID)
	}
	return nil
}

// FindUserByID retrieves a user by ID, excluding soft-deleted users.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`

	m, err := scanUserRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to find user "+userID)
	}

	u := mapping.ToDomainUser(*m)
	return &u, nil
}

// FindUserByUsername retrieves a user by username, excluding soft-deleted
// users.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL;`

	m, err := scanUserRow(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to find user by username")
	}

	u := mapping.ToDomainUser(*m)
	return &u, nil
}

// ListUsers retrieves a paginated list of users, excluding soft-deleted ones.
func (r *PgxUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapStoreError(err, "failed to query users")
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		m, err := scanUserRow(rows)
		if err != nil {
			return nil, mapStoreError(err, "failed to scan user row")
		}
		users = append(users, mapping.ToDomainUser(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "error iterating user rows")
	}

	return users, nil
}

// UpdateUser updates an existing user's mutable details.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, business_name = $5, last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	var businessName sql.NullString
	if m.BusinessName != "" {
		businessName = sql.NullString{String: m.BusinessName, Valid: true}
	}

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		businessName,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapStoreError(err, "failed to update user "+m.UserID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + m.UserID + " not found for update")
	}
	return nil
}

// MarkUserDeleted soft-deletes a user. The row stays so ledger history keeps
// resolving the acting user.
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedByUserID string, now time.Time) error {
	query := `
		UPDATE users
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, now, deletedByUserID)
	if err != nil {
		return mapStoreError(err, "failed to mark user "+userID+" deleted")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found for deletion")
	}
	return nil
}

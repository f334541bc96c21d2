package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	"github.com/wapify/credit_ledger_app/internal/models"
	"github.com/wapify/credit_ledger_app/internal/utils/mapping"
	"github.com/wapify/credit_ledger_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
}

// newPgxLedgerRepository creates a new repository for the entry log. The
// account repo is injected so the atomic unit can lock and mutate balances
// inside the same transaction that appends the entry.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `entry_id, from_account_id, to_account_id, amount, from_balance_after, to_balance_after, note, idempotency_key, created_at, created_by`

func scanEntryRow(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.Amount,
		&m.FromBalanceAfter,
		&m.ToBalanceAfter,
		&m.Note,
		&m.IdempotencyKey,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveEntry executes one credit movement atomically: lock the involved
// account rows, re-check the sender's funds under the lock, apply both
// balance changes and append the entry recording the post-transfer balances.
// The caller has already validated amount, account status and policy; the
// funds check is repeated here because the balance may have changed between
// the caller's read and this lock.
func (r *PgxLedgerRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	issuance := entry.IsIssuance()

	lockIDs := []string{entry.FromAccountID, entry.ToAccountID}
	if issuance {
		// The system account has no row; only the receiver is locked.
		lockIDs = []string{entry.ToAccountID}
	}

	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, lockIDs)
	if err != nil {
		return nil, err
	}

	deltas := map[string]int64{entry.ToAccountID: entry.Amount}
	if issuance {
		entry.FromBalanceAfter = 0
	} else {
		from := accounts[entry.FromAccountID]
		if from.Balance < entry.Amount {
			return nil, fmt.Errorf("%w: account %s has %d, needs %d",
				apperrors.ErrInsufficientFunds, entry.FromAccountID, from.Balance, entry.Amount)
		}
		deltas[entry.FromAccountID] = -entry.Amount
		entry.FromBalanceAfter = from.Balance - entry.Amount
	}
	entry.ToBalanceAfter = accounts[entry.ToAccountID].Balance + entry.Amount

	if err := r.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, entry.CreatedBy, entry.CreatedAt); err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO entries (from_account_id, to_account_id, amount, from_balance_after, to_balance_after, note, idempotency_key, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING entry_id;
	`
	err = tx.QueryRow(ctx, insertQuery,
		entry.FromAccountID,
		entry.ToAccountID,
		entry.Amount,
		entry.FromBalanceAfter,
		entry.ToBalanceAfter,
		entry.Note,
		entry.IdempotencyKey,
		entry.CreatedAt,
		entry.CreatedBy,
	).Scan(&entry.EntryID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			key := ""
			if entry.IdempotencyKey != nil {
				key = *entry.IdempotencyKey
			}
			return nil, fmt.Errorf("%w: idempotency key %q already used", apperrors.ErrDuplicate, key)
		}
		return nil, mapStoreError(err, "failed to insert ledger entry")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &entry, nil
}

// FindEntryByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_id = $1;`

	m, err := scanEntryRow(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to find entry "+strconv.FormatInt(entryID, 10))
	}

	e := mapping.ToDomainLedgerEntry(*m)
	return &e, nil
}

// FindEntryByIdempotencyKey retrieves the entry recorded for a prior
// submission with the same key, if any.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE idempotency_key = $1;`

	m, err := scanEntryRow(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to find entry by idempotency key")
	}

	e := mapping.ToDomainLedgerEntry(*m)
	return &e, nil
}

// ListEntriesForAccount retrieves a page of entries where the account is
// either sender or receiver, with a cursor on the entry id.
func (r *PgxLedgerRepository) ListEntriesForAccount(ctx context.Context, accountID string, filter portsrepo.ListEntriesFilter) ([]domain.LedgerEntry, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + entryColumns + ` FROM entries e WHERE (e.from_account_id = $1 OR e.to_account_id = $1)`)

	args := []any{accountID}
	argPos := 2

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastID, err := pagination.DecodeEntryIDToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if filter.Descending {
			sb.WriteString(fmt.Sprintf(" AND e.entry_id < $%d", argPos))
		} else {
			sb.WriteString(fmt.Sprintf(" AND e.entry_id > $%d", argPos))
		}
		args = append(args, lastID)
		argPos++
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND e.created_at >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND e.created_at <= $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}
	if filter.CounterpartRole != nil {
		// The counterpart is whichever side of the entry is not the listed
		// account. Issuances have no counterpart row and are excluded here.
		sb.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.role = $%d
			  AND a.account_id = CASE WHEN e.from_account_id = $1 THEN e.to_account_id ELSE e.from_account_id END
		)`, argPos))
		args = append(args, string(*filter.CounterpartRole))
		argPos++
	}

	if filter.Descending {
		sb.WriteString(" ORDER BY e.entry_id DESC")
	} else {
		sb.WriteString(" ORDER BY e.entry_id ASC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	// Fetch one extra row to know whether another page exists.
	sb.WriteString(fmt.Sprintf(" LIMIT $%d;", argPos))
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, mapStoreError(err, "failed to query entries for account "+accountID)
	}
	defer rows.Close()

	entryModels := make([]models.LedgerEntry, 0, limit+1)
	for rows.Next() {
		m, err := scanEntryRow(rows)
		if err != nil {
			return nil, nil, mapStoreError(err, "failed to scan entry row")
		}
		entryModels = append(entryModels, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapStoreError(err, "error iterating entry rows")
	}

	var nextToken *string
	if len(entryModels) > limit {
		entryModels = entryModels[:limit]
		token := pagination.EncodeEntryIDToken(entryModels[limit-1].EntryID)
		nextToken = &token
	}

	return mapping.ToDomainLedgerEntrySlice(entryModels), nextToken, nil
}

const defaultListLimit = 50

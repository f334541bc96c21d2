package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a repository for aggregate ledger queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountActivity computes entry-derived totals for one account. The
// account row and the aggregates are read in a single query so the balance
// and the totals come from one snapshot.
func (r *PgxReportingRepository) GetAccountActivity(ctx context.Context, accountID string) (*domain.AccountStats, error) {
	query := `
		SELECT
			a.account_id,
			a.role,
			a.balance,
			COALESCE(SUM(e.amount) FILTER (WHERE e.from_account_id = a.account_id), 0) AS total_sent,
			COALESCE(SUM(e.amount) FILTER (WHERE e.to_account_id = a.account_id), 0) AS total_received,
			COUNT(e.entry_id) AS entry_count,
			MIN(e.created_at) AS first_entry_time,
			MAX(e.created_at) AS last_entry_time
		FROM accounts a
		LEFT JOIN entries e ON e.from_account_id = a.account_id OR e.to_account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.account_id, a.role, a.balance;
	`

	var stats domain.AccountStats
	var firstEntry, lastEntry sql.NullTime
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&stats.AccountID,
		&stats.Role,
		&stats.CurrentBalance,
		&stats.TotalSent,
		&stats.TotalReceived,
		&stats.EntryCount,
		&firstEntry,
		&lastEntry,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapStoreError(err, "failed to compute activity for account "+accountID)
	}
	if firstEntry.Valid {
		stats.FirstEntryTime = &firstEntry.Time
	}
	if lastEntry.Valid {
		stats.LastEntryTime = &lastEntry.Time
	}

	return &stats, nil
}

// GetPlatformTotals computes platform-wide aggregates. Both queries run in a
// repeatable-read read-only transaction so circulation and entry totals come
// from the same snapshot and always reconcile.
func (r *PgxReportingRepository) GetPlatformTotals(ctx context.Context) (*domain.PlatformSummary, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, mapStoreError(err, "failed to begin reporting transaction")
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	var summary domain.PlatformSummary

	circulationQuery := `SELECT COALESCE(SUM(balance), 0) FROM accounts;`
	if err := tx.QueryRow(ctx, circulationQuery).Scan(&summary.TotalInCirculation); err != nil {
		return nil, mapStoreError(err, "failed to compute circulation total")
	}

	entryTotalsQuery := `
		SELECT
			COUNT(*) FILTER (WHERE from_account_id <> $1) AS total_transfers,
			COALESCE(SUM(amount) FILTER (WHERE from_account_id <> $1), 0) AS total_volume,
			COALESCE(SUM(amount) FILTER (WHERE from_account_id = $1), 0) AS total_issued
		FROM entries;
	`
	err = tx.QueryRow(ctx, entryTotalsQuery, domain.SystemAccountID).Scan(
		&summary.TotalTransfers,
		&summary.TotalVolume,
		&summary.TotalIssued,
	)
	if err != nil {
		return nil, mapStoreError(err, "failed to compute entry totals")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &summary, nil
}

// GetResellerBreakdown summarises distribution activity per reseller. Only
// transfers to business owners count toward distribution totals; issuances
// received by the reseller do not.
func (r *PgxReportingRepository) GetResellerBreakdown(ctx context.Context) ([]domain.ResellerBreakdownRow, error) {
	query := `
		SELECT
			a.account_id,
			u.name,
			a.balance,
			COALESCE(SUM(e.amount), 0) AS total_distributed,
			COUNT(e.entry_id) AS transfer_count,
			(SELECT COUNT(*) FROM accounts o WHERE o.owning_reseller_id = a.account_id) AS business_owner_count
		FROM accounts a
		JOIN users u ON u.user_id = a.user_id
		LEFT JOIN entries e ON e.from_account_id = a.account_id
		WHERE a.role = $1
		GROUP BY a.account_id, u.name, a.balance
		ORDER BY total_distributed DESC, a.account_id;
	`

	rows, err := r.Pool.Query(ctx, query, string(domain.RoleReseller))
	if err != nil {
		return nil, mapStoreError(err, "failed to query reseller breakdown")
	}
	defer rows.Close()

	breakdown := make([]domain.ResellerBreakdownRow, 0)
	for rows.Next() {
		var row domain.ResellerBreakdownRow
		err := rows.Scan(
			&row.ResellerAccountID,
			&row.ResellerName,
			&row.Balance,
			&row.TotalDistributed,
			&row.TransferCount,
			&row.BusinessOwnerCount,
		)
		if err != nil {
			return nil, mapStoreError(err, "failed to scan reseller breakdown row")
		}
		breakdown = append(breakdown, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreError(err, "error iterating reseller breakdown rows")
	}

	return breakdown, nil
}

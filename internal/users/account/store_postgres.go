// Copyright (c) 2026 FarmConnect. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/users/auth"
	"github.com/farmconnect/api/pkg/pagination"
)

// PostgresRepository implements [Repository] backed by PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed account admin repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListActiveFarmers pages through the public farmer directory, best-rated first.
func (r *PostgresRepository) ListActiveFarmers(ctx context.Context, params pagination.Params) ([]FarmerListing, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users.account a
		JOIN users.farmerprofile f ON f.accountid = a.id
		WHERE a.status = 'ACTIVE'`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("count farmers: %w", err))
	}

	const listQuery = `
		SELECT a.id, a.name, f.farmname, f.location, f.description,
		       f.rating, f.totalsales, f.isverified, a.createdat
		FROM users.account a
		JOIN users.farmerprofile f ON f.accountid = a.id
		WHERE a.status = 'ACTIVE'
		ORDER BY f.rating DESC, a.createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, listQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("list farmers: %w", err))
	}
	defer rows.Close()

	listings := make([]FarmerListing, 0, params.Limit)
	for rows.Next() {
		var l FarmerListing
		err := rows.Scan(&l.AccountID, &l.Name, &l.FarmName, &l.Location, &l.Description,
			&l.Rating, &l.TotalSales, &l.Verified, &l.JoinedAt)
		if err != nil {
			return nil, 0, apperr.Internal(fmt.Errorf("scan farmer listing: %w", err))
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("iterate farmer listings: %w", err))
	}

	return listings, total, nil
}

// ListPendingFarmers pages through farmers awaiting approval, oldest first so
// the review queue is fair.
func (r *PostgresRepository) ListPendingFarmers(ctx context.Context, params pagination.Params) ([]PendingFarmer, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users.account a
		JOIN users.farmerprofile f ON f.accountid = a.id
		WHERE a.status = 'PENDING'`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("count pending farmers: %w", err))
	}

	const listQuery = `
		SELECT a.id, a.name, a.email, f.farmname, f.location, f.description, a.createdat
		FROM users.account a
		JOIN users.farmerprofile f ON f.accountid = a.id
		WHERE a.status = 'PENDING'
		ORDER BY a.createdat ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, listQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("list pending farmers: %w", err))
	}
	defer rows.Close()

	pending := make([]PendingFarmer, 0, params.Limit)
	for rows.Next() {
		var p PendingFarmer
		err := rows.Scan(&p.AccountID, &p.Name, &p.Email, &p.FarmName, &p.Location, &p.Description, &p.RegisteredAt)
		if err != nil {
			return nil, 0, apperr.Internal(fmt.Errorf("scan pending farmer: %w", err))
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("iterate pending farmers: %w", err))
	}

	return pending, total, nil
}

// GetAccountStatus fetches the type and lifecycle status of an account.
func (r *PostgresRepository) GetAccountStatus(ctx context.Context, accountID string) (string, auth.Status, error) {
	const q = `SELECT usertype, status FROM users.account WHERE id = $1`

	var accountType string
	var status auth.Status
	err := r.pool.QueryRow(ctx, q, accountID).Scan(&accountType, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", "", apperr.NotFound("Account")
		}
		return "", "", apperr.Internal(fmt.Errorf("get account status: %w", err))
	}
	return accountType, status, nil
}

// ApproveFarmer activates a pending farmer account and marks its profile
// verified in one transaction.
//
// The WHERE clause repeats the PENDING precondition so a concurrent approval
// of the same farmer is a harmless no-op rather than a double transition.
func (r *PostgresRepository) ApproveFarmer(ctx context.Context, accountID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin approve tx: %w", err))
	}
	defer tx.Rollback(ctx)

	const updateAccount = `
		UPDATE users.account
		SET status = 'ACTIVE', updatedat = now()
		WHERE id = $1 AND usertype = 'FARMER' AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, updateAccount, accountID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("approve farmer account: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Farmer is not pending approval")
	}

	const updateProfile = `
		UPDATE users.farmerprofile
		SET status = 'ACTIVE', isverified = TRUE
		WHERE accountid = $1`

	if _, err := tx.Exec(ctx, updateProfile, accountID); err != nil {
		return apperr.Internal(fmt.Errorf("approve farmer profile: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("commit approve tx: %w", err))
	}
	return nil
}

// SetAccountStatus writes a new lifecycle status to the account and mirrors
// it onto the matching profile row when that profile carries a status.
func (r *PostgresRepository) SetAccountStatus(ctx context.Context, accountID string, status auth.Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin status tx: %w", err))
	}
	defer tx.Rollback(ctx)

	const updateAccount = `
		UPDATE users.account SET status = $2, updatedat = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, updateAccount, accountID, status)
	if err != nil {
		return apperr.Internal(fmt.Errorf("update account status: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	// Admin profiles carry no status column, so these are no-ops for admins.
	const updateFarmer = `UPDATE users.farmerprofile SET status = $2 WHERE accountid = $1`
	if _, err := tx.Exec(ctx, updateFarmer, accountID, status); err != nil {
		return apperr.Internal(fmt.Errorf("update farmer profile status: %w", err))
	}

	const updateBuyer = `UPDATE users.buyerprofile SET status = $2 WHERE accountid = $1`
	if _, err := tx.Exec(ctx, updateBuyer, accountID, status); err != nil {
		return apperr.Internal(fmt.Errorf("update buyer profile status: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("commit status tx: %w", err))
	}
	return nil
}

// Copyright (c) 2026 FarmConnect. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/dberr"
	"github.com/farmconnect/api/internal/platform/sec"
)

// PostgresAccountRepository implements [AccountRepository] backed by PostgreSQL.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// Statically verify interface compliance.
var _ AccountRepository = (*PostgresAccountRepository)(nil)

// NewPostgresAccountRepository creates a Postgres-backed account repository.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// CreateWithProfile inserts the account and its profile row in one transaction.
//
// # Duplicate Emails
//
// The unique index on LOWER(email) is the authoritative guard: a concurrent
// registration for the same address loses the race here and surfaces as
// EMAIL_EXISTS, never as partial state.
func (r *PostgresAccountRepository) CreateWithProfile(ctx context.Context, account *Account, profile Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin account tx: %w", err))
	}
	defer tx.Rollback(ctx)

	const insertAccount = `
		INSERT INTO users.account (id, email, name, passwordhash, usertype, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.Exec(ctx, insertAccount,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.Type, account.Status, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.EmailExists()
		}
		return apperr.Internal(fmt.Errorf("insert account: %w", err))
	}

	if err := insertProfile(ctx, tx, account.ID, profile); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("commit account tx: %w", err))
	}
	return nil
}

// insertProfile writes the variant-specific profile row inside the transaction.
func insertProfile(ctx context.Context, tx pgx.Tx, accountID string, profile Profile) error {
	switch p := profile.(type) {
	case FarmerProfile:
		const q = `
			INSERT INTO users.farmerprofile (accountid, farmname, location, description, rating, totalsales, isverified, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.Exec(ctx, q, accountID, p.FarmName, p.Location, p.Description, p.Rating, p.TotalSales, p.Verified, p.Status); err != nil {
			return apperr.Internal(fmt.Errorf("insert farmer profile: %w", err))
		}

	case BuyerProfile:
		const q = `
			INSERT INTO users.buyerprofile (accountid, address, phone, status)
			VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, q, accountID, p.Address, p.Phone, p.Status); err != nil {
			return apperr.Internal(fmt.Errorf("insert buyer profile: %w", err))
		}

	case AdminProfile:
		perms, err := json.Marshal(p.Permissions)
		if err != nil {
			return apperr.Internal(fmt.Errorf("encode admin permissions: %w", err))
		}
		const q = `
			INSERT INTO users.adminprofile (accountid, role, permissions)
			VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, q, accountID, p.Role, perms); err != nil {
			return apperr.Internal(fmt.Errorf("insert admin profile: %w", err))
		}

	default:
		return apperr.Internal(fmt.Errorf("unknown profile variant %T", profile))
	}
	return nil
}

// accountColumns is the canonical SELECT list for scanning an [Account].
const accountColumns = `id, email, name, passwordhash, usertype, status, createdat, updatedat`

// FindByEmail looks up an account by its normalized email.
func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE email = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

// FindByID looks up an account by primary key.
func (r *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// scanAccount maps a single account row, translating pgx.ErrNoRows into a 404.
func (r *PostgresAccountRepository) scanAccount(row pgx.Row) (*Account, error) {
	var account Account
	err := row.Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash,
		&account.Type, &account.Status, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Account")
		}
		return nil, apperr.Internal(fmt.Errorf("scan account: %w", err))
	}
	return &account, nil
}

// FindProfile loads the profile variant matching the account's discriminator.
func (r *PostgresAccountRepository) FindProfile(ctx context.Context, account *Account) (Profile, error) {
	switch account.Type {
	case sec.AccountTypeFarmer:
		const q = `
			SELECT accountid, farmname, location, description, rating, totalsales, isverified, status
			FROM users.farmerprofile WHERE accountid = $1`
		var p FarmerProfile
		err := r.pool.QueryRow(ctx, q, account.ID).Scan(
			&p.AccountID, &p.FarmName, &p.Location, &p.Description,
			&p.Rating, &p.TotalSales, &p.Verified, &p.Status,
		)
		if err != nil {
			return nil, profileScanError(err)
		}
		return p, nil

	case sec.AccountTypeBuyer:
		const q = `
			SELECT accountid, address, phone, status
			FROM users.buyerprofile WHERE accountid = $1`
		var p BuyerProfile
		err := r.pool.QueryRow(ctx, q, account.ID).Scan(&p.AccountID, &p.Address, &p.Phone, &p.Status)
		if err != nil {
			return nil, profileScanError(err)
		}
		return p, nil

	case sec.AccountTypeAdmin:
		const q = `
			SELECT accountid, role, permissions
			FROM users.adminprofile WHERE accountid = $1`
		var p AdminProfile
		var perms []byte
		err := r.pool.QueryRow(ctx, q, account.ID).Scan(&p.AccountID, &p.Role, &perms)
		if err != nil {
			return nil, profileScanError(err)
		}
		if err := json.Unmarshal(perms, &p.Permissions); err != nil {
			return nil, apperr.Internal(fmt.Errorf("decode admin permissions: %w", err))
		}
		return p, nil

	default:
		return nil, apperr.Internal(fmt.Errorf("unknown account type %q", account.Type))
	}
}

// ResolveIdentity maps an account ID to its live [sec.Identity].
//
// This is the hook the authentication middleware uses to confirm the token's
// subject still exists at request time.
func (r *PostgresAccountRepository) ResolveIdentity(ctx context.Context, accountID string) (*sec.Identity, error) {
	const q = `SELECT id, email, usertype FROM users.account WHERE id = $1`

	var identity sec.Identity
	err := r.pool.QueryRow(ctx, q, accountID).Scan(&identity.AccountID, &identity.Email, &identity.AccountType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Account")
		}
		return nil, apperr.Internal(fmt.Errorf("resolve identity: %w", err))
	}
	return &identity, nil
}

// profileScanError translates a profile row scan failure. A missing profile
// for an existing account indicates a provisioning bug, so it is internal
// rather than a 404.
func profileScanError(err error) error {
	if err == pgx.ErrNoRows {
		return apperr.Internal(fmt.Errorf("profile row missing for existing account"))
	}
	return apperr.Internal(fmt.Errorf("scan profile: %w", err))
}

// Copyright (c) 2026 FarmConnect. All rights reserved.

package product

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/dberr"
	"github.com/farmconnect/api/pkg/pagination"
)

// ErrSlugTaken is returned by Create when the slug unique index rejects the
// insert. The service retries once with a disambiguated slug.
var ErrSlugTaken = apperr.Conflict("Product slug already in use")

// PostgresRepository implements [Repository] backed by PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed product repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// productColumns is the canonical SELECT list for scanning a [Product].
const productColumns = `id, farmerid, name, slug, description, category, price, unit,
	imageurl, stock, isorganic, harvestdate, location, rating, reviewscount,
	status, createdat, updatedat`

// Create inserts a new product row.
func (r *PostgresRepository) Create(ctx context.Context, product *Product) error {
	const q = `
		INSERT INTO market.product
			(id, farmerid, name, slug, description, category, price, unit,
			 imageurl, stock, isorganic, harvestdate, location, rating, reviewscount,
			 status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, q,
		product.ID, product.FarmerID, product.Name, product.Slug, product.Description,
		product.Category, product.Price, product.Unit, product.ImageURL, product.Stock,
		product.Organic, product.HarvestDate, product.Location, product.Rating,
		product.ReviewsCount, product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return apperr.Internal(fmt.Errorf("insert product: %w", err))
	}
	return nil
}

// ListActive pages through ACTIVE products whose owning farm is itself ACTIVE,
// newest first.
func (r *PostgresRepository) ListActive(ctx context.Context, params pagination.Params) ([]Product, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM market.product p
		JOIN users.account a ON a.id = p.farmerid
		WHERE p.status = 'ACTIVE' AND a.status = 'ACTIVE'`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("count products: %w", err))
	}

	const listQuery = `
		SELECT p.id, p.farmerid, p.name, p.slug, p.description, p.category, p.price, p.unit,
		       p.imageurl, p.stock, p.isorganic, p.harvestdate, p.location, p.rating, p.reviewscount,
		       p.status, p.createdat, p.updatedat
		FROM market.product p
		JOIN users.account a ON a.id = p.farmerid
		WHERE p.status = 'ACTIVE' AND a.status = 'ACTIVE'
		ORDER BY p.createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, listQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("list products: %w", err))
	}
	defer rows.Close()

	products := make([]Product, 0, params.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("iterate products: %w", err))
	}

	return products, total, nil
}

// FindBySlug looks up a product by its URL slug.
func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM market.product WHERE slug = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, slug))
}

// scanProduct maps a single product row, translating pgx.ErrNoRows into a 404.
func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(
		&product.ID, &product.FarmerID, &product.Name, &product.Slug, &product.Description,
		&product.Category, &product.Price, &product.Unit, &product.ImageURL, &product.Stock,
		&product.Organic, &product.HarvestDate, &product.Location, &product.Rating,
		&product.ReviewsCount, &product.Status, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Product")
		}
		return nil, apperr.Internal(fmt.Errorf("scan product: %w", err))
	}
	return &product, nil
}

// Copyright (c) 2026 FarmConnect. All rights reserved.

package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/pkg/pagination"
)

// PostgresRepository implements [Repository] backed by PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed order repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Place writes the order, its lines, and the stock decrements in one
// transaction.
//
// # Stock Guard
//
// The decrement UPDATE carries the availability preconditions in its WHERE
// clause, so two concurrent orders for the last unit serialize on the row
// lock and the loser fails cleanly without overselling.
func (r *PostgresRepository) Place(ctx context.Context, order *Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal(fmt.Errorf("begin order tx: %w", err))
	}
	defer tx.Rollback(ctx)

	const reserve = `
		UPDATE market.product
		SET stock = stock - $2, updatedat = now()
		WHERE id = $1 AND status = 'ACTIVE' AND stock >= $2
		RETURNING name, farmerid, price`

	total := 0.0
	for i := range order.Items {
		item := &order.Items[i]
		err := tx.QueryRow(ctx, reserve, item.ProductID, item.Quantity).
			Scan(&item.ProductName, &item.FarmerID, &item.UnitPrice)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperr.Conflict("Product unavailable or insufficient stock")
			}
			return apperr.Internal(fmt.Errorf("reserve stock: %w", err))
		}
		total += item.UnitPrice * float64(item.Quantity)
	}
	order.Total = total

	const insertOrder = `
		INSERT INTO market.purchaseorder
			(id, buyerid, total, status, deliveryaddress, notes, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.Exec(ctx, insertOrder,
		order.ID, order.BuyerID, order.Total, order.Status,
		order.DeliveryAddress, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return apperr.Internal(fmt.Errorf("insert order: %w", err))
	}

	const insertItem = `
		INSERT INTO market.orderitem
			(orderid, productid, farmerid, productname, quantity, unitprice)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range order.Items {
		_, err := tx.Exec(ctx, insertItem,
			order.ID, item.ProductID, item.FarmerID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			return apperr.Internal(fmt.Errorf("insert order item: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(fmt.Errorf("commit order tx: %w", err))
	}
	return nil
}

// ListByBuyer pages through the buyer's own orders, newest first.
func (r *PostgresRepository) ListByBuyer(ctx context.Context, buyerID string, params pagination.Params) ([]Order, int, error) {
	const countQuery = `SELECT COUNT(*) FROM market.purchaseorder WHERE buyerid = $1`
	const listQuery = `
		SELECT id, buyerid, total, status, deliveryaddress, notes, createdat, updatedat
		FROM market.purchaseorder
		WHERE buyerid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	return r.listOrders(ctx, params, countQuery, listQuery, buyerID)
}

// ListByFarmer pages through orders holding at least one of the farmer's
// products, newest first.
func (r *PostgresRepository) ListByFarmer(ctx context.Context, farmerID string, params pagination.Params) ([]Order, int, error) {
	const countQuery = `
		SELECT COUNT(DISTINCT o.id)
		FROM market.purchaseorder o
		JOIN market.orderitem i ON i.orderid = o.id
		WHERE i.farmerid = $1`
	const listQuery = `
		SELECT DISTINCT o.id, o.buyerid, o.total, o.status, o.deliveryaddress, o.notes, o.createdat, o.updatedat
		FROM market.purchaseorder o
		JOIN market.orderitem i ON i.orderid = o.id
		WHERE i.farmerid = $1
		ORDER BY o.createdat DESC
		LIMIT $2 OFFSET $3`

	return r.listOrders(ctx, params, countQuery, listQuery, farmerID)
}

// ListAll pages through every order, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context, params pagination.Params) ([]Order, int, error) {
	const countQuery = `SELECT COUNT(*) FROM market.purchaseorder`
	const listQuery = `
		SELECT id, buyerid, total, status, deliveryaddress, notes, createdat, updatedat
		FROM market.purchaseorder
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	return r.listOrders(ctx, params, countQuery, listQuery)
}

// listOrders runs a count plus page query pair and hydrates the item lines
// for the returned page.
func (r *PostgresRepository) listOrders(ctx context.Context, params pagination.Params, countQuery, listQuery string, filterArgs ...any) ([]Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("count orders: %w", err))
	}

	args := append(filterArgs, params.Limit, params.Offset())
	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("list orders: %w", err))
	}
	defer rows.Close()

	orders := make([]Order, 0, params.Limit)
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.BuyerID, &o.Total, &o.Status,
			&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, 0, apperr.Internal(fmt.Errorf("scan order: %w", err))
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("iterate orders: %w", err))
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// loadItems attaches the line items to each order of the page.
func (r *PostgresRepository) loadItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[string]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for i := range orders {
		index[orders[i].ID] = &orders[i]
		ids = append(ids, orders[i].ID)
	}

	const q = `
		SELECT orderid, productid, farmerid, productname, quantity, unitprice
		FROM market.orderitem
		WHERE orderid = ANY($1)`

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return apperr.Internal(fmt.Errorf("load order items: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item Item
		err := rows.Scan(&orderID, &item.ProductID, &item.FarmerID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return apperr.Internal(fmt.Errorf("scan order item: %w", err))
		}
		if o, ok := index[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return apperr.Internal(fmt.Errorf("iterate order items: %w", err))
	}

	return nil
}

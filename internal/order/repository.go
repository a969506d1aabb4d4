package order

import (
	"context"
	"database/sql"
	"fmt"

	"mystore-be/internal/gateway"
	"mystore-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository is the per-identity order ledger. Append-only: no update or
// delete exists.
type Repository interface {
	// Append writes one confirmed order and its item snapshot as a single
	// transaction, assigning id, timestamp and status.
	Append(ctx context.Context, identityKey string, params NewOrderParams) (*OrderRecord, error)

	// ListFor returns the identity's orders, most recent first. Records of
	// other identities are never visible.
	ListFor(ctx context.Context, identityKey string) ([]*OrderRecord, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, identityKey string, params NewOrderParams) (*OrderRecord, error) {
	if identityKey == "" {
		return nil, ErrMissingIdentity
	}
	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	log := logger.FromCtx(ctx).With(
		zap.String("gateway_order_id", params.GatewayOrderID),
		zap.Int64("total", params.Total),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback()

	rec := &OrderRecord{
		IdentityKey:    identityKey,
		GatewayOrderID: params.GatewayOrderID,
		PaymentID:      params.PaymentID,
		Total:          params.Total,
		Currency:       gateway.Currency,
		Status:         StatusConfirmed,
		Items:          itemsFromSnapshot(params.Items),
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (identity_key, gateway_order_id, payment_id, total, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		identityKey, rec.GatewayOrderID, rec.PaymentID, rec.Total, rec.Currency, rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		log.Error("Failed to insert order", zap.Error(err))
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range rec.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			log.Error("Failed to insert order item", zap.Error(err))
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append tx: %w", err)
	}

	log.Info("Order appended to ledger", zap.Int64("order_id", rec.ID))
	return rec, nil
}

func (r *repository) ListFor(ctx context.Context, identityKey string) ([]*OrderRecord, error) {
	if identityKey == "" {
		return nil, ErrMissingIdentity
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, gateway_order_id, payment_id, total, currency, status, created_at
		FROM orders
		WHERE identity_key = $1
		ORDER BY created_at DESC, id DESC`,
		identityKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var records []*OrderRecord
	byID := make(map[int64]*OrderRecord)
	var ids []int64

	for rows.Next() {
		rec := &OrderRecord{IdentityKey: identityKey}
		if err := rows.Scan(&rec.ID, &rec.GatewayOrderID, &rec.PaymentID,
			&rec.Total, &rec.Currency, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		records = append(records, rec)
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*OrderRecord{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Name,
			&item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if rec, ok := byID[orderID]; ok {
			rec.Items = append(rec.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

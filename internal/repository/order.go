package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

const orderColumns = `id, currency, total, status, needs_processing,
	first_name, last_name, email, phone,
	billing_street, billing_building_number, billing_city, billing_postcode, billing_country,
	shipping_street, shipping_building_number, shipping_city, shipping_postcode, shipping_country,
	customer_registered_at, customer_order_count, delivery_type,
	created_at, updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	c := o.Customer
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (
			currency, total, status, needs_processing,
			first_name, last_name, email, phone,
			billing_street, billing_building_number, billing_city, billing_postcode, billing_country,
			shipping_street, shipping_building_number, shipping_city, shipping_postcode, shipping_country,
			customer_registered_at, customer_order_count, delivery_type
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING id, created_at, updated_at`,
		o.Currency, o.Total, o.Status, o.NeedsProcessing,
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Billing.Street, c.Billing.BuildingNumber, c.Billing.City, c.Billing.Postcode, c.Billing.Country,
		c.Shipping.Street, c.Shipping.BuildingNumber, c.Shipping.City, c.Shipping.Postcode, c.Shipping.Country,
		c.RegisteredSince, c.OrderCount, c.DeliveryType,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return o, nil
}

// UpdateStatus locks the order row, sets the status and, when note is not
// empty, records it in the same transaction.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, note string) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := lockOrder(ctx, tx, id); err != nil {
			return err
		}
		if err := setStatus(ctx, tx, id, status); err != nil {
			return err
		}
		if note == "" {
			return nil
		}
		return insertNote(ctx, tx, id, note)
	})
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return nil
}

// Transition locks the order row, reads its notes and applies what decide
// returns before the lock is released. Concurrent writers of the same order
// queue behind the lock, so decide always sees every committed note.
func (r *OrderRepository) Transition(ctx context.Context, id int64, decide domain.TransitionFunc) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		status, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		notes, err := queryNotes(ctx, tx, id)
		if err != nil {
			return err
		}

		t, err := decide(status, notes)
		if err != nil {
			return err
		}
		if t.Status != "" && t.Status != status {
			if err := setStatus(ctx, tx, id, t.Status); err != nil {
				return err
			}
		}
		for _, note := range t.Notes {
			if err := insertNote(ctx, tx, id, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("Transition: %w", err)
	}
	return nil
}

func lockOrder(ctx context.Context, tx *sql.Tx, id int64) (domain.OrderStatus, error) {
	var status domain.OrderStatus
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("lock order: %w", err)
	}
	return status, nil
}

func setStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.OrderStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Notes returns the note bodies of an order, oldest first.
func (r *OrderRepository) Notes(ctx context.Context, id int64) ([]string, error) {
	notes, err := queryNotes(ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("Notes: %w", err)
	}
	return notes, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryNotes(ctx context.Context, q querier, id int64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT content FROM order_notes WHERE order_id = $1 ORDER BY id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return notes, nil
}

func insertNote(ctx context.Context, tx *sql.Tx, orderID int64, content string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_notes (order_id, content) VALUES ($1, $2)`,
		orderID, content,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func scanOrder(s scanner) (*domain.Order, error) {
	var o domain.Order
	c := &o.Customer
	err := s.Scan(
		&o.ID, &o.Currency, &o.Total, &o.Status, &o.NeedsProcessing,
		&c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Billing.Street, &c.Billing.BuildingNumber, &c.Billing.City, &c.Billing.Postcode, &c.Billing.Country,
		&c.Shipping.Street, &c.Shipping.BuildingNumber, &c.Shipping.City, &c.Shipping.Postcode, &c.Shipping.Country,
		&c.RegisteredSince, &c.OrderCount, &c.DeliveryType,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

// OrderOption tweaks a seeded order before it is inserted.
type OrderOption func(*domain.Order)

func WithStatus(s domain.OrderStatus) OrderOption {
	return func(o *domain.Order) { o.Status = s }
}

func WithVirtual() OrderOption {
	return func(o *domain.Order) { o.NeedsProcessing = false }
}

func WithCustomer(c domain.Customer) OrderOption {
	return func(o *domain.Order) { o.Customer = c }
}

func SeedOrder(t *testing.T, db *sql.DB, currency, total string, opts ...OrderOption) *domain.Order {
	t.Helper()

	o := &domain.Order{
		Currency:        currency,
		Total:           decimal.RequireFromString(total),
		Status:          domain.OrderStatusPending,
		NeedsProcessing: true,
		Customer: domain.Customer{
			FirstName: "Jan",
			LastName:  "Kowalski",
			Email:     "jan@example.com",
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	err := db.QueryRow(
		`INSERT INTO orders (currency, total, status, needs_processing, first_name, last_name, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		o.Currency, o.Total, o.Status, o.NeedsProcessing,
		o.Customer.FirstName, o.Customer.LastName, o.Customer.Email,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		t.Fatalf("seed order %s %s: %v", total, currency, err)
	}
	return o
}

func SeedNote(t *testing.T, db *sql.DB, orderID int64, content string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO order_notes (order_id, content) VALUES ($1, $2)`, orderID, content)
	if err != nil {
		t.Fatalf("seed note for order %d: %v", orderID, err)
	}
}

func GetOrderStatus(t *testing.T, db *sql.DB, orderID int64) domain.OrderStatus {
	t.Helper()

	var status domain.OrderStatus
	if err := db.QueryRow(`SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status); err != nil {
		t.Fatalf("get order status %d: %v", orderID, err)
	}
	return status
}

func CountConfirmationEvents(t *testing.T, db *sql.DB, orderID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM confirmation_events WHERE order_id = $1`, orderID).Scan(&count)
	if err != nil {
		t.Fatalf("count confirmation events for order %d: %v", orderID, err)
	}
	return count
}

func Decimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

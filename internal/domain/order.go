package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// Both double-payment outcomes persist as OrderStatusDouble; the outcome
// keeps the virtual/physical distinction.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDouble     OrderStatus = "dp_double"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsPaid reports whether the status is one of the completed variants.
func (s OrderStatus) IsPaid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusCompleted, OrderStatusDouble:
		return true
	}
	return false
}

type Address struct {
	Street         string
	BuildingNumber string
	City           string
	Postcode       string
	Country        string
}

type Customer struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Billing         Address
	Shipping        Address
	RegisteredSince *time.Time
	OrderCount      int
	DeliveryType    string
}

type Order struct {
	ID              int64
	Currency        string
	Total           decimal.Decimal
	Status          OrderStatus
	NeedsProcessing bool
	Customer        Customer
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderNote struct {
	ID        int64
	OrderID   int64
	Content   string
	CreatedAt time.Time
}

// Transition is a change decided while the order row is locked. An empty
// Status keeps the current one; Notes are appended in order.
type Transition struct {
	Status OrderStatus
	Notes  []string
}

// TransitionFunc decides a Transition from the locked order's status and
// notes, oldest first.
type TransitionFunc func(status OrderStatus, notes []string) (Transition, error)

package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/repository"
	"github.com/josh-kwaku/dotpay-gateway/internal/testutil"
)

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	since := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	o := &domain.Order{
		Currency:        "PLN",
		Total:           decimal.RequireFromString("123.40"),
		Status:          domain.OrderStatusPending,
		NeedsProcessing: true,
		Customer: domain.Customer{
			FirstName:       "Anna",
			LastName:        "Nowak",
			Email:           "anna@example.com",
			Billing:         domain.Address{Street: "Prosta", BuildingNumber: "7", City: "Kraków", Postcode: "30-001", Country: "PL"},
			RegisteredSince: &since,
			OrderCount:      3,
			DeliveryType:    "COURIER",
		},
	}
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "PLN", got.Currency)
	assert.True(t, decimal.RequireFromString("123.4").Equal(got.Total))
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.True(t, got.NeedsProcessing)
	assert.Equal(t, "Kraków", got.Customer.Billing.City)
	assert.Equal(t, 3, got.Customer.OrderCount)
	require.NotNil(t, got.Customer.RegisteredSince)
	assert.True(t, since.Equal(*got.Customer.RegisteredSince))
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)

	_, err := repo.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_UpdateStatusWithNote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	o := testutil.SeedOrder(t, db, "PLN", "10.00")
	testutil.SeedNote(t, db, o.ID, "first")

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.OrderStatusProcessing, "second"))
	assert.Equal(t, domain.OrderStatusProcessing, testutil.GetOrderStatus(t, db, o.ID))

	notes, err := repo.Notes(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, notes)

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.OrderStatusDouble, ""))
	notes, err = repo.Notes(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)

	err := repo.UpdateStatus(context.Background(), 424242, domain.OrderStatusFailed, "note")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_Transition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	o := testutil.SeedOrder(t, db, "EUR", "5.00", testutil.WithStatus(domain.OrderStatusProcessing))
	testutil.SeedNote(t, db, o.ID, "paid")

	var seenStatus domain.OrderStatus
	var seenNotes []string
	err := repo.Transition(ctx, o.ID, func(status domain.OrderStatus, notes []string) (domain.Transition, error) {
		seenStatus, seenNotes = status, notes
		return domain.Transition{Notes: []string{"audit", "info"}}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusProcessing, seenStatus)
	assert.Equal(t, []string{"paid"}, seenNotes)
	notes, err := repo.Notes(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"paid", "audit", "info"}, notes)
	assert.Equal(t, domain.OrderStatusProcessing, testutil.GetOrderStatus(t, db, o.ID))

	err = repo.Transition(ctx, o.ID, func(domain.OrderStatus, []string) (domain.Transition, error) {
		return domain.Transition{Status: domain.OrderStatusDouble, Notes: []string{"escalation"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDouble, testutil.GetOrderStatus(t, db, o.ID))
}

func TestOrderRepository_Transition_DecideErrorRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	o := testutil.SeedOrder(t, db, "PLN", "5.00")
	err := repo.Transition(ctx, o.ID, func(domain.OrderStatus, []string) (domain.Transition, error) {
		return domain.Transition{}, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	notes, err := repo.Notes(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestOrderRepository_Transition_UnknownOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)

	called := false
	err := repo.Transition(context.Background(), 424242, func(domain.OrderStatus, []string) (domain.Transition, error) {
		called = true
		return domain.Transition{}, nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
}

// A writer holding the row lock delays Transition until it commits; the
// decision then sees the committed note.
func TestOrderRepository_Transition_WaitsForRowLock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	o := testutil.SeedOrder(t, db, "PLN", "5.00")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, o.ID)
	require.NoError(t, err)

	seen := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- repo.Transition(ctx, o.ID, func(_ domain.OrderStatus, notes []string) (domain.Transition, error) {
			seen <- notes
			return domain.Transition{}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	_, err = tx.ExecContext(ctx, `INSERT INTO order_notes (order_id, content) VALUES ($1, 'committed first')`, o.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.NoError(t, <-done)
	assert.Equal(t, []string{"committed first"}, <-seen)
}

func TestConfirmationEventRepository_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewConfirmationEventRepository(db)
	ctx := context.Background()

	o := testutil.SeedOrder(t, db, "PLN", "10.00")
	outcome := domain.OutcomeCompleted
	payload, err := json.Marshal(map[string]string{"operation_number": "M1234-56789"})
	require.NoError(t, err)

	event := &domain.ConfirmationEvent{
		ID:              uuid.New(),
		OrderID:         &o.ID,
		OperationNumber: "M1234-56789",
		OperationStatus: domain.OperationStatusCompleted,
		Outcome:         &outcome,
		Diagnostic:      "OK",
		RemoteAddr:      "195.150.9.37",
		Payload:         payload,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, event))

	orphan := &domain.ConfirmationEvent{
		ID:         uuid.New(),
		Diagnostic: "FAIL ORDER: not exist",
		Payload:    json.RawMessage(`{}`),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, orphan))

	events, err := repo.GetByOrderID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	require.NotNil(t, events[0].Outcome)
	assert.Equal(t, domain.OutcomeCompleted, *events[0].Outcome)
	assert.JSONEq(t, string(payload), string(events[0].Payload))
	assert.Equal(t, 1, testutil.CountConfirmationEvents(t, db, o.ID))
}

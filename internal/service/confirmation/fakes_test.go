package confirmation

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
)

type fakeOrders struct {
	mu      sync.Mutex
	orders  map[int64]*domain.Order
	notes   map[int64][]string
	writes  int
	failGet error

	beforeLock func()
}

func newFakeOrders(orders ...*domain.Order) *fakeOrders {
	f := &fakeOrders{orders: map[int64]*domain.Order{}, notes: map[int64][]string{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.writes++
	o.Status = status
	if note != "" {
		f.notes[id] = append(f.notes[id], note)
	}
	return nil
}

// Transition holds the store mutex for the whole read-decide-write step,
// like the row lock in Postgres. beforeLock runs first, outside the mutex.
func (f *fakeOrders) Transition(_ context.Context, id int64, decide domain.TransitionFunc) error {
	if f.beforeLock != nil {
		f.beforeLock()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	t, err := decide(o.Status, append([]string(nil), f.notes[id]...))
	if err != nil {
		return err
	}
	if t.Status == "" && len(t.Notes) == 0 {
		return nil
	}
	f.writes++
	if t.Status != "" {
		o.Status = t.Status
	}
	f.notes[id] = append(f.notes[id], t.Notes...)
	return nil
}

func (f *fakeOrders) status(id int64) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}

func (f *fakeOrders) noteCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notes[id])
}

type fakeEvents struct {
	events []*domain.ConfirmationEvent
	err    error
}

func (f *fakeEvents) Create(_ context.Context, e *domain.ConfirmationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) last() *domain.ConfirmationEvent {
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

type fakeChannels map[string][2]string

func (f fakeChannels) ChannelName(_ context.Context, id string) (string, string) {
	v := f[id]
	return v[0], v[1]
}

type fakeNotifier struct {
	completed []int64
}

func (f *fakeNotifier) PaymentCompleted(_ context.Context, orderID int64) {
	f.completed = append(f.completed, orderID)
}

type fakeAccounts struct {
	valid bool
	err   error
	calls int
}

func (f *fakeAccounts) AccountIsValid(context.Context, dotpay.Credentials) (bool, error) {
	f.calls++
	return f.valid, f.err
}

type fakeMetrics struct {
	outcomes []string
	rejected []string
	doubles  int
}

func (f *fakeMetrics) Outcome(o string)  { f.outcomes = append(f.outcomes, o) }
func (f *fakeMetrics) Rejected(r string) { f.rejected = append(f.rejected, r) }
func (f *fakeMetrics) Double()           { f.doubles++ }
func (f *fakeMetrics) Observe(float64)   {}

var errStoreDown = errors.New("connection refused")

func testOrder(id int64, needsProcessing bool) *domain.Order {
	return &domain.Order{
		ID:              id,
		Currency:        "PLN",
		Total:           decimal.RequireFromString("10.00"),
		Status:          domain.OrderStatusPending,
		NeedsProcessing: needsProcessing,
	}
}

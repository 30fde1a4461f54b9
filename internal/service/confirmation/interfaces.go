package confirmation

import (
	"context"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
)

type orderStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, note string) error
	Transition(ctx context.Context, id int64, decide domain.TransitionFunc) error
}

type eventStore interface {
	Create(ctx context.Context, event *domain.ConfirmationEvent) error
}

type channelNamer interface {
	ChannelName(ctx context.Context, id string) (name, logo string)
}

type notifier interface {
	PaymentCompleted(ctx context.Context, orderID int64)
}

type accountChecker interface {
	AccountIsValid(ctx context.Context, creds dotpay.Credentials) (bool, error)
}

type recorder interface {
	Outcome(outcome string)
	Rejected(reason string)
	Double()
	Observe(seconds float64)
}

type originGuard interface {
	IsTrusted(remoteAddr, clientIP string) bool
	IsOffice(remoteAddr, clientIP, method string) bool
	ProxyBypass() bool
}

// PostConfirmHook may veto the final acknowledgment of an applied
// confirmation. The order mutation stays in place either way.
type PostConfirmHook func(ctx context.Context, order *domain.Order) bool

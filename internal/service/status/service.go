package status

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/session"
)

// Tokens returned to the polling page.
const (
	TokenPaid     = "1"
	TokenPending  = "0"
	TokenRejected = "-1"
	TokenError    = "ERROR"
)

type orderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

type sessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*session.Checkout, error)
	ForgetOrder(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	orders   orderReader
	sessions sessionStore
}

func NewService(orders orderReader, sessions sessionStore) *Service {
	return &Service{orders: orders, sessions: sessions}
}

// Check maps the status of the session's order to a polling token. Terminal
// outcomes release the order from the session.
func (s *Service) Check(ctx context.Context, sessionID uuid.UUID) string {
	log := logging.FromContext(ctx)

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			log.Error("failed to load checkout session", "error", err)
		}
		return TokenError
	}
	if sess.OrderID <= 0 {
		return TokenError
	}

	order, err := s.orders.GetByID(ctx, sess.OrderID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("failed to load order for status check", "order_id", sess.OrderID, "error", err)
		}
		return TokenError
	}

	token := Token(order.Status)
	if token == TokenPaid || token == TokenRejected {
		if err := s.sessions.ForgetOrder(ctx, sessionID); err != nil {
			log.Warn("failed to forget session order", "order_id", order.ID, "error", err)
		}
	}
	return token
}

func Token(s domain.OrderStatus) string {
	switch s {
	case domain.OrderStatusProcessing, domain.OrderStatusCompleted, domain.OrderStatusDouble:
		return TokenPaid
	case domain.OrderStatusFailed:
		return TokenRejected
	case domain.OrderStatusPending:
		return TokenPending
	default:
		return TokenError
	}
}

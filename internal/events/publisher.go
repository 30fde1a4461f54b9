package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

const (
	SubjectPendingToQuote = "order.pending_to_quote"
	SubjectPaid           = "order.paid"
)

type OrderEvent struct {
	OrderID    int64     `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher announces completed payments to downstream subscribers. A
// Publisher without a connection drops every event.
type Publisher struct {
	conn   conn
	prefix string
}

// Connect dials NATS. An empty url yields a disabled Publisher.
func Connect(url, prefix string) (*Publisher, func(), error) {
	if url == "" {
		slog.Info("nats url not set, completion events disabled")
		return &Publisher{prefix: prefix}, func() {}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("dotpay-gateway"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("events.Connect: %w", err)
	}

	return &Publisher{conn: nc, prefix: prefix}, func() {
		if err := nc.Drain(); err != nil {
			slog.Error("nats drain failed", "error", err)
		}
	}, nil
}

func (p *Publisher) subject(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// PaymentCompleted emits the pending-to-quote and paid events for an order.
// Failures are logged and otherwise ignored.
func (p *Publisher) PaymentCompleted(ctx context.Context, orderID int64) {
	if p.conn == nil {
		return
	}
	log := logging.FromContext(ctx)

	data, err := json.Marshal(OrderEvent{OrderID: orderID, OccurredAt: time.Now().UTC()})
	if err != nil {
		log.Error("failed to marshal order event", "order_id", orderID, "error", err)
		return
	}

	for _, name := range []string{SubjectPendingToQuote, SubjectPaid} {
		subject := p.subject(name)
		if err := p.conn.Publish(subject, data); err != nil {
			log.Error("failed to publish order event", "subject", subject, "order_id", orderID, "error", err)
			continue
		}
		log.Debug("order event published", "subject", subject, "order_id", orderID)
	}
}

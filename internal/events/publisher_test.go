package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs    []published
	failFor string
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if subject == f.failFor {
		return errors.New("nats: connection closed")
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func TestPaymentCompleted_PublishesBothSubjects(t *testing.T) {
	fc := &fakeConn{}
	p := &Publisher{conn: fc, prefix: "shop"}

	p.PaymentCompleted(context.Background(), 42)

	require.Len(t, fc.msgs, 2)
	assert.Equal(t, "shop.order.pending_to_quote", fc.msgs[0].subject)
	assert.Equal(t, "shop.order.paid", fc.msgs[1].subject)

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(fc.msgs[1].data, &ev))
	assert.Equal(t, int64(42), ev.OrderID)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestPaymentCompleted_ContinuesAfterFailure(t *testing.T) {
	fc := &fakeConn{failFor: "order.pending_to_quote"}
	p := &Publisher{conn: fc}

	p.PaymentCompleted(context.Background(), 7)

	require.Len(t, fc.msgs, 1)
	assert.Equal(t, "order.paid", fc.msgs[0].subject)
}

func TestConnect_EmptyURLDisables(t *testing.T) {
	p, closeFn, err := Connect("", "shop")
	require.NoError(t, err)
	defer closeFn()

	assert.NotPanics(t, func() { p.PaymentCompleted(context.Background(), 1) })
}

package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

const (
	fieldOrderID     = "order_id"
	fieldChannel     = "channel"
	fieldProductName = "product_name"
)

// Checkout is the per-buyer context carried between starting a payment,
// rendering the redirect form and polling the status.
type Checkout struct {
	OrderID     int64
	Channel     int
	ProductName string
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id uuid.UUID) string {
	return "dotpay:session:" + id.String()
}

// Get returns domain.ErrSessionNotFound when nothing is remembered for id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	values, err := s.rdb.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("Get: %w", domain.ErrSessionNotFound)
	}

	var c Checkout
	if v, ok := values[fieldOrderID]; ok {
		c.OrderID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := values[fieldChannel]; ok {
		c.Channel, _ = strconv.Atoi(v)
	}
	c.ProductName = values[fieldProductName]
	return &c, nil
}

// Remember replaces the session's checkout with c and refreshes the expiry.
// Zero fields are removed so a later checkout never inherits an earlier one's
// channel or product name.
func (s *Store) Remember(ctx context.Context, id uuid.UUID, c Checkout) error {
	fields := map[string]any{}
	var cleared []string
	if c.OrderID > 0 {
		fields[fieldOrderID] = c.OrderID
	} else {
		cleared = append(cleared, fieldOrderID)
	}
	if c.Channel > 0 {
		fields[fieldChannel] = c.Channel
	} else {
		cleared = append(cleared, fieldChannel)
	}
	if c.ProductName != "" {
		fields[fieldProductName] = c.ProductName
	} else {
		cleared = append(cleared, fieldProductName)
	}

	k := key(id)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(cleared) > 0 {
			p.HDel(ctx, k, cleared...)
		}
		if len(fields) > 0 {
			p.HSet(ctx, k, fields)
			p.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("Remember: %w", err)
	}
	return nil
}

func (s *Store) ForgetOrder(ctx context.Context, id uuid.UUID) error {
	return s.forget(ctx, id, fieldOrderID)
}

func (s *Store) ForgetChannel(ctx context.Context, id uuid.UUID) error {
	return s.forget(ctx, id, fieldChannel)
}

func (s *Store) ForgetProductName(ctx context.Context, id uuid.UUID) error {
	return s.forget(ctx, id, fieldProductName)
}

func (s *Store) forget(ctx context.Context, id uuid.UUID, field string) error {
	if err := s.rdb.HDel(ctx, key(id), field).Err(); err != nil {
		return fmt.Errorf("forget %s: %w", field, err)
	}
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

const catalogKey = "dotpay:channels"

// ChannelCatalog caches the processor channel list so confirmations can name
// the channel without calling the processor API.
type ChannelCatalog struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewChannelCatalog(rdb *redis.Client, ttl time.Duration) *ChannelCatalog {
	return &ChannelCatalog{rdb: rdb, ttl: ttl}
}

func (c *ChannelCatalog) Put(ctx context.Context, channels []dotpay.Channel) error {
	if len(channels) == 0 {
		return nil
	}

	fields := make(map[string]any, len(channels))
	for _, ch := range channels {
		data, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("Put: marshal channel %d: %w", ch.ID, err)
		}
		fields[strconv.Itoa(ch.ID)] = data
	}

	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, catalogKey, fields)
		p.Expire(ctx, catalogKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("Put: %w", err)
	}
	return nil
}

func (c *ChannelCatalog) Lookup(ctx context.Context, id string) (dotpay.Channel, bool, error) {
	data, err := c.rdb.HGet(ctx, catalogKey, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return dotpay.Channel{}, false, nil
	}
	if err != nil {
		return dotpay.Channel{}, false, fmt.Errorf("Lookup: %w", err)
	}

	var ch dotpay.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return dotpay.Channel{}, false, fmt.Errorf("Lookup: unmarshal: %w", err)
	}
	return ch, true, nil
}

// ChannelName resolves the display name and logo of a channel id. A cache
// miss or error leaves both empty; the note then carries only the id.
func (c *ChannelCatalog) ChannelName(ctx context.Context, id string) (name, logo string) {
	ch, ok, err := c.Lookup(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("channel catalog lookup failed", "channel", id, "error", err)
		return "", ""
	}
	if !ok {
		return "", ""
	}
	return ch.Name, ch.Logo
}

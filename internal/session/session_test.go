package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/session"
	"github.com/josh-kwaku/dotpay-gateway/internal/testutil"
)

func TestStore_RememberAndForget(t *testing.T) {
	rdb := testutil.SetupTestRedis(t)
	store := session.NewStore(rdb, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	_, err := store.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.Remember(ctx, id, session.Checkout{OrderID: 42, Channel: 73, ProductName: "Mug"}))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.Checkout{OrderID: 42, Channel: 73, ProductName: "Mug"}, *got)

	ttl, err := rdb.TTL(ctx, "dotpay:session:"+id.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.ForgetChannel(ctx, id))
	require.NoError(t, store.ForgetProductName(ctx, id))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.Checkout{OrderID: 42}, *got)

	require.NoError(t, store.ForgetOrder(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_RememberReplacesPreviousCheckout(t *testing.T) {
	rdb := testutil.SetupTestRedis(t)
	store := session.NewStore(rdb, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.Remember(ctx, id, session.Checkout{OrderID: 7, Channel: 73, ProductName: "Kubek"}))
	require.NoError(t, store.Remember(ctx, id, session.Checkout{OrderID: 8}))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.OrderID)
	assert.Zero(t, got.Channel)
	assert.Empty(t, got.ProductName)
}

func TestChannelCatalog(t *testing.T) {
	rdb := testutil.SetupTestRedis(t)
	catalog := session.NewChannelCatalog(rdb, time.Hour)
	ctx := context.Background()

	name, logo := catalog.ChannelName(ctx, "73")
	assert.Empty(t, name)
	assert.Empty(t, logo)

	require.NoError(t, catalog.Put(ctx, []dotpay.Channel{
		{ID: 73, Name: "BLIK", Logo: "https://ssl.dotpay.pl/blik.png", Group: "blik"},
		{ID: 11, Name: "Cash", Group: dotpay.GroupCash},
	}))

	name, logo = catalog.ChannelName(ctx, "73")
	assert.Equal(t, "BLIK", name)
	assert.Equal(t, "https://ssl.dotpay.pl/blik.png", logo)

	ch, ok, err := catalog.Lookup(ctx, "11")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dotpay.GroupCash, ch.Group)
}

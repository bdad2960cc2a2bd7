package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func TestPublish_DispatchesToSubscribedType(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		received = append(received, e)
		return nil
	}))
	require.NoError(t, err)

	event := shared.NewXPChangedEvent("user1", 100, 0, 100, 1, false, "training")
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventXPChanged, received[0].EventType())
	assert.Equal(t, "user1", received[0].AggregateID())
}

func TestPublish_IgnoresOtherTypes(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	calls := 0
	require.NoError(t, bus.Subscribe(shared.EventLevelUp, shared.EventHandlerFunc(func(e shared.Event) error {
		calls++
		return nil
	})))

	require.NoError(t, bus.Publish(shared.NewXPChangedEvent("user1", 50, 0, 50, 1, false, "training")))
	assert.Zero(t, calls)
}

func TestPublish_GlobalSubscriberSeesEverything(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var types []shared.EventType
	require.NoError(t, bus.SubscribeAll(shared.EventHandlerFunc(func(e shared.Event) error {
		types = append(types, e.EventType())
		return nil
	})))

	require.NoError(t, bus.Publish(shared.NewXPChangedEvent("u", 10, 0, 10, 1, false, "bonus")))
	require.NoError(t, bus.Publish(shared.NewLeaderboardRebuiltEvent(42)))

	assert.Equal(t, []shared.EventType{shared.EventXPChanged, shared.EventLeaderboardRebuilt}, types)
}

func TestPublish_HandlerErrorDoesNotBlockPeers(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		return errors.New("boom")
	})))

	second := 0
	require.NoError(t, bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		second++
		return nil
	})))

	// Publish succeeds and still reaches the healthy subscriber.
	require.NoError(t, bus.Publish(shared.NewXPChangedEvent("u", 10, 0, 10, 1, false, "bonus")))
	assert.Equal(t, 1, second)
}

func TestPublish_AsyncModeRunsHandlers(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = true
	cfg.WorkerPoolSize = 2
	bus := NewInMemoryEventBus(cfg)
	defer bus.Close()

	var mu sync.Mutex
	handled := 0
	require.NoError(t, bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(shared.NewXPChangedEvent("u", 10, 0, 10, 1, false, "bonus")))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return handled == 5
	}, time.Second, 5*time.Millisecond)
}

func TestBus_ClosedRefusesOperations(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewLeaderboardRebuiltEvent(1))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error { return nil }))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestMetrics_TracksExecutions(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		return nil
	})))
	require.NoError(t, bus.Subscribe(shared.EventXPChanged, shared.EventHandlerFunc(func(e shared.Event) error {
		return errors.New("boom")
	})))

	require.NoError(t, bus.Publish(shared.NewXPChangedEvent("u", 10, 0, 10, 1, false, "bonus")))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, int64(2), snap.TotalHandlerExecs)
	assert.InDelta(t, 0.5, snap.HandlerSuccessRate, 0.001)
}

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []ResourceChanged
	unsubscribe := bus.Subscribe(func(ev ResourceChanged) { got = append(got, ev) })

	bus.Publish(ResourceChanged{Kind: KindSuperAdmin, ParentID: "h1", Action: ActionCreated})
	require.Len(t, got, 1)
	assert.Equal(t, "h1", got[0].ParentID)
	assert.False(t, got[0].Timestamp.IsZero())

	unsubscribe()
	unsubscribe()
	bus.Publish(ResourceChanged{Kind: KindHospital})
	assert.Len(t, got, 1)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestBus_PanickingSubscriberIsIsolated(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(func(ResourceChanged) { panic("boom") })
	bus.Subscribe(func(ResourceChanged) { calls++ })

	assert.NotPanics(t, func() { bus.Publish(ResourceChanged{Kind: KindBranch}) })
	assert.Equal(t, 1, calls)
}

package server

import (
	"socialfeed/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcasterDeliversToClients(t *testing.T) {
	b := NewBroadcaster()
	a := make(chan models.InteractionEvent, 1)
	c := make(chan models.InteractionEvent, 1)
	b.AddClient("a", a)
	b.AddClient("c", c)
	assert.Equal(t, 2, b.ClientCount())

	event := models.InteractionEvent{Kind: models.InteractionShare, PostId: "p001"}
	b.BroadcastInteraction(event)

	assert.Equal(t, event, <-a)
	assert.Equal(t, event, <-c)
}

func TestBroadcasterSkipsFullClients(t *testing.T) {
	b := NewBroadcaster()
	full := make(chan models.InteractionEvent) // unbuffered, nobody reading
	ok := make(chan models.InteractionEvent, 1)
	b.AddClient("full", full)
	b.AddClient("ok", ok)

	b.BroadcastInteraction(models.InteractionEvent{PostId: "p002"})
	assert.Equal(t, "p002", (<-ok).PostId)
}

func TestBroadcasterRemoveAndShutdown(t *testing.T) {
	b := NewBroadcaster()
	a := make(chan models.InteractionEvent, 1)
	c := make(chan models.InteractionEvent, 1)
	b.AddClient("a", a)
	b.AddClient("c", c)

	b.RemoveClient("a")
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, b.ClientCount())

	// Removing an unknown client is a no-op
	b.RemoveClient("unknown")

	b.Shutdown()
	_, open = <-c
	assert.False(t, open)
	assert.Equal(t, 0, b.ClientCount())

	// Streams clean up after shutdown without closing twice
	assert.NotPanics(t, func() { b.RemoveClient("c") })
}

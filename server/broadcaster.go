package server

import (
	"socialfeed/models"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Broadcaster fans interaction events out to SSE clients
type Broadcaster struct {
	sync.RWMutex
	clients map[string]chan models.InteractionEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]chan models.InteractionEvent),
	}
}

// BroadcastInteraction sends the event to every client without blocking.
// Clients with a full channel miss the event.
func (b *Broadcaster) BroadcastInteraction(event models.InteractionEvent) {
	b.RLock()
	defer b.RUnlock()

	for id, client := range b.clients {
		select {
		case client <- event: // Non-blocking send
		default:
			log.Warnf("Client channel full, skipping interaction for client: %v", id)
		}
	}
}

// Function to add a client to the broadcaster
func (b *Broadcaster) AddClient(key string, client chan models.InteractionEvent) {
	b.Lock()
	defer b.Unlock()
	b.clients[key] = client
	sseClients.Set(float64(len(b.clients)))
	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Adding client to broadcaster")
}

// Function to remove a client from the broadcaster
func (b *Broadcaster) RemoveClient(key string) {
	b.Lock()
	defer b.Unlock()

	if client, ok := b.clients[key]; ok {
		close(client)
		delete(b.clients, key)
	}
	sseClients.Set(float64(len(b.clients)))

	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Removed client from broadcaster")
}

func (b *Broadcaster) ClientCount() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.clients)
}

// Shutdown closes every client channel, ending their streams
func (b *Broadcaster) Shutdown() {
	log.Info("Shutting down broadcaster")
	b.Lock()
	defer b.Unlock()
	for _, client := range b.clients {
		close(client)
	}
	b.clients = make(map[string]chan models.InteractionEvent)
	sseClients.Set(0)
}

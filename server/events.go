package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"socialfeed/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const ssePingInterval = 5 * time.Second

func (h *handlers) removeEventClient(c *fiber.Ctx) error {
	key := c.Query("key", "")
	h.config.Broadcaster.RemoveClient(key)
	return c.Status(200).SendString("OK")
}

// streamEvents streams interaction events as server sent events. The first
// event carries the client key used to unsubscribe via DELETE /events.
func (h *handlers) streamEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	bc := h.config.Broadcaster

	// Unique client key
	key := uuid.New().String()
	events := make(chan models.InteractionEvent, 10) // Buffered channel
	bc.AddClient(key, events)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		aliveChan := time.NewTicker(ssePingInterval)
		defer aliveChan.Stop()
		defer func() {
			log.Infof("Cleaning up SSE stream for client: %s", key)
			bc.RemoveClient(key)
		}()

		// Send initial event with client key
		fmt.Fprintf(w, "event: init\ndata: %s\n\n", key)
		if err := w.Flush(); err != nil {
			log.Errorf("Failed to send init event: %v", err)
			return
		}

		for {
			select {
			case <-aliveChan.C:
				// Send keep-alive pings
				if _, err := fmt.Fprintf(w, "event: ping\ndata: \n\n"); err != nil {
					log.Warnf("Failed to send ping to client %s: %v", key, err)
					return
				}
				if err := w.Flush(); err != nil {
					log.Warnf("Failed to flush ping for client %s: %v", key, err)
					return
				}

			case event, ok := <-events:
				if !ok {
					log.Warnf("Interaction channel closed for client %s", key)
					return
				}
				if err := writeEvent(w, event); err != nil {
					log.Warnf("Failed to send interaction to client %s: %v", key, err)
					return
				}
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event models.InteractionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: interaction\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

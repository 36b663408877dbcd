// Package watch tails the interaction event stream of a running socialfeed
// server and reconnects with exponential backoff when the stream drops.
package watch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"socialfeed/models"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const maxEventSize = 1024 * 1024 // 1MB

// Config holds configuration for the stream connection
type Config struct {
	// Urls is a list of event stream endpoints to try in order
	// e.g. ["http://localhost:3000/events"]
	Urls      []string
	UserAgent string
	Client    *http.Client

	// Backoff bounds, defaults are 100ms and 30s
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (c Config) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	b.MaxInterval = 30 * time.Second
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	b.Multiplier = 1.5
	b.MaxElapsedTime = 0 // Never stop retrying
	b.Reset()
	return b
}

// Watch streams interaction events into out until ctx is cancelled. It
// always returns a non-nil error, ctx.Err() on cancellation.
func Watch(ctx context.Context, config Config, out chan<- models.InteractionEvent) error {
	if len(config.Urls) == 0 {
		return fmt.Errorf("no urls provided in config")
	}

	client := config.Client
	if client == nil {
		// No timeout, the stream is long lived
		client = &http.Client{}
	}

	b := config.newBackOff()
	currentIdx := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := config.Urls[currentIdx]
		connected, err := stream(ctx, client, current, config.UserAgent, out)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if connected {
			// Reset backoff after a successful connection
			b.Reset()
		}

		if err != nil {
			log.Errorf("Error streaming from %s: %s", current, err)

			// Try next url
			nextIdx := (currentIdx + 1) % len(config.Urls)
			if nextIdx != currentIdx {
				log.Infof("Switching from %s to %s", current, config.Urls[nextIdx])
				currentIdx = nextIdx
			}
		} else {
			log.Infof("Stream from %s ended, reconnecting", current)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.NextBackOff()):
		}
	}
}

// stream runs a single connection. connected reports whether the server
// accepted the subscription.
func stream(ctx context.Context, client *http.Client, url, userAgent string, out chan<- models.InteractionEvent) (connected bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	log.WithFields(log.Fields{
		"url": url,
	}).Info("Subscribed to interaction stream")

	return true, ReadEvents(ctx, resp.Body, out)
}

// ReadEvents parses server sent events from r and forwards interaction
// events to out. It returns nil when r is exhausted.
func ReadEvents(ctx context.Context, r io.Reader, out chan<- models.InteractionEvent) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxEventSize)

	var name string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := dispatch(ctx, name, strings.Join(data, "\n"), out); err != nil {
				return err
			}
			name, data = "", nil
		case strings.HasPrefix(line, ":"):
			// Comment line
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	return scanner.Err()
}

func dispatch(ctx context.Context, name, data string, out chan<- models.InteractionEvent) error {
	switch name {
	case "init":
		log.WithFields(log.Fields{
			"key": data,
		}).Debug("Received client key")
	case "ping", "":
	case "interaction":
		var event models.InteractionEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			log.Warnf("Skipping malformed interaction event: %v", err)
			return nil
		}
		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		log.Debugf("Ignoring unknown event %q", name)
	}
	return nil
}

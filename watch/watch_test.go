package watch_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"socialfeed/models"
	"socialfeed/watch"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty stream",
			input:    "",
			expected: nil,
		},
		{
			name:     "init and ping only",
			input:    "event: init\ndata: abc\n\nevent: ping\ndata: \n\n",
			expected: nil,
		},
		{
			name: "interactions between pings",
			input: "event: init\ndata: abc\n\n" +
				"event: interaction\ndata: {\"kind\":\"like\",\"post_id\":\"p001\"}\n\n" +
				": comment\n\n" +
				"event: ping\ndata: \n\n" +
				"event: interaction\ndata: {\"kind\":\"share\",\"post_id\":\"p002\"}\n\n",
			expected: []string{"like:p001", "share:p002"},
		},
		{
			name: "malformed interaction is skipped",
			input: "event: interaction\ndata: {not json\n\n" +
				"event: interaction\ndata: {\"kind\":\"comment\",\"post_id\":\"p003\"}\n\n",
			expected: []string{"comment:p003"},
		},
		{
			name:     "unterminated event is dropped",
			input:    "event: interaction\ndata: {\"kind\":\"like\",\"post_id\":\"p004\"}\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make(chan models.InteractionEvent, 10)
			err := watch.ReadEvents(context.Background(), strings.NewReader(tt.input), out)
			require.NoError(t, err)
			close(out)

			var got []string
			for event := range out {
				got = append(got, fmt.Sprintf("%s:%s", event.Kind, event.PostId))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWatchRequiresUrls(t *testing.T) {
	err := watch.Watch(context.Background(), watch.Config{}, make(chan models.InteractionEvent))
	assert.Error(t, err)
}

func TestWatchReconnects(t *testing.T) {
	var connections atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := connections.Add(1)
		if n == 1 {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: init\ndata: key-%d\n\n", n)
		fmt.Fprintf(w, "event: interaction\ndata: {\"kind\":\"like\",\"post_id\":\"p%03d\",\"user_id\":\"u01\"}\n\n", n)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan models.InteractionEvent)
	done := make(chan error, 1)
	go func() {
		done <- watch.Watch(ctx, watch.Config{
			Urls:            []string{srv.URL + "/events"},
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
		}, out)
	}()

	var got []string
	for len(got) < 2 {
		select {
		case event := <-out:
			got = append(got, event.PostId)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Equal(t, []string{"p002", "p003"}, got)
}

func TestWatchFailsOverToNextUrl(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "event: interaction\ndata: {\"kind\":\"share\",\"post_id\":\"p010\"}\n\n")
	}))
	defer good.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan models.InteractionEvent)
	done := make(chan error, 1)
	go func() {
		done <- watch.Watch(ctx, watch.Config{
			// Nothing listens on the first url
			Urls:            []string{"http://127.0.0.1:1/events", good.URL},
			InitialInterval: 5 * time.Millisecond,
		}, out)
	}()

	select {
	case event := <-out:
		assert.Equal(t, "p010", event.PostId)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for failover")
	}
	cancel()
	<-done
}

package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHubPublishSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub()
	a, cancelA := hub.Subscribe(4)
	b, cancelB := hub.Subscribe(4)
	assert.Equal(t, 2, hub.Len())

	ev := Event{Type: EventApproved, Origin: review.OriginNewProposal, ID: "p-1", Status: review.StatusApproved}
	hub.Publish(ev)
	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)

	cancelA()
	cancelA()
	_, ok := <-a
	assert.False(t, ok)
	assert.Equal(t, 1, hub.Len())

	hub.Close()
	_, ok = <-b
	assert.False(t, ok)
	cancelB()
	assert.Equal(t, 0, hub.Len())

	late, _ := hub.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(Event{Type: EventProgress, ID: "1"})
	hub.Publish(Event{Type: EventProgress, ID: "2"})

	got := <-ch
	assert.Equal(t, "1", got.ID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestServeStreamsEvents(t *testing.T) {
	hub := NewHub()
	served := make(chan struct{})
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
		close(served)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(Event{Type: EventRejected, Origin: review.OriginProjectRequest, ID: "r-9", Status: review.StatusRejected})

	var got Event
	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "r-9", got.ID)
	assert.Equal(t, review.StatusRejected, got.Status)

	require.NoError(t, client.Close())
	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after client closed")
	}
	assert.Equal(t, 0, hub.Len())
}

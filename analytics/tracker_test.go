package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/api/session"
	"shopfront/api/storage"
)

// collectorStub records every payload POSTed to it.
type collectorStub struct {
	mu       sync.Mutex
	payloads []map[string]interface{}
	status   int
}

func (s *collectorStub) Payloads() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, len(s.payloads))
	copy(out, s.payloads)
	return out
}

func newCollectorStub() (*collectorStub, *httptest.Server) {
	stub := &collectorStub{status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			stub.mu.Lock()
			stub.payloads = append(stub.payloads, payload)
			stub.mu.Unlock()
		}
		w.WriteHeader(stub.status)
	}))
	return stub, srv
}

func seededProvider(id string) *session.Provider {
	store := storage.NewMemory()
	store.Set(session.Key, id)
	return session.NewProvider(store)
}

func TestTrackSubmitsMergedEnvelope(t *testing.T) {
	stub, srv := newCollectorStub()
	defer srv.Close()

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"),
		WithPage("http://localhost:3000/store", "test-agent"))

	result := tracker.Track(context.Background(), Fields{
		"eventType": "click",
		"action":    "add_to_cart",
		"productId": "7",
	})

	assert.Equal(t, Delivered, result.Status)
	require.Len(t, stub.Payloads(), 1)

	payload := stub.Payloads()[0]
	assert.Equal(t, "session_1_abc", payload["sessionId"])
	assert.Equal(t, "click", payload["eventType"])
	assert.Equal(t, "add_to_cart", payload["action"])
	assert.Equal(t, "7", payload["productId"])
	assert.NotEmpty(t, payload["timestamp"])
	assert.NotEmpty(t, payload["eventId"])
	assert.Equal(t, "http://localhost:3000/store", payload["url"])
	assert.Equal(t, "test-agent", payload["userAgent"])
}

func TestTrackCallerFieldsWinOnCollision(t *testing.T) {
	stub, srv := newCollectorStub()
	defer srv.Close()

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"),
		WithPage("http://localhost:3000/store", "test-agent"))

	result := tracker.Track(context.Background(), Fields{
		"eventType": "page_view",
		"url":       "http://localhost:3000/store/cart",
		"timestamp": "2025-06-01T00:00:00Z",
	})

	assert.Equal(t, Delivered, result.Status)
	require.Len(t, stub.Payloads(), 1)
	assert.Equal(t, "http://localhost:3000/store/cart", stub.Payloads()[0]["url"])
	assert.Equal(t, "2025-06-01T00:00:00Z", stub.Payloads()[0]["timestamp"])
}

func TestTrackSuppressedWithoutSession(t *testing.T) {
	stub, srv := newCollectorStub()
	defer srv.Close()

	// A nil storage backend means no session identifier can exist yet.
	tracker := NewTracker(srv.URL, session.NewProvider(nil))

	result := tracker.Track(context.Background(), Fields{"eventType": "click"})

	assert.Equal(t, Suppressed, result.Status)
	assert.Empty(t, stub.Payloads(), "suppressed events must not reach the collector")
}

func TestTrackTransportFailureIsSwallowed(t *testing.T) {
	_, srv := newCollectorStub()
	srv.Close() // collector unreachable

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"))

	result := tracker.Track(context.Background(), Fields{"eventType": "click"})

	assert.Equal(t, Failed, result.Status)
	assert.NotEmpty(t, result.Reason)
}

func TestTrackNonOKStatusStillDelivered(t *testing.T) {
	// The response status is never inspected: completing the request is
	// success, matching the fire-and-forget contract.
	stub, srv := newCollectorStub()
	defer srv.Close()
	stub.status = http.StatusInternalServerError

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"))

	result := tracker.Track(context.Background(), Fields{"eventType": "click"})
	assert.Equal(t, Delivered, result.Status)
}

func TestTrackElementReadsTarget(t *testing.T) {
	stub, srv := newCollectorStub()
	defer srv.Close()

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"))

	target := Element{ID: "product-7", Tag: "div", Classes: []string{TrackableClass}}
	result := tracker.TrackElement(context.Background(), "click", target, nil)

	assert.Equal(t, Delivered, result.Status)
	require.Len(t, stub.Payloads(), 1)
	assert.Equal(t, "product-7", stub.Payloads()[0]["elementId"])
	assert.Equal(t, "div", stub.Payloads()[0]["elementTag"])
}

func TestDeliveryStatusString(t *testing.T) {
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "suppressed", Suppressed.String())
	assert.Equal(t, "failed", Failed.String())
}

package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"shopfront/api/session"
)

// Delivery is the outcome of one dispatch attempt. Delivery is best-effort,
// at-most-once: a Failed or Suppressed event is simply lost, and callers in
// the shopping flow are expected to discard the result entirely.
type Delivery struct {
	Status DeliveryStatus
	Reason string // set when Status == Failed
}

type DeliveryStatus int

const (
	// Delivered means the POST to the collector completed. The response
	// status is not inspected; completing the request is success.
	Delivered DeliveryStatus = iota
	// Suppressed means the event was intentionally not sent, e.g. no
	// session identifier was available yet. Expected, not an error.
	Suppressed
	// Failed means serialization or transport failed. Logged and swallowed.
	Failed
)

func (s DeliveryStatus) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case Suppressed:
		return "suppressed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fields are the caller-supplied part of an event envelope. "eventType" is
// the minimum; anything else (action, productId, order totals, ...) rides
// along untouched.
type Fields map[string]interface{}

// Tracker builds event envelopes and submits them to the collector endpoint.
// Each Track call produces at most one network request: no batching, no
// retry, no deduplication.
type Tracker struct {
	endpoint  string
	client    *http.Client
	sessions  *session.Provider
	pageURL   string
	userAgent string
	now       func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tracker) { t.client = c }
}

// WithPage sets the page context stamped onto every envelope.
func WithPage(url, userAgent string) Option {
	return func(t *Tracker) { t.pageURL = url; t.userAgent = userAgent }
}

func NewTracker(endpoint string, sessions *session.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		endpoint: endpoint,
		client:   http.DefaultClient,
		sessions: sessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track submits one event. Synthesized defaults (session id, event id,
// timestamp, page URL, user agent) are merged first; caller fields win on
// key collision. Errors never propagate: the result reports what happened
// and the shopping flow ignores it.
func (t *Tracker) Track(ctx context.Context, fields Fields) Delivery {
	sessionID := t.sessions.SessionID()
	if sessionID == "" {
		// First render can race session initialization. Dropping the
		// event beats sending one with no identifier.
		return Delivery{Status: Suppressed, Reason: "no session id"}
	}

	payload := map[string]interface{}{
		"sessionId": sessionID,
		"eventId":   uuid.New().String(),
		"timestamp": t.now().UTC().Format(time.RFC3339Nano),
	}
	if t.pageURL != "" {
		payload["url"] = t.pageURL
	}
	if t.userAgent != "" {
		payload["userAgent"] = t.userAgent
	}
	for k, v := range fields {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to track event: %v", err)
		return Delivery{Status: Failed, Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to track event: %v", err)
		return Delivery{Status: Failed, Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("Failed to track event: %v", err)
		return Delivery{Status: Failed, Reason: err.Error()}
	}
	resp.Body.Close()

	return Delivery{Status: Delivered}
}

// TrackElement submits an event for an interaction with a page element,
// reading elementId/elementTag from the target before merging extra fields.
func (t *Tracker) TrackElement(ctx context.Context, eventType string, target Element, extra Fields) Delivery {
	fields := Fields{"eventType": eventType}
	if target.ID != "" {
		fields["elementId"] = target.ID
	}
	if target.Tag != "" {
		fields["elementTag"] = target.Tag
	}
	for k, v := range extra {
		fields[k] = v
	}
	return t.Track(ctx, fields)
}

// Endpoint returns the collector URL this tracker posts to.
func (t *Tracker) Endpoint() string {
	return t.endpoint
}

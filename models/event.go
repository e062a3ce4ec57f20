// api/models/event.go
package models

import "encoding/json"

// Event types accepted by the collector.
const (
	EventTypeClick      = "click"
	EventTypePageView   = "page_view"
	EventTypeFormSubmit = "form_submit"
	EventTypeConversion = "conversion"
	EventTypeNavigation = "navigation"
)

// Click action sub-classifications.
const (
	ActionAddToCart      = "add_to_cart"
	ActionRemoveFromCart = "remove_from_cart"
	ActionViewProduct    = "view_product"
	ActionCheckout       = "checkout"
	ActionWishlistToggle = "wishlist_toggle"
	ActionCheckoutDone   = "checkout_completed"
)

// IsValidEventType reports whether t is one of the known event types.
func IsValidEventType(t string) bool {
	switch t {
	case EventTypeClick, EventTypePageView, EventTypeFormSubmit, EventTypeConversion, EventTypeNavigation:
		return true
	default:
		return false
	}
}

// Envelope is a single analytics event as sent by the storefront client.
// The envelope is structurally open: fields not listed here are carried in
// Extra and round-tripped untouched, never rejected.
type Envelope struct {
	SessionID  string `json:"sessionId"`
	EventID    string `json:"eventId"`
	Timestamp  string `json:"timestamp"` // ISO-8601, set by the client
	EventType  string `json:"eventType"`
	ReceivedAt string `json:"received_at"` // set by the collector

	ElementID  string `json:"elementId,omitempty"`
	ElementTag string `json:"elementTag,omitempty"`
	URL        string `json:"url,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	IPAddress  string `json:"ipAddress,omitempty"` // set by the collector

	// Extra holds event-type-specific and unknown fields
	// (action, productId, total, itemsDetail, tagData, ...).
	Extra map[string]interface{} `json:"-"`
}

// envelopeAlias avoids MarshalJSON recursion.
type envelopeAlias Envelope

// envelopeKnownKeys are the top-level JSON keys owned by named struct fields.
var envelopeKnownKeys = map[string]struct{}{
	"sessionId": {}, "eventId": {}, "timestamp": {}, "eventType": {},
	"received_at": {}, "elementId": {}, "elementTag": {}, "url": {},
	"userAgent": {}, "ipAddress": {},
}

// MarshalJSON flattens Extra into the top-level object. Named fields win on
// key collision.
func (e Envelope) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(envelopeAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(e.Extra)+10)
	for k, v := range e.Extra {
		if _, known := envelopeKnownKeys[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}

	var named map[string]json.RawMessage
	if err := json.Unmarshal(base, &named); err != nil {
		return nil, err
	}
	for k, v := range named {
		merged[k] = v
	}

	return json.Marshal(merged)
}

// UnmarshalJSON fills the named fields and collects everything else into Extra.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var alias envelopeAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Envelope(alias)

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, raw := range all {
		if _, known := envelopeKnownKeys[k]; known {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if e.Extra == nil {
			e.Extra = make(map[string]interface{})
		}
		e.Extra[k] = v
	}
	return nil
}

// ExtraJSON returns the Extra map encoded as a JSON object, or "{}" when
// empty. Used when persisting the open part of the envelope as a single
// ClickHouse column.
func (e Envelope) ExtraJSON() json.RawMessage {
	if len(e.Extra) == 0 {
		return json.RawMessage("{}")
	}
	raw, err := json.Marshal(e.Extra)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

// Action returns the "action" extra field if present.
func (e Envelope) Action() string {
	if a, ok := e.Extra["action"].(string); ok {
		return a
	}
	return ""
}

// ConversionItem is one purchased line carried in a conversion event's
// itemsDetail array.
type ConversionItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type TopActionResult struct {
	Action string `json:"action"`
	Count  uint64 `json:"count"`
}

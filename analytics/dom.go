// Package analytics implements the client-side event pipeline: a dispatcher
// that builds event envelopes and submits them to the collector, and a
// passive capture layer that auto-dispatches for marked page elements.
package analytics

import (
	"slices"
	"sync"
)

// TrackableClass is the CSS class that opts an element into passive capture.
const TrackableClass = "trackable"

// Element is the slice of a page element the pipeline cares about.
type Element struct {
	ID      string
	Tag     string // lower-case tag name ("button", "input", ...)
	Classes []string
	Value   string // current value, meaningful for input-like tags
}

// HasClass reports whether the element carries the given CSS class.
func (e Element) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

// Interaction is one user interaction with a page element.
type Interaction struct {
	Type   string // DOM event type, e.g. "click"
	Target Element
}

// Listener observes interactions dispatched on a Bus.
type Listener func(Interaction)

type registration struct {
	id      int
	evtType string
	fn      Listener
}

// Bus is the page's interaction stream, the stand-in for the document root.
// Listeners registered here run in the capturing phase: they observe every
// interaction of their type before any element-local handling, and nothing
// can stop propagation to them.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners []registration
}

func NewBus() *Bus {
	return &Bus{}
}

// AddListener registers fn for interactions of the given type and returns a
// handle for RemoveListener.
func (b *Bus) AddListener(evtType string, fn Listener) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners = append(b.listeners, registration{id: b.nextID, evtType: evtType, fn: fn})
	return b.nextID
}

// RemoveListener unregisters a previously added listener. Unknown handles
// are ignored.
func (b *Bus) RemoveListener(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = slices.DeleteFunc(b.listeners, func(r registration) bool {
		return r.id == id
	})
}

// Dispatch delivers an interaction to every listener registered for its
// type, in registration order.
func (b *Bus) Dispatch(evt Interaction) {
	b.mu.Lock()
	regs := slices.Clone(b.listeners)
	b.mu.Unlock()

	for _, r := range regs {
		if r.evtType == evt.Type {
			r.fn(evt)
		}
	}
}

package analytics

import (
	"context"
	"sync"
)

// capturedTypes are the interaction types the capture layer monitors. Only
// the primary pointer-activation event is in scope.
var capturedTypes = []string{"click"}

// inputTags are element tags whose current value is attached to captured
// events under tagData.value.
var inputTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// Capture is the passive capture layer: started, it installs exactly one
// capturing listener per monitored interaction type on the page bus and
// auto-dispatches an event for every interaction whose target carries the
// trackable class. Untracked targets are ignored entirely. There is no
// debouncing: n trackable interactions produce n dispatches.
type Capture struct {
	bus     *Bus
	tracker *Tracker

	mu      sync.Mutex
	handles []int
}

func NewCapture(bus *Bus, tracker *Tracker) *Capture {
	return &Capture{bus: bus, tracker: tracker}
}

// Start installs the listeners. Calling Start on an already-started capture
// is a no-op.
func (c *Capture) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.handles) > 0 {
		return
	}
	for _, evtType := range capturedTypes {
		c.handles = append(c.handles, c.bus.AddListener(evtType, c.handle))
	}
}

// Stop removes exactly the listeners Start installed. Safe to call without a
// prior Start, and safe to call twice.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.handles {
		c.bus.RemoveListener(h)
	}
	c.handles = nil
}

// Running reports whether listeners are currently installed.
func (c *Capture) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles) > 0
}

func (c *Capture) handle(evt Interaction) {
	target := evt.Target
	if !target.HasClass(TrackableClass) {
		return
	}

	var extra Fields
	if inputTags[target.Tag] {
		extra = Fields{"tagData": map[string]interface{}{"value": target.Value}}
	}

	// Outcome discarded: capture is fire-and-forget by design.
	c.tracker.TrackElement(context.Background(), evt.Type, target, extra)
}

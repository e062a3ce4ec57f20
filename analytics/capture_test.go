package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureFixture(t *testing.T) (*collectorStub, *Bus, *Capture) {
	t.Helper()
	stub, srv := newCollectorStub()
	t.Cleanup(srv.Close)

	tracker := NewTracker(srv.URL, seededProvider("session_1_abc"))
	bus := NewBus()
	return stub, bus, NewCapture(bus, tracker)
}

func TestCaptureIgnoresUntrackedTargets(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)
	capture.Start()
	defer capture.Stop()

	bus.Dispatch(Interaction{
		Type:   "click",
		Target: Element{ID: "nav-home", Tag: "a", Classes: []string{"nav-link"}},
	})

	assert.Empty(t, stub.Payloads())
}

func TestCaptureDispatchesOncePerTrackableInteraction(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)
	capture.Start()
	defer capture.Stop()

	target := Element{ID: "product-7", Tag: "div", Classes: []string{"card", TrackableClass}}
	bus.Dispatch(Interaction{Type: "click", Target: target})
	bus.Dispatch(Interaction{Type: "click", Target: target})
	bus.Dispatch(Interaction{Type: "click", Target: target})

	// No deduplication or debouncing: three interactions, three dispatches.
	require.Len(t, stub.Payloads(), 3)
	assert.Equal(t, "click", stub.Payloads()[0]["eventType"])
	assert.Equal(t, "product-7", stub.Payloads()[0]["elementId"])
	assert.Equal(t, "div", stub.Payloads()[0]["elementTag"])
}

func TestCaptureAttachesInputValue(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)
	capture.Start()
	defer capture.Stop()

	bus.Dispatch(Interaction{
		Type:   "click",
		Target: Element{ID: "sort-dropdown", Tag: "select", Classes: []string{TrackableClass}, Value: "price-low"},
	})

	require.Len(t, stub.Payloads(), 1)
	tagData, ok := stub.Payloads()[0]["tagData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "price-low", tagData["value"])
}

func TestCaptureMonitorsOnlyClicks(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)
	capture.Start()
	defer capture.Stop()

	bus.Dispatch(Interaction{
		Type:   "mouseover",
		Target: Element{ID: "product-7", Tag: "div", Classes: []string{TrackableClass}},
	})

	assert.Empty(t, stub.Payloads())
}

func TestCaptureStopRemovesListeners(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)
	capture.Start()
	assert.True(t, capture.Running())

	capture.Stop()
	assert.False(t, capture.Running())

	bus.Dispatch(Interaction{
		Type:   "click",
		Target: Element{ID: "product-7", Tag: "div", Classes: []string{TrackableClass}},
	})
	assert.Empty(t, stub.Payloads())
}

func TestCaptureLifecycleIdempotent(t *testing.T) {
	stub, bus, capture := newCaptureFixture(t)

	// Stop without Start is safe.
	assert.NotPanics(t, capture.Stop)

	// Double Start installs listeners once.
	capture.Start()
	capture.Start()
	bus.Dispatch(Interaction{
		Type:   "click",
		Target: Element{ID: "product-7", Tag: "div", Classes: []string{TrackableClass}},
	})
	assert.Len(t, stub.Payloads(), 1)

	capture.Stop()
	assert.NotPanics(t, capture.Stop)
}

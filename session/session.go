// Package session issues the anonymous per-tab identifier attached to every
// analytics event. Identifiers live in tab-scoped storage and end with it.
package session

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"time"

	"shopfront/api/storage"
)

// Key is the storage key the identifier lives under.
const Key = "analytics_session_id"

// Provider hands out the current session identifier, creating one lazily on
// first read. A nil storage backend models running outside a browser
// context: every operation degrades to a no-op instead of failing.
type Provider struct {
	store storage.KV
	now   func() time.Time
}

func NewProvider(store storage.KV) *Provider {
	return &Provider{store: store, now: time.Now}
}

// GenerateID builds a fresh identifier: session_<epochMillis>_<base36>.
// Collisions are accepted as negligible; there is no retry.
func (p *Provider) GenerateID() string {
	timestamp := p.now().UnixMilli()
	randomPart := strconv.FormatUint(rand.Uint64(), 36)
	return fmt.Sprintf("session_%d_%s", timestamp, randomPart)
}

// SessionID returns the current identifier, creating and storing one if none
// exists. Returns "" when no storage backend is available.
func (p *Provider) SessionID() string {
	if p.store == nil {
		return ""
	}

	id, ok := p.store.Get(Key)
	if !ok || id == "" {
		id = p.GenerateID()
		p.store.Set(Key, id)
		log.Printf("New session started: %s", id)
	}
	return id
}

// Clear deletes the stored identifier; the next SessionID call mints a new
// one. No-op without a storage backend.
func (p *Provider) Clear() {
	if p.store == nil {
		return
	}
	p.store.Delete(Key)
}

// Info describes the provider's current state. Debug helper.
type Info struct {
	SessionID    string `json:"sessionId"`
	IsNewSession bool   `json:"isNewSession"`
}

// SessionInfo reports the stored identifier without creating one.
func (p *Provider) SessionInfo() Info {
	if p.store == nil {
		return Info{}
	}
	id, ok := p.store.Get(Key)
	if !ok {
		return Info{SessionID: "No active session", IsNewSession: true}
	}
	return Info{SessionID: id}
}

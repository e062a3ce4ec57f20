package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/api/storage"
)

func TestSessionIDStableWithinScope(t *testing.T) {
	p := NewProvider(storage.NewMemory())

	first := p.SessionID()
	second := p.SessionID()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestSessionIDFormat(t *testing.T) {
	p := NewProvider(storage.NewMemory())

	id := p.SessionID()
	parts := strings.SplitN(id, "_", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "session", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.NotEmpty(t, parts[2])
}

func TestClearMintsNewIdentifier(t *testing.T) {
	p := NewProvider(storage.NewMemory())

	first := p.SessionID()
	p.Clear()
	second := p.SessionID()

	assert.NotEqual(t, first, second)
}

func TestNoStorageDegradesToNoOp(t *testing.T) {
	p := NewProvider(nil)

	assert.Equal(t, "", p.SessionID())
	assert.NotPanics(t, func() { p.Clear() })
	assert.Equal(t, Info{}, p.SessionInfo())
}

func TestSessionInfoDoesNotCreate(t *testing.T) {
	store := storage.NewMemory()
	p := NewProvider(store)

	info := p.SessionInfo()
	assert.True(t, info.IsNewSession)
	assert.Equal(t, 0, store.Len(), "SessionInfo must not write")

	id := p.SessionID()
	info = p.SessionInfo()
	assert.False(t, info.IsNewSession)
	assert.Equal(t, id, info.SessionID)
}

func TestStoredIdentifierIsReused(t *testing.T) {
	store := storage.NewMemory()
	store.Set(Key, "session_1_abc")

	p := NewProvider(store)
	assert.Equal(t, "session_1_abc", p.SessionID())
}

// Package storage provides the key-value persistence layer the client-side
// stores (session identity, cart) write through. Backends are swappable:
// in-memory for tab-scoped state, cookie-backed for the durable cart copy,
// SQLite for the simulator.
package storage

import "sync"

// KV is a minimal string key-value store. Implementations must tolerate
// reads of absent keys (ok == false) and deletes of absent keys (no-op).
type KV interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
	Delete(key string)
}

// Memory is an in-process KV, the analog of browser sessionStorage: its
// contents live exactly as long as the process ("tab") does.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *Memory) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// Len returns the number of stored keys. Debug helper.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

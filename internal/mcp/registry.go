package mcp

import (
	"sync"
	"time"
)

// Session pairs a protocol session identifier with its creation time. The
// capability surface is intentionally empty, so there is no per-session state
// beyond the identity itself; the struct exists to grow operator tooling
// without a registry rewrite.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Initialized bool
}

// Registry is a concurrency-safe table of live protocol sessions. It is
// injected into the transport handler; nothing reaches it through package
// globals.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

package storage

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an ephemeral Adapter backed by a concurrent map.
// Used in tests and for sessions that should not outlive the process.
type Memory struct {
	m *xsync.MapOf[string, []byte]
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{m: xsync.NewMapOf[string, []byte]()}
}

// Read returns the value stored for key, or found=false when the key is absent.
func (s *Memory) Read(key string) ([]byte, bool, error) {
	value, found := s.m.Load(key)
	if !found {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Write replaces the value stored for key with a private copy.
func (s *Memory) Write(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.m.Store(key, stored)
	return nil
}

// Remove deletes the key. Removing an absent key is a no-op.
func (s *Memory) Remove(key string) error {
	s.m.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (s *Memory) Len() int {
	return s.m.Size()
}

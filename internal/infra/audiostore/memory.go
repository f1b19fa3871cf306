// Package audiostore keeps synthesized audio until it expires.
package audiostore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

// MemoryStorage keeps artifacts in process memory. Expired entries are
// swept on every Put.
type MemoryStorage struct {
	mu        sync.RWMutex
	artifacts map[string]speech.Artifact
	now       func() time.Time
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{artifacts: make(map[string]speech.Artifact), now: time.Now}
}

// Put stores the artifact.
func (s *MemoryStorage) Put(_ context.Context, artifact speech.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, a := range s.artifacts {
		if expired(a, now) {
			delete(s.artifacts, id)
		}
	}
	s.artifacts[artifact.ID] = artifact
	return nil
}

// Get returns a live artifact.
func (s *MemoryStorage) Get(_ context.Context, id string) (speech.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[id]
	if !ok || expired(a, s.now()) {
		return speech.Artifact{}, speech.ErrArtifactNotFound
	}
	return a, nil
}

// Len reports how many artifacts are held.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

func expired(a speech.Artifact, now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

var _ speech.AudioStorage = (*MemoryStorage)(nil)

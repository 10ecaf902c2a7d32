package draftstore

import (
	"context"
	"sync"
	"time"

	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/models"
)

var _ core.DraftStore = (*MemoryDraftStore)(nil)

// MemoryDraftStore is the in-process implementation for tests and single-node
// development runs.
type MemoryDraftStore struct {
	ttl time.Duration

	mu     sync.Mutex
	drafts map[string]memoryDraft
}

type memoryDraft struct {
	sel       models.SplitSelection
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		drafts: make(map[string]memoryDraft),
	}
}

func (s *MemoryDraftStore) Save(_ context.Context, sessionID string, sel models.SplitSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = memoryDraft{sel: sel, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryDraftStore) Load(_ context.Context, sessionID string) (*models.SplitSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(d.expiresAt) {
		delete(s.drafts, sessionID)
		return nil, nil
	}
	sel := d.sel
	return &sel, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

// Package memory is the development/test audit store. Same contract as
// the postgres store, no durability.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

type AuditStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewAuditStore() *AuditStore {
	return &AuditStore{docs: make(map[string][]byte)}
}

func (s *AuditStore) Get(ctx context.Context, id string) (*domain.AuditDocument, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.WrapError(domain.ErrAuditNotFound, "get audit", fmt.Errorf("id %s", id))
	}

	var doc domain.AuditDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal audit %s: %w", id, err)
	}
	return &doc, nil
}

func (s *AuditStore) Create(ctx context.Context, doc *domain.AuditDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal audit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("audit %s already exists", doc.ID)
	}
	s.docs[doc.ID] = raw
	return nil
}

func (s *AuditStore) Update(ctx context.Context, doc *domain.AuditDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.docs[doc.ID]
	if !ok {
		return domain.WrapError(domain.ErrAuditNotFound, "update audit", fmt.Errorf("id %s", doc.ID))
	}
	var stored domain.AuditDocument
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("unmarshal audit %s: %w", doc.ID, err)
	}
	if stored.Version != doc.Version {
		return domain.WrapError(domain.ErrVersionConflict, "update audit",
			fmt.Errorf("id %s: expected version %d, stored %d", doc.ID, doc.Version, stored.Version))
	}

	doc.Version++
	next, err := json.Marshal(doc)
	if err != nil {
		doc.Version--
		return fmt.Errorf("marshal audit: %w", err)
	}
	s.docs[doc.ID] = next
	return nil
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// fakeStore is an in-memory AuditStore with the same version-CAS contract
// as the real implementations. Documents are cloned through JSON on both
// sides so tests observe storage semantics, not shared pointers.
type fakeStore struct {
	mu         sync.Mutex
	docs       map[string]*domain.AuditDocument
	createErr  error
	updateErrs []error
	updates    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*domain.AuditDocument)}
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.AuditDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrAuditNotFound, "get audit", fmt.Errorf("id %s", id))
	}
	return cloneDoc(doc), nil
}

func (s *fakeStore) Create(_ context.Context, doc *domain.AuditDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.docs[doc.ID]; ok {
		return fmt.Errorf("duplicate id %s", doc.ID)
	}
	s.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (s *fakeStore) Update(_ context.Context, doc *domain.AuditDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if len(s.updateErrs) > 0 {
		err := s.updateErrs[0]
		s.updateErrs = s.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	stored, ok := s.docs[doc.ID]
	if !ok {
		return domain.WrapError(domain.ErrAuditNotFound, "update audit", fmt.Errorf("id %s", doc.ID))
	}
	if stored.Version != doc.Version {
		return domain.ErrVersionConflict
	}
	doc.Version++
	s.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func cloneDoc(doc *domain.AuditDocument) *domain.AuditDocument {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var out domain.AuditDocument
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type fakeScanner struct {
	res   *domain.ScanResult
	err   error
	calls int
}

func (f *fakeScanner) Scan(context.Context, string) (*domain.ScanResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeSpeed struct {
	res   *domain.SpeedResult
	err   error
	calls int
}

func (f *fakeSpeed) Analyze(context.Context, string) (*domain.SpeedResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeSearch struct {
	res     *domain.SearchResult
	err     error
	deep    *domain.DeepScanResult
	deepErr error
	calls   int
}

func (f *fakeSearch) FetchDomain(context.Context, string) (*domain.SearchResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeSearch) FetchDeepScan(context.Context, string) (*domain.DeepScanResult, error) {
	if f.deepErr != nil {
		return nil, f.deepErr
	}
	return f.deep, nil
}

type fakeListing struct {
	res   *domain.ListingResult
	err   error
	calls int
}

func (f *fakeListing) Lookup(context.Context, string, string) (*domain.ListingResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeProber struct{ exists bool }

func (f *fakeProber) Exists(context.Context, string) bool { return f.exists }

type fakeEvents struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (f *fakeEvents) PublishAuditCreated(_ context.Context, auditID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, auditID)
	return nil
}

func (f *fakeEvents) SubscribeAuditCreated(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func healthySources() (*domain.ScanResult, *domain.SpeedResult, *domain.SearchResult, *domain.ListingResult) {
	scan := &domain.ScanResult{
		SSLValid: true,
		HTTP2:    true,
		Meta:     domain.PageMeta{Title: "Acme Plumbing", HasH1: true, H1Text: "Plumbing done right"},
		Schema:   domain.SchemaInfo{Types: []string{"Organization"}, HasOrganization: true},
	}
	speed := &domain.SpeedResult{PerformanceScore: intp(88), MobileFriendly: boolp(true)}
	search := &domain.SearchResult{
		Overview:    &domain.DomainOverview{Rank: 250000, OrganicKeywords: 340, OrganicTraffic: 2100},
		TopKeywords: []domain.KeywordRanking{{Keyword: "emergency plumber", Position: 4, Volume: 900}},
	}
	listing := &domain.ListingResult{
		Found:   true,
		Profile: &domain.BusinessProfile{Name: "Acme Plumbing", Rating: 4.7, ReviewCount: 62},
	}
	return scan, speed, search, listing
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
	"github.com/leadbeacon/beacon/internal/core/report"
)

// DefaultRetryCeiling is the number of refresh attempts a provider gets
// before it is abandoned for good.
const DefaultRetryCeiling = 3

// DefaultCASAttempts bounds how many times a refresh cycle restarts after
// losing a version race to a concurrent writer.
const DefaultCASAttempts = 3

// RefreshAuditUseCase re-runs only the providers still pending on a stored
// audit and merges whatever they produce into the document. The whole
// load-modify-store cycle is optimistic: Store.Update is a version CAS,
// and a conflict restarts the cycle from a fresh load.
type RefreshAuditUseCase struct {
	store        ports.AuditStore
	fanout       *providerFanout
	builder      report.Builder
	retryCeiling int
	casAttempts  int
}

func NewRefreshAuditUseCase(
	store ports.AuditStore,
	scanner ports.WebsiteScanner,
	speed ports.SpeedAnalyzer,
	search ports.SearchMetricsSource,
	listing ports.ListingSource,
	builder report.Builder,
	retryCeiling int,
	casAttempts int,
) *RefreshAuditUseCase {
	if retryCeiling <= 0 {
		retryCeiling = DefaultRetryCeiling
	}
	if casAttempts <= 0 {
		casAttempts = DefaultCASAttempts
	}
	return &RefreshAuditUseCase{
		store:        store,
		fanout:       newProviderFanout(scanner, speed, search, listing, nil),
		builder:      builder,
		retryCeiling: retryCeiling,
		casAttempts:  casAttempts,
	}
}

func (uc *RefreshAuditUseCase) Refresh(ctx context.Context, id string) (*domain.AuditDocument, error) {
	var lastErr error
	for attempt := 1; attempt <= uc.casAttempts; attempt++ {
		doc, err := uc.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load audit: %w", err)
		}

		err = uc.refreshCycle(ctx, doc)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("refresh audit %s: gave up after %d version conflicts: %w", id, uc.casAttempts, lastErr)
}

// refreshCycle runs one full fetch-merge-store pass over an already loaded
// document. A version-conflict error means a concurrent writer won the
// race and the caller should reload and try again.
func (uc *RefreshAuditUseCase) refreshCycle(ctx context.Context, doc *domain.AuditDocument) error {
	if len(doc.PendingProviders) == 0 || doc.Meta.URL == "" {
		return nil
	}

	pending := setOf(doc.PendingProviders)
	result := uc.fanout.run(ctx, doc.Meta, pending, false)

	// Walk providers in canonical order so shared tabs always merge the
	// same way regardless of which goroutine finished last.
	affected := make(map[domain.GroupKey]bool)
	for _, p := range domain.AllProviders() {
		if !pending[p] {
			continue
		}
		if err, ok := result.Errors[p]; ok {
			if doc.ProviderErrors == nil {
				doc.ProviderErrors = make(map[domain.Provider]string)
			}
			doc.ProviderErrors[p] = err.Error()
		}
		if usable(result.Sources, p) {
			mergeSource(&doc.Sources, result.Sources, p)
			doc.RemovePending(p)
			for _, key := range domain.GroupsFor(p) {
				affected[key] = true
			}
			continue
		}

		if doc.RetryCounts == nil {
			doc.RetryCounts = make(map[domain.Provider]int)
		}
		doc.RetryCounts[p]++
		if doc.RetryCounts[p] >= uc.retryCeiling {
			doc.MarkFailed(p)
		}
	}

	if len(affected) > 0 {
		rebuild := make([]domain.GroupKey, 0, len(affected))
		for _, key := range domain.AllGroups() {
			if affected[key] {
				rebuild = append(rebuild, key)
			}
		}
		buildGroups(uc.builder, doc, rebuild)
	}

	// Persist even a no-progress cycle: the retry counters moved.
	if err := uc.store.Update(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("persist refreshed audit: %w", err)
	}
	return nil
}

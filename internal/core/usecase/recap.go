package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
)

const (
	recapTextLimit = 1200
	recapRiskLimit = 300
	recapRiskCount = 6
)

// PatchRecapUseCase merges partial recap content into a stored audit.
// Shallow merge by tab key: tabs absent from the patch stay untouched,
// and within a tab only the supplied fields are replaced.
type PatchRecapUseCase struct {
	store       ports.AuditStore
	casAttempts int
}

func NewPatchRecapUseCase(store ports.AuditStore, casAttempts int) *PatchRecapUseCase {
	if casAttempts <= 0 {
		casAttempts = DefaultCASAttempts
	}
	return &PatchRecapUseCase{store: store, casAttempts: casAttempts}
}

func (uc *PatchRecapUseCase) Patch(ctx context.Context, id string, patch map[string]domain.RecapPatch) (map[string]domain.RecapEntry, error) {
	if err := validateRecapTabs(patch); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= uc.casAttempts; attempt++ {
		doc, err := uc.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load audit: %w", err)
		}

		applyRecapPatch(doc, patch)

		err = uc.store.Update(ctx, doc)
		if err == nil {
			return doc.Recap, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, fmt.Errorf("persist recap: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("patch recap %s: gave up after %d version conflicts: %w", id, uc.casAttempts, lastErr)
}

func validateRecapTabs(patch map[string]domain.RecapPatch) error {
	valid := make(map[string]bool)
	for _, key := range domain.AllGroups() {
		valid[string(key)] = true
	}
	for tab := range patch {
		if !valid[tab] {
			return domain.WrapError(domain.ErrInvalidInput, "validate recap", fmt.Errorf("unknown tab %q", tab))
		}
	}
	return nil
}

func applyRecapPatch(doc *domain.AuditDocument, patch map[string]domain.RecapPatch) {
	if len(patch) == 0 {
		return
	}
	if doc.Recap == nil {
		doc.Recap = make(map[string]domain.RecapEntry)
	}
	for tab, p := range patch {
		entry := doc.Recap[tab]
		if p.Summary != nil {
			entry.Summary = clipText(*p.Summary, recapTextLimit)
		}
		if p.Opportunity != nil {
			entry.Opportunity = clipText(*p.Opportunity, recapTextLimit)
		}
		if p.Risks != nil {
			risks := p.Risks
			if len(risks) > recapRiskCount {
				risks = risks[:recapRiskCount]
			}
			clipped := make([]string, 0, len(risks))
			for _, r := range risks {
				if r = clipText(r, recapRiskLimit); r != "" {
					clipped = append(clipped, r)
				}
			}
			entry.Risks = clipped
		}
		doc.Recap[tab] = entry
	}
}

// clipText truncates to at most limit bytes without splitting a rune.
func clipText(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

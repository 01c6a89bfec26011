package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
	"github.com/leadbeacon/beacon/internal/core/report"
)

// CreateAuditUseCase runs the full audit pipeline for one intake: fan out
// to every provider, build the report from whatever came back, persist,
// respond. Provider failures degrade the report, they never fail the
// request; only bad input and persistence failures surface to the caller.
type CreateAuditUseCase struct {
	store   ports.AuditStore
	fanout  *providerFanout
	builder report.Builder
	events  ports.AuditEvents
}

func NewCreateAuditUseCase(
	store ports.AuditStore,
	scanner ports.WebsiteScanner,
	speed ports.SpeedAnalyzer,
	search ports.SearchMetricsSource,
	listing ports.ListingSource,
	prober ports.URLProber,
	builder report.Builder,
	events ports.AuditEvents,
) *CreateAuditUseCase {
	return &CreateAuditUseCase{
		store:   store,
		fanout:  newProviderFanout(scanner, speed, search, listing, prober),
		builder: builder,
		events:  events,
	}
}

func (uc *CreateAuditUseCase) Create(ctx context.Context, req domain.AuditRequest) (*domain.AuditDocument, error) {
	target, err := normalizeTargetURL(req.URL)
	if err != nil {
		return nil, err
	}

	doc := &domain.AuditDocument{
		ID:      domain.NewAuditID(),
		Version: 1,
		Meta: domain.AuditMeta{
			URL:         target,
			CompanyName: strings.TrimSpace(req.CompanyName),
			ContactName: strings.TrimSpace(req.ContactName),
			Email:       strings.TrimSpace(req.Email),
			Phone:       strings.TrimSpace(req.Phone),
			DeepScanID:  strings.TrimSpace(req.DeepScanID),
			CreatedAt:   time.Now().UTC(),
		},
	}

	all := setOf(domain.AllProviders())
	result := uc.fanout.run(ctx, doc.Meta, all, true)
	doc.Sources = result.Sources

	for _, p := range domain.AllProviders() {
		if err, ok := result.Errors[p]; ok {
			if doc.ProviderErrors == nil {
				doc.ProviderErrors = make(map[domain.Provider]string)
			}
			doc.ProviderErrors[p] = err.Error()
		}
		if !usable(doc.Sources, p) {
			doc.PendingProviders = append(doc.PendingProviders, p)
		}
	}

	uc.buildReport(doc, domain.AllGroups())

	if err := uc.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist audit: %w", err)
	}

	uc.publishCreated(doc.ID)
	return doc, nil
}

// buildReport regenerates the named tabs plus the keyword list and the
// denormalized listing record from the document's merged sources.
func (uc *CreateAuditUseCase) buildReport(doc *domain.AuditDocument, groups []domain.GroupKey) {
	buildGroups(uc.builder, doc, groups)
}

// publishCreated emits the audit-created event for the spreadsheet worker.
// Strictly best-effort: the response and the stored document are already
// final, so failures are logged and swallowed.
func (uc *CreateAuditUseCase) publishCreated(auditID string) {
	if uc.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.events.PublishAuditCreated(ctx, auditID); err != nil {
			slog.Warn("audit_created_publish_failed", "audit_id", auditID, "error", err)
		}
	}()
}

// buildGroups is shared by the creation and refresh paths so both always
// rebuild a tab from the same merged-sources view.
func buildGroups(b report.Builder, doc *domain.AuditDocument, groups []domain.GroupKey) {
	for _, key := range groups {
		doc.SetGroup(key, b.BuildGroup(key, doc.Sources))
	}
	doc.Keywords = b.Keywords(doc.Sources)
	if doc.Sources.BusinessListing.HasData() {
		doc.BusinessListing = doc.Sources.BusinessListing.Profile
	}
}

func normalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "validate intake", errors.New("url is required"))
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "validate intake", fmt.Errorf("malformed url %q", raw))
	}
	return parsed.String(), nil
}

package ports

import (
	"context"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// AuditStore persists audit documents under their public id. There are no
// transactions; Update is a compare-and-swap on the document version so
// concurrent refresh or recap cycles fail loudly instead of losing writes.
type AuditStore interface {
	Get(ctx context.Context, id string) (*domain.AuditDocument, error)
	Create(ctx context.Context, doc *domain.AuditDocument) error
	// Update replaces the stored document if its version still matches
	// doc.Version, then bumps doc.Version. Fails with
	// domain.ErrVersionConflict when another writer got there first.
	Update(ctx context.Context, doc *domain.AuditDocument) error
}

// WebsiteScanner fetches and parses the target homepage.
type WebsiteScanner interface {
	Scan(ctx context.Context, targetURL string) (*domain.ScanResult, error)
}

// SpeedAnalyzer runs the page-speed analysis.
type SpeedAnalyzer interface {
	Analyze(ctx context.Context, targetURL string) (*domain.SpeedResult, error)
}

// SearchMetricsSource queries the SEO data provider. FetchDeepScan is the
// optional technical site-audit lookup, keyed by a project id the intake
// form may or may not carry.
type SearchMetricsSource interface {
	FetchDomain(ctx context.Context, targetURL string) (*domain.SearchResult, error)
	FetchDeepScan(ctx context.Context, projectID string) (*domain.DeepScanResult, error)
}

// ListingSource looks up the company's business listing.
type ListingSource interface {
	Lookup(ctx context.Context, companyName, targetURL string) (*domain.ListingResult, error)
}

// URLProber answers lightweight existence checks (sitemap, robots).
type URLProber interface {
	Exists(ctx context.Context, rawURL string) bool
}

// AuditEvents is the fire-and-forget side channel. Publish failures are
// swallowed by callers; the worker subscribes and mirrors audits into the
// sales spreadsheet.
type AuditEvents interface {
	PublishAuditCreated(ctx context.Context, auditID string) error
	SubscribeAuditCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// AuditLogAppender appends one audit row to the external audit log.
type AuditLogAppender interface {
	Append(ctx context.Context, doc *domain.AuditDocument) error
}

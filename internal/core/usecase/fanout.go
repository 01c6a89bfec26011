package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
)

// providerSet is the fan-out target of one create or refresh cycle.
type providerSet map[domain.Provider]bool

func setOf(providers []domain.Provider) providerSet {
	set := make(providerSet, len(providers))
	for _, p := range providers {
		set[p] = true
	}
	return set
}

// fanoutResult collects every outcome of one concurrent fan-out. Each
// provider lands in exactly one of three states: usable data in Sources,
// a transport error in Errors, or a well-formed empty result in neither.
type fanoutResult struct {
	Sources domain.Sources
	Errors  map[domain.Provider]error
}

// providerFanout runs the provider adapters concurrently with a
// fault-isolating join: every task runs to completion and records its own
// outcome, one failure never cancels or delays a sibling.
type providerFanout struct {
	scanner ports.WebsiteScanner
	speed   ports.SpeedAnalyzer
	search  ports.SearchMetricsSource
	listing ports.ListingSource
	prober  ports.URLProber
}

func newProviderFanout(
	scanner ports.WebsiteScanner,
	speed ports.SpeedAnalyzer,
	search ports.SearchMetricsSource,
	listing ports.ListingSource,
	prober ports.URLProber,
) *providerFanout {
	return &providerFanout{
		scanner: scanner,
		speed:   speed,
		search:  search,
		listing: listing,
		prober:  prober,
	}
}

// run fetches the requested providers for the given audit intake. The
// existence probes and the optional deep scan only run when withChecks is
// set (creation path); refresh cycles re-fetch providers alone.
func (f *providerFanout) run(ctx context.Context, meta domain.AuditMeta, set providerSet, withChecks bool) fanoutResult {
	result := fanoutResult{Errors: make(map[domain.Provider]error)}

	var mu sync.Mutex
	var wg sync.WaitGroup

	record := func(p domain.Provider, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Errors[p] = err
		}
	}

	if set[domain.ProviderSpeedAnalysis] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.speed.Analyze(ctx, meta.URL)
			if err == nil {
				mu.Lock()
				result.Sources.SpeedAnalysis = res
				mu.Unlock()
			}
			record(domain.ProviderSpeedAnalysis, err)
		}()
	}
	if set[domain.ProviderWebsiteScan] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.scanner.Scan(ctx, meta.URL)
			if err == nil {
				mu.Lock()
				result.Sources.WebsiteScan = res
				mu.Unlock()
			}
			record(domain.ProviderWebsiteScan, err)
		}()
	}
	if set[domain.ProviderSearchMetrics] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.search.FetchDomain(ctx, meta.URL)
			if err == nil {
				mu.Lock()
				result.Sources.SearchMetrics = res
				mu.Unlock()
			}
			record(domain.ProviderSearchMetrics, err)
		}()
	}
	if set[domain.ProviderBusinessListing] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.listing.Lookup(ctx, meta.CompanyName, meta.URL)
			if err == nil {
				mu.Lock()
				result.Sources.BusinessListing = res
				mu.Unlock()
			}
			record(domain.ProviderBusinessListing, err)
		}()
	}

	if withChecks {
		wg.Add(2)
		go func() {
			defer wg.Done()
			exists := f.prober.Exists(ctx, joinURL(meta.URL, "/sitemap.xml"))
			mu.Lock()
			result.Sources.HasSitemap = &exists
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			exists := f.prober.Exists(ctx, joinURL(meta.URL, "/robots.txt"))
			mu.Lock()
			result.Sources.HasRobots = &exists
			mu.Unlock()
		}()

		// Optional deep scan, keyed by the intake's project id. No id
		// means no attempt: skipped, not failed.
		if meta.DeepScanID != "" {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := f.search.FetchDeepScan(ctx, meta.DeepScanID)
				if err == nil {
					mu.Lock()
					result.Sources.DeepScan = res
					mu.Unlock()
				}
			}()
		}
	}

	wg.Wait()
	return result
}

// usable evaluates the has-real-content predicate for one provider over a
// fan-out result. Transport success with an empty payload is not usable.
func usable(src domain.Sources, p domain.Provider) bool {
	switch p {
	case domain.ProviderWebsiteScan:
		return src.WebsiteScan.HasData()
	case domain.ProviderSpeedAnalysis:
		return src.SpeedAnalysis.HasData()
	case domain.ProviderSearchMetrics:
		return src.SearchMetrics.HasData()
	case domain.ProviderBusinessListing:
		return src.BusinessListing.HasData()
	}
	return false
}

// mergeSource copies one provider's freshly fetched payload into the
// document's retained sources, leaving every other provider's data intact.
func mergeSource(dst *domain.Sources, fresh domain.Sources, p domain.Provider) {
	switch p {
	case domain.ProviderWebsiteScan:
		dst.WebsiteScan = fresh.WebsiteScan
	case domain.ProviderSpeedAnalysis:
		dst.SpeedAnalysis = fresh.SpeedAnalysis
	case domain.ProviderSearchMetrics:
		dst.SearchMetrics = fresh.SearchMetrics
	case domain.ProviderBusinessListing:
		dst.BusinessListing = fresh.BusinessListing
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

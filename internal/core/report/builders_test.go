package report

import (
	"os"
	"strings"
	"testing"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// Every tab must render its full fixed label set even with zero provider
// data: missing signals degrade metrics, they never drop them.
func TestBuildersEmitFullLabelSetWithoutData(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	wantLen := map[domain.GroupKey]int{
		domain.GroupSitePerformance:  7,
		domain.GroupSearchVisibility: 7,
		domain.GroupContent:          11,
		domain.GroupSocial:           4,
		domain.GroupLocalEntity:      10,
		domain.GroupAIReadiness:      8,
	}
	for _, key := range domain.AllGroups() {
		g := b.BuildGroup(key, domain.Sources{})
		if g == nil {
			t.Fatalf("%s: nil group", key)
		}
		if len(g.Metrics) != wantLen[key] {
			t.Errorf("%s: %d metrics, want %d", key, len(g.Metrics), wantLen[key])
		}
		for i, m := range g.Metrics {
			if m.Label == "" {
				t.Errorf("%s: metric %d has empty label", key, i)
			}
			if m.Status == domain.StatusGood && !m.Estimated {
				t.Errorf("%s: metric %q is good with no data", key, m.Label)
			}
		}
	}
}

func TestBuildersDeterministicOrder(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	src := domain.Sources{
		SpeedAnalysis: &domain.SpeedResult{PerformanceScore: intp(85)},
		WebsiteScan:   &domain.ScanResult{SSLValid: true, HTTP2: true},
	}
	for _, key := range domain.AllGroups() {
		first := b.BuildGroup(key, src)
		second := b.BuildGroup(key, src)
		if len(first.Metrics) != len(second.Metrics) {
			t.Fatalf("%s: metric count changed between builds", key)
		}
		for i := range first.Metrics {
			if first.Metrics[i].Label != second.Metrics[i].Label {
				t.Errorf("%s: label order changed at %d", key, i)
			}
		}
		if first.Score != second.Score {
			t.Errorf("%s: score changed between builds", key)
		}
	}
}

func TestSitePerformanceScanSSLOverridesSpeedHTTPS(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	src := domain.Sources{
		SpeedAnalysis: &domain.SpeedResult{PerformanceScore: intp(90), HTTPS: boolp(true)},
		WebsiteScan:   &domain.ScanResult{SSLValid: false},
	}
	g := b.SitePerformance(src)
	m := findMetric(t, g, "Security & SSL")
	if m.Status != domain.StatusPoor {
		t.Fatalf("SSL status = %q, want poor (scan verdict wins)", m.Status)
	}
}

func TestSearchVisibilityAuthorityEstimate(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	src := domain.Sources{
		SearchMetrics: &domain.SearchResult{
			Overview: &domain.DomainOverview{Rank: 100000, OrganicKeywords: 800, OrganicTraffic: 12000},
		},
	}
	g := b.SearchVisibility(src)
	m := findMetric(t, g, "Domain Authority Score")
	// 100 - log10(100000)*15 = 100 - 75 = 25
	if m.Value != "25/100" {
		t.Fatalf("authority value = %q, want 25/100", m.Value)
	}
	if m.Status != domain.StatusPoor {
		t.Fatalf("authority status = %q, want poor", m.Status)
	}

	kw := findMetric(t, g, "Organic Keywords")
	if kw.Estimated {
		t.Fatal("keyword metric marked estimated with overview present")
	}
	if kw.Status != domain.StatusGood {
		t.Fatalf("keyword status = %q, want good for 800 keywords", kw.Status)
	}
}

func TestSearchVisibilitySitemapTriState(t *testing.T) {
	b := NewBuilder(DefaultThresholds())

	g := b.SearchVisibility(domain.Sources{HasSitemap: boolp(true)})
	if m := findMetric(t, g, "XML Sitemap Status"); m.Status != domain.StatusGood {
		t.Fatalf("sitemap present: status %q, want good", m.Status)
	}
	g = b.SearchVisibility(domain.Sources{HasSitemap: boolp(false)})
	if m := findMetric(t, g, "XML Sitemap Status"); m.Status != domain.StatusPoor {
		t.Fatalf("sitemap absent: status %q, want poor", m.Status)
	}
	g = b.SearchVisibility(domain.Sources{})
	if m := findMetric(t, g, "XML Sitemap Status"); !m.Estimated || m.Status != domain.StatusWarning {
		t.Fatalf("sitemap unknown: estimated=%v status=%q, want estimated warning", m.Estimated, m.Status)
	}
}

func TestContentFreshnessBands(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	cases := []struct {
		days int
		want domain.MetricStatus
	}{
		{7, domain.StatusGood},
		{14, domain.StatusGood},
		{30, domain.StatusWarning},
		{90, domain.StatusPoor},
	}
	for _, tc := range cases {
		src := domain.Sources{WebsiteScan: &domain.ScanResult{
			Blog: domain.BlogInfo{Detected: true, Path: "/blog", LastPostDaysAgo: intp(tc.days)},
		}}
		g := b.Content(src)
		m := findMetric(t, g, "Content Freshness")
		if m.Status != tc.want {
			t.Errorf("%d days: status %q, want %q", tc.days, m.Status, tc.want)
		}
		if m.Estimated {
			t.Errorf("%d days: estimated with a measured post date", tc.days)
		}
	}
}

func TestContentMetaDescriptionLengthBands(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	src := domain.Sources{WebsiteScan: &domain.ScanResult{
		Meta: domain.PageMeta{Description: strings.Repeat("x", 140), DescriptionLength: 140},
	}}
	if m := findMetric(t, b.Content(src), "Meta Descriptions"); m.Status != domain.StatusGood {
		t.Fatalf("140 chars: status %q, want good", m.Status)
	}

	src.WebsiteScan.Meta = domain.PageMeta{Description: "short", DescriptionLength: 5}
	if m := findMetric(t, b.Content(src), "Meta Descriptions"); m.Status != domain.StatusWarning {
		t.Fatalf("5 chars: status %q, want warning", m.Status)
	}

	src.WebsiteScan.Meta = domain.PageMeta{}
	if m := findMetric(t, b.Content(src), "Meta Descriptions"); m.Status != domain.StatusPoor {
		t.Fatalf("missing: status %q, want poor", m.Status)
	}
}

func TestSocialCoverageStates(t *testing.T) {
	b := NewBuilder(DefaultThresholds())

	src := domain.Sources{WebsiteScan: &domain.ScanResult{
		OpenGraph:    domain.TagCoverage{Complete: true},
		TwitterCards: domain.TagCoverage{Partial: true, MissingTags: []string{"twitter:image"}},
	}}
	g := b.Social(src)
	if m := findMetric(t, g, "Open Graph Tags"); m.Status != domain.StatusGood || m.Value != "Complete" {
		t.Fatalf("og complete: %q/%q", m.Value, m.Status)
	}
	tw := findMetric(t, g, "Twitter Cards")
	if tw.Status != domain.StatusWarning || tw.Value != "Partial" {
		t.Fatalf("tw partial: %q/%q", tw.Value, tw.Status)
	}
	if !strings.Contains(tw.Detail, "twitter:image") {
		t.Fatalf("tw detail %q does not name the missing tag", tw.Detail)
	}
}

func TestLocalEntityReviewBands(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	listing := func(count int) domain.Sources {
		return domain.Sources{BusinessListing: &domain.ListingResult{
			Found:   true,
			Profile: &domain.BusinessProfile{Name: "Acme Plumbing", Rating: 4.6, ReviewCount: count},
		}}
	}
	if m := findMetric(t, b.LocalEntity(listing(80)), "Google Reviews"); m.Status != domain.StatusGood {
		t.Fatalf("80 reviews: status %q, want good", m.Status)
	}
	if m := findMetric(t, b.LocalEntity(listing(15)), "Google Reviews"); m.Status != domain.StatusWarning {
		t.Fatalf("15 reviews: status %q, want warning", m.Status)
	}
	if m := findMetric(t, b.LocalEntity(listing(3)), "Google Reviews"); m.Status != domain.StatusPoor {
		t.Fatalf("3 reviews: status %q, want poor", m.Status)
	}
}

func TestAIReadinessSchemaCounts(t *testing.T) {
	b := NewBuilder(DefaultThresholds())
	src := domain.Sources{WebsiteScan: &domain.ScanResult{
		Schema: domain.SchemaInfo{
			Types:           []string{"Organization", "WebSite", "FAQPage"},
			HasOrganization: true,
			HasFAQ:          true,
		},
	}}
	g := b.AIReadiness(src)
	if m := findMetric(t, g, "Structured Data"); m.Status != domain.StatusGood {
		t.Fatalf("3 schema types: status %q, want good", m.Status)
	}
	if m := findMetric(t, g, "FAQ Schema"); m.Status != domain.StatusGood {
		t.Fatalf("faq present: status %q, want good", m.Status)
	}
	if m := findMetric(t, g, "Knowledge Panel"); m.Status != domain.StatusWarning {
		t.Fatalf("org schema: status %q, want warning", m.Status)
	}
}

func TestLoadThresholdsOverridesDefaults(t *testing.T) {
	path := t.TempDir() + "/thresholds.yaml"
	yaml := "performance:\n  good: 95\n  warn: 60\nblog_fresh_days: 7\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadThresholds(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Performance.Good != 95 || got.Performance.Warn != 60 {
		t.Fatalf("performance band = %+v", got.Performance)
	}
	if got.BlogFreshDays != 7 {
		t.Fatalf("blog_fresh_days = %d, want 7", got.BlogFreshDays)
	}
	// Untouched bands keep defaults.
	if got.SiteHealth != DefaultThresholds().SiteHealth {
		t.Fatalf("site_health band changed: %+v", got.SiteHealth)
	}
}

func findMetric(t *testing.T, g *domain.MetricGroup, label string) domain.Metric {
	t.Helper()
	for _, m := range g.Metrics {
		if m.Label == label {
			return m
		}
	}
	t.Fatalf("metric %q not found", label)
	return domain.Metric{}
}

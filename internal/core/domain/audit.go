package domain

import "time"

// Provider identifies one of the external data sources an audit draws on.
type Provider string

const (
	ProviderWebsiteScan     Provider = "websiteScan"
	ProviderSpeedAnalysis   Provider = "speedAnalysis"
	ProviderSearchMetrics   Provider = "searchMetrics"
	ProviderBusinessListing Provider = "businessListing"
)

// AllProviders returns every provider in the canonical processing order.
// Refresh rebuilds walk providers in this order so that shared metric
// groups always end up reflecting the same deterministic merge.
func AllProviders() []Provider {
	return []Provider{
		ProviderSpeedAnalysis,
		ProviderWebsiteScan,
		ProviderSearchMetrics,
		ProviderBusinessListing,
	}
}

type MetricStatus string

const (
	StatusGood    MetricStatus = "good"
	StatusWarning MetricStatus = "warning"
	StatusPoor    MetricStatus = "poor"
)

type MetricImpact string

const (
	ImpactHigh         MetricImpact = "high"
	ImpactMedium       MetricImpact = "medium"
	ImpactFoundational MetricImpact = "foundational"
)

// Metric is a single row of an audit report tab. Label is the stable join
// key used by the report UI and the recap system; it never changes across
// rebuilds of the same group.
type Metric struct {
	Label          string       `json:"label"`
	Value          string       `json:"value"`
	Status         MetricStatus `json:"status"`
	Impact         MetricImpact `json:"impact"`
	Detail         string       `json:"detail,omitempty"`
	Why            string       `json:"why,omitempty"`
	Fix            string       `json:"fix,omitempty"`
	ExpectedImpact string       `json:"expectedImpact,omitempty"`
	Difficulty     string       `json:"difficulty,omitempty"`
	Weighted       bool         `json:"weighted,omitempty"`
	Estimated      bool         `json:"estimated,omitempty"`
	Findings       []string     `json:"findings,omitempty"`
}

// MetricGroup is one report tab: an ordered metric list plus its composite
// score. Groups are regenerated wholesale, never patched metric by metric,
// so Score is always the weighted function of exactly the Metrics below it.
type MetricGroup struct {
	Score   int      `json:"score"`
	Metrics []Metric `json:"metrics"`
}

// GroupKey names one of the report tabs.
type GroupKey string

const (
	GroupSitePerformance  GroupKey = "sitePerformance"
	GroupSearchVisibility GroupKey = "searchVisibility"
	GroupContent          GroupKey = "content"
	GroupSocial           GroupKey = "social"
	GroupLocalEntity      GroupKey = "localEntity"
	GroupAIReadiness      GroupKey = "aiReadiness"
)

// AllGroups returns every report tab in display order.
func AllGroups() []GroupKey {
	return []GroupKey{
		GroupSitePerformance,
		GroupSearchVisibility,
		GroupContent,
		GroupSocial,
		GroupLocalEntity,
		GroupAIReadiness,
	}
}

// providerGroups maps each provider to the report tabs it feeds. The
// website scan feeds five tabs at once, and sitePerformance has two
// independent contributors, which is why refresh merges through Sources
// instead of rebuilding from a single provider's view.
var providerGroups = map[Provider][]GroupKey{
	ProviderSpeedAnalysis:   {GroupSitePerformance, GroupContent},
	ProviderWebsiteScan:     {GroupSitePerformance, GroupContent, GroupSocial, GroupLocalEntity, GroupAIReadiness},
	ProviderSearchMetrics:   {GroupSearchVisibility},
	ProviderBusinessListing: {GroupLocalEntity},
}

// GroupsFor returns the report tabs that depend on the given provider.
func GroupsFor(p Provider) []GroupKey {
	return providerGroups[p]
}

// KeywordRanking is one organic keyword position record.
type KeywordRanking struct {
	Keyword    string `json:"keyword"`
	Position   int    `json:"position"`
	Volume     int    `json:"volume"`
	Traffic    int    `json:"traffic"`
	Difficulty int    `json:"difficulty"`
}

// Review is a single customer review excerpt from the listing provider.
type Review struct {
	Author  string  `json:"author"`
	Rating  float64 `json:"rating"`
	TimeAgo string  `json:"timeAgo,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// BusinessProfile is the denormalized listing record. It feeds the
// localEntity tab but is also kept verbatim on the document for display.
type BusinessProfile struct {
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	BusinessStatus string   `json:"businessStatus,omitempty"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	Reviews        []Review `json:"reviews,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	HasPhotos      bool     `json:"hasPhotos"`
	PhotoCount     int      `json:"photoCount"`
	Website        string   `json:"website,omitempty"`
	MapsURL        string   `json:"mapsUrl,omitempty"`
	Verified       bool     `json:"verified"`
}

// RecapEntry is the human-authored override content for one report tab.
type RecapEntry struct {
	Summary     string   `json:"summary,omitempty"`
	Risks       []string `json:"risks,omitempty"`
	Opportunity string   `json:"opportunity,omitempty"`
}

// RecapPatch is a partial recap update for one tab. Nil fields were not
// supplied by the caller and leave the stored value untouched.
type RecapPatch struct {
	Summary     *string  `json:"summary,omitempty"`
	Risks       []string `json:"risks,omitempty"`
	Opportunity *string  `json:"opportunity,omitempty"`
}

// AuditMeta holds the write-once intake parameters of an audit.
type AuditMeta struct {
	URL         string    `json:"url"`
	CompanyName string    `json:"companyName,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	DeepScanID  string    `json:"deepScanId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuditRequest is the intake payload that starts an audit.
type AuditRequest struct {
	URL         string `json:"url"`
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DeepScanID  string `json:"deepScanId"`
}

// AuditDocument is the root persisted entity, keyed by its 10-character id.
// The id doubles as the public access token; anyone holding it can read or
// patch the document.
type AuditDocument struct {
	ID      string    `json:"id"`
	Version int64     `json:"version"`
	Meta    AuditMeta `json:"meta"`

	SitePerformance  *MetricGroup `json:"sitePerformance,omitempty"`
	SearchVisibility *MetricGroup `json:"searchVisibility,omitempty"`
	Content          *MetricGroup `json:"content,omitempty"`
	Social           *MetricGroup `json:"social,omitempty"`
	LocalEntity      *MetricGroup `json:"localEntity,omitempty"`
	AIReadiness      *MetricGroup `json:"aiReadiness,omitempty"`

	Keywords        []KeywordRanking `json:"keywords,omitempty"`
	BusinessListing *BusinessProfile `json:"businessListing,omitempty"`

	// Sources retains the raw provider payloads so a partial refresh can
	// rebuild a shared group from the freshest data of every contributor.
	Sources Sources `json:"sources"`

	ProviderErrors   map[Provider]string   `json:"providerErrors,omitempty"`
	PendingProviders []Provider            `json:"pendingProviders,omitempty"`
	FailedProviders  []Provider            `json:"failedProviders,omitempty"`
	RetryCounts      map[Provider]int      `json:"retryCounts,omitempty"`
	Recap            map[string]RecapEntry `json:"recap,omitempty"`
}

// Group returns the metric group stored under the given tab key.
func (d *AuditDocument) Group(key GroupKey) *MetricGroup {
	switch key {
	case GroupSitePerformance:
		return d.SitePerformance
	case GroupSearchVisibility:
		return d.SearchVisibility
	case GroupContent:
		return d.Content
	case GroupSocial:
		return d.Social
	case GroupLocalEntity:
		return d.LocalEntity
	case GroupAIReadiness:
		return d.AIReadiness
	}
	return nil
}

// SetGroup replaces the metric group stored under the given tab key.
func (d *AuditDocument) SetGroup(key GroupKey, g *MetricGroup) {
	switch key {
	case GroupSitePerformance:
		d.SitePerformance = g
	case GroupSearchVisibility:
		d.SearchVisibility = g
	case GroupContent:
		d.Content = g
	case GroupSocial:
		d.Social = g
	case GroupLocalEntity:
		d.LocalEntity = g
	case GroupAIReadiness:
		d.AIReadiness = g
	}
}

// IsPending reports whether the provider is queued for retry.
func (d *AuditDocument) IsPending(p Provider) bool {
	for _, pending := range d.PendingProviders {
		if pending == p {
			return true
		}
	}
	return false
}

// RemovePending drops the provider from the pending set, preserving order.
func (d *AuditDocument) RemovePending(p Provider) {
	kept := d.PendingProviders[:0]
	for _, pending := range d.PendingProviders {
		if pending != p {
			kept = append(kept, pending)
		}
	}
	if len(kept) == 0 {
		d.PendingProviders = nil
		return
	}
	d.PendingProviders = kept
}

// MarkFailed moves the provider to the permanently-failed set.
func (d *AuditDocument) MarkFailed(p Provider) {
	d.RemovePending(p)
	for _, failed := range d.FailedProviders {
		if failed == p {
			return
		}
	}
	d.FailedProviders = append(d.FailedProviders, p)
}

package domain

// Sources holds the raw structured output of every provider that has ever
// produced usable data for this audit, plus the lightweight existence
// checks. Metric builders consume Sources, so keeping it on the document
// lets a refresh rebuild any group from the union of old and new data.
type Sources struct {
	WebsiteScan     *ScanResult     `json:"websiteScan,omitempty"`
	SpeedAnalysis   *SpeedResult    `json:"speedAnalysis,omitempty"`
	SearchMetrics   *SearchResult   `json:"searchMetrics,omitempty"`
	BusinessListing *ListingResult  `json:"businessListing,omitempty"`
	DeepScan        *DeepScanResult `json:"deepScan,omitempty"`

	HasSitemap *bool `json:"hasSitemap,omitempty"`
	HasRobots  *bool `json:"hasRobots,omitempty"`
}

// CoreWebVitals carries lab measurements in milliseconds (CLS unitless).
type CoreWebVitals struct {
	LCPMs *int     `json:"lcpMs,omitempty"`
	FCPMs *int     `json:"fcpMs,omitempty"`
	TBTMs *int     `json:"tbtMs,omitempty"`
	CLS   *float64 `json:"cls,omitempty"`
}

// ResourceRef points at one page resource flagged by the speed analyzer.
type ResourceRef struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	SizeKB int    `json:"sizeKb,omitempty"`
}

// SpeedResult is the speed-analysis provider output.
type SpeedResult struct {
	PerformanceScore  *int          `json:"performanceScore,omitempty"`
	DesktopScore      *int          `json:"desktopScore,omitempty"`
	MobileScore       *int          `json:"mobileScore,omitempty"`
	MobileFriendly    *bool         `json:"mobileFriendly,omitempty"`
	HTTPS             *bool         `json:"https,omitempty"`
	CoreWebVitals     CoreWebVitals `json:"coreWebVitals"`
	LCPElement        string        `json:"lcpElement,omitempty"`
	BlockingResources []ResourceRef `json:"blockingResources,omitempty"`
	LargestResources  []ResourceRef `json:"largestResources,omitempty"`
	ImageSavingsPct   *int          `json:"imageSavingsPct,omitempty"`
	FullyLoadedMs     *int          `json:"fullyLoadedMs,omitempty"`
	PageBytes         *int64        `json:"pageBytes,omitempty"`
}

// HasData reports whether the analysis produced a real measurement.
func (r *SpeedResult) HasData() bool {
	return r != nil && r.PerformanceScore != nil
}

// ImageStats summarizes homepage image markup.
type ImageStats struct {
	Total              int      `json:"total"`
	MissingAlt         int      `json:"missingAlt"`
	MissingAltPct      *int     `json:"missingAltPct,omitempty"`
	MissingAltExamples []string `json:"missingAltExamples,omitempty"`
}

// PageMeta summarizes head/meta markup of the scanned homepage.
type PageMeta struct {
	Title             string `json:"title,omitempty"`
	TitleLength       int    `json:"titleLength,omitempty"`
	Description       string `json:"description,omitempty"`
	DescriptionLength int    `json:"descriptionLength,omitempty"`
	HasH1             bool   `json:"hasH1"`
	MultipleH1        bool   `json:"multipleH1,omitempty"`
	H1Text            string `json:"h1Text,omitempty"`
	Noindex           bool   `json:"noindex,omitempty"`
	Canonical         string `json:"canonical,omitempty"`
}

// SchemaInfo lists the JSON-LD types found on the page.
type SchemaInfo struct {
	Types            []string `json:"types,omitempty"`
	HasOrganization  bool     `json:"hasOrganization,omitempty"`
	HasLocalBusiness bool     `json:"hasLocalBusiness,omitempty"`
	HasFAQ           bool     `json:"hasFaq,omitempty"`
}

// TagCoverage describes a family of social meta tags.
type TagCoverage struct {
	Complete    bool     `json:"complete"`
	Partial     bool     `json:"partial,omitempty"`
	ActualTitle string   `json:"actualTitle,omitempty"`
	MissingTags []string `json:"missingTags,omitempty"`
}

// ContentStats carries homepage text measurements.
type ContentStats struct {
	Ratio         *int `json:"ratio,omitempty"`
	WordCount     *int `json:"wordCount,omitempty"`
	InternalLinks *int `json:"internalLinks,omitempty"`
	TotalLinks    int  `json:"totalLinks,omitempty"`
	EmptyLinks    int  `json:"emptyLinks,omitempty"`
}

// BlogInfo records whether a content section was discovered.
type BlogInfo struct {
	Detected        bool     `json:"detected"`
	Path            string   `json:"path,omitempty"`
	LastPostDaysAgo *int     `json:"lastPostDaysAgo,omitempty"`
	RecentTitles    []string `json:"recentTitles,omitempty"`
}

// ScanResult is the website-scan provider output: parsed signals from the
// target homepage.
type ScanResult struct {
	SSLValid     bool         `json:"sslValid"`
	HTTP2        bool         `json:"http2"`
	Images       ImageStats   `json:"images"`
	Meta         PageMeta     `json:"meta"`
	Schema       SchemaInfo   `json:"schema"`
	OpenGraph    TagCoverage  `json:"openGraph"`
	TwitterCards TagCoverage  `json:"twitterCards"`
	Content      ContentStats `json:"content"`
	Blog         BlogInfo     `json:"blog"`
}

// HasData reports whether the scan reached the site at all. A fetched and
// parsed homepage is always usable, however sparse its signals.
func (r *ScanResult) HasData() bool {
	return r != nil
}

// DomainOverview is the search provider's top-level domain record.
type DomainOverview struct {
	Rank            int     `json:"rank"`
	OrganicKeywords int     `json:"organicKeywords"`
	OrganicTraffic  int     `json:"organicTraffic"`
	OrganicCostUSD  float64 `json:"organicCostUsd"`
}

// BacklinkStats is the search provider's backlink overview.
type BacklinkStats struct {
	Total            int `json:"total"`
	ReferringDomains int `json:"referringDomains"`
	FollowLinks      int `json:"followLinks"`
	NofollowLinks    int `json:"nofollowLinks"`
}

// Competitor is one auto-discovered organic competitor.
type Competitor struct {
	Domain          string `json:"domain"`
	CommonKeywords  int    `json:"commonKeywords"`
	OrganicKeywords int    `json:"organicKeywords"`
	OrganicTraffic  int    `json:"organicTraffic"`
}

// SearchResult is the search-metrics provider output.
type SearchResult struct {
	Overview    *DomainOverview  `json:"overview,omitempty"`
	Backlinks   *BacklinkStats   `json:"backlinks,omitempty"`
	TopKeywords []KeywordRanking `json:"topKeywords,omitempty"`
	Competitors []Competitor     `json:"competitors,omitempty"`
}

// HasData reports whether the provider returned anything beyond an empty
// shell. The API happily answers with all-null rows for unknown domains.
func (r *SearchResult) HasData() bool {
	if r == nil {
		return false
	}
	return r.Overview != nil || r.Backlinks != nil || len(r.TopKeywords) > 0
}

// ListingResult is the business-listing provider output.
type ListingResult struct {
	Found   bool             `json:"found"`
	Profile *BusinessProfile `json:"profile,omitempty"`
}

// HasData reports whether a listing was actually located. "Place not
// found" is a well-formed response with nothing usable in it.
func (r *ListingResult) HasData() bool {
	return r != nil && r.Found && r.Profile != nil
}

// DeepScanResult is the optional technical site-audit summary, available
// only when the intake supplied a deep-scan project id.
type DeepScanResult struct {
	Score        int `json:"score"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	PagesCrawled int `json:"pagesCrawled"`
}

package report

import (
	"fmt"
	"math"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// SearchVisibility builds the search tab from the SEO-data provider plus
// the sitemap/robots existence checks.
func (b Builder) SearchVisibility(src domain.Sources) *domain.MetricGroup {
	sr := src.SearchMetrics

	var overview *domain.DomainOverview
	var backlinks *domain.BacklinkStats
	var competitors []domain.Competitor
	var topKeywords []domain.KeywordRanking
	if sr != nil {
		overview = sr.Overview
		backlinks = sr.Backlinks
		competitors = sr.Competitors
		topKeywords = sr.TopKeywords
	}

	var kwCount, traffic *int
	var trafficCost float64
	rank := 0
	if overview != nil {
		kwCount = &overview.OrganicKeywords
		traffic = &overview.OrganicTraffic
		trafficCost = overview.OrganicCostUSD
		rank = overview.Rank
	}

	// Authority estimate derived from the global rank; log-scaled so the
	// long tail of small domains still lands in a sane band.
	var estimatedDA *int
	if rank > 0 {
		da := int(math.Round(100 - math.Log10(float64(rank))*15))
		if da > 100 {
			da = 100
		}
		if da < 1 {
			da = 1
		}
		estimatedDA = &da
	}

	var kwFindings []string
	for i, kw := range topKeywords {
		if i == 3 {
			break
		}
		kwFindings = append(kwFindings, fmt.Sprintf("%q at position #%d (%s monthly searches)",
			kw.Keyword, kw.Position, humanInt(kw.Volume)))
	}
	if trafficCost > 0 && len(kwFindings) > 0 {
		kwFindings = append(kwFindings, fmt.Sprintf("Organic traffic value: $%s/mo", humanInt(int(math.Round(trafficCost)))))
	}

	var compFindings []string
	for i, c := range competitors {
		if i == 3 {
			break
		}
		if c.CommonKeywords > 0 && c.OrganicTraffic > 0 {
			compFindings = append(compFindings, fmt.Sprintf("%s: %s shared keywords, %s monthly traffic",
				c.Domain, humanInt(c.CommonKeywords), humanInt(c.OrganicTraffic)))
		}
	}

	var blFindings []string
	if backlinks != nil {
		if backlinks.FollowLinks > 0 && backlinks.NofollowLinks > 0 {
			blFindings = append(blFindings, fmt.Sprintf("%s dofollow / %s nofollow links",
				humanInt(backlinks.FollowLinks), humanInt(backlinks.NofollowLinks)))
		}
		if backlinks.ReferringDomains > 0 {
			blFindings = append(blFindings, fmt.Sprintf("%s unique referring domains", humanInt(backlinks.ReferringDomains)))
		}
	}

	kwMetric := domain.Metric{
		Label:          "Organic Keywords",
		Value:          "Estimated",
		Status:         statusFor(fromInt(kwCount), b.t.OrganicKeywords),
		Detail:         "Search data unavailable for this domain. This may indicate a newer or very small domain.",
		Impact:         domain.ImpactHigh,
		Estimated:      kwCount == nil,
		Findings:       kwFindings,
		Why:            "Every keyword the site does not rank for is a buyer choosing a competitor. High-intent keywords convert at several times the rate of outbound leads.",
		Fix:            "Identify high-value keywords competitors rank for and build content to claim those positions.",
		ExpectedImpact: "Capturing high-intent keywords means qualified prospects finding the site instead of competitors.",
		Difficulty:     "Medium",
	}
	if kwCount != nil {
		kwMetric.Value = humanInt(*kwCount)
		if traffic != nil && *traffic > 0 {
			kwMetric.Detail = fmt.Sprintf("%s keywords driving ~%s monthly visits.", humanInt(*kwCount), humanInt(*traffic))
		} else {
			kwMetric.Detail = fmt.Sprintf("%s keywords ranking.", humanInt(*kwCount))
		}
		if len(competitors) > 0 {
			kwMetric.Fix = fmt.Sprintf("Close the keyword gap against %s to capture their traffic.", competitors[0].Domain)
		}
	}

	// Branded share and indexation need a search-console connection the
	// audit does not have; they always render as estimated placeholders.
	brandedMetric := domain.Metric{
		Label:          "Branded Traffic Share",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Connect Search Console for exact branded traffic data.",
		Impact:         domain.ImpactHigh,
		Estimated:      true,
		Why:            "When prospects search the company name and find little, trust drops before sales gets a chance.",
		Fix:            "Invest in brand visibility: PR mentions, thought leadership, and consistent content.",
		ExpectedImpact: "Strong branded search means warmer prospects and shorter sales cycles.",
		Difficulty:     "High",
	}
	indexMetric := domain.Metric{
		Label:          "Indexation Efficiency",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Connect Search Console for exact indexation data.",
		Impact:         domain.ImpactHigh,
		Estimated:      true,
		Why:            "If a page is not indexed, it cannot appear in search results.",
		Fix:            "Review unindexed pages for thin content, crawl blocks, or noindex tags.",
		ExpectedImpact: "Indexing all quality pages unlocks additional ranking opportunities.",
		Difficulty:     "Low",
	}

	daMetric := domain.Metric{
		Label:          "Domain Authority Score",
		Value:          "Estimated",
		Status:         statusFor(fromInt(estimatedDA), b.t.DomainAuthority),
		Detail:         "Search data unavailable for this domain.",
		Impact:         domain.ImpactMedium,
		Estimated:      estimatedDA == nil,
		Findings:       compFindings,
		Why:            "Higher authority means pages outrank competitors for the same keywords.",
		Fix:            "Build high-quality backlinks through guest posts, digital PR, and industry partnerships.",
		ExpectedImpact: "Reaching an authority score of 45+ would significantly improve ranking potential.",
		Difficulty:     "High",
	}
	if estimatedDA != nil {
		daMetric.Value = fmt.Sprintf("%d/100", *estimatedDA)
		daMetric.Detail = fmt.Sprintf("Global rank: #%s.", humanInt(rank))
	}

	var totalBacklinks *int
	if backlinks != nil {
		totalBacklinks = &backlinks.Total
	}
	blMetric := domain.Metric{
		Label:          "Backlink Profile",
		Value:          "Estimated",
		Status:         statusFor(fromInt(totalBacklinks), b.t.Backlinks),
		Detail:         "Backlink data unavailable for this domain yet.",
		Impact:         domain.ImpactMedium,
		Estimated:      totalBacklinks == nil,
		Findings:       blFindings,
		Why:            "Quality backlinks are endorsements that tell search engines to rank the site higher.",
		Fix:            "Disavow toxic links and pursue link-building campaigns targeting high-authority domains.",
		ExpectedImpact: "Improving link quality can lift rankings for mid-to-high difficulty keywords.",
		Difficulty:     "High",
	}
	if totalBacklinks != nil {
		if backlinks.ReferringDomains > 0 {
			blMetric.Value = humanInt(*totalBacklinks)
			blMetric.Detail = fmt.Sprintf("%s total links from %s domains.",
				humanInt(*totalBacklinks), humanInt(backlinks.ReferringDomains))
		} else {
			blMetric.Value = humanInt(*totalBacklinks)
			blMetric.Detail = fmt.Sprintf("%s total backlinks.", humanInt(*totalBacklinks))
		}
	}

	sitemapMetric := b.existenceMetric("XML Sitemap Status", src.HasSitemap,
		"Sitemap detected at /sitemap.xml.", "No sitemap found at /sitemap.xml.",
		"A sitemap helps search engines discover and understand the structure of the site.",
		"Create and submit an XML sitemap.", "Maintains efficient crawl discovery.", domain.StatusPoor)
	robotsMetric := b.existenceMetric("Robots.txt Configuration", src.HasRobots,
		"Crawl directives found.", "No robots.txt found.",
		"Robots.txt controls which pages search engines can access.",
		"Create a robots.txt file.", "Ensures search engines can access all important pages.", domain.StatusWarning)

	return group([]domain.Metric{
		kwMetric, brandedMetric, indexMetric, daMetric, blMetric, sitemapMetric, robotsMetric,
	})
}

func (b Builder) existenceMetric(label string, present *bool, foundDetail, missingDetail, why, fix, impact string, missingStatus domain.MetricStatus) domain.Metric {
	m := domain.Metric{
		Label:          label,
		Value:          "Checking...",
		Status:         domain.StatusWarning,
		Impact:         domain.ImpactFoundational,
		Why:            why,
		Fix:            fix,
		ExpectedImpact: impact,
		Difficulty:     "Low",
	}
	switch {
	case present == nil:
		m.Estimated = true
	case *present:
		m.Value = "Found"
		m.Status = domain.StatusGood
		m.Detail = foundDetail
		m.Fix = "No action needed."
		m.Difficulty = "N/A"
	default:
		m.Value = "Not Found"
		m.Status = missingStatus
		m.Detail = missingDetail
	}
	return m
}

// Keywords builds the standalone keyword ranking list. An empty or absent
// provider result yields an empty list, never a nil-metric placeholder:
// keyword rows are data, not report metrics.
func (b Builder) Keywords(src domain.Sources) []domain.KeywordRanking {
	if src.SearchMetrics == nil {
		return nil
	}
	return src.SearchMetrics.TopKeywords
}

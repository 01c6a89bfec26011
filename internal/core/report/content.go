package report

import (
	"fmt"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// Content builds the content tab. It reads mostly from the website scan;
// the speed analysis only contributes indirectly through shared signals.
func (b Builder) Content(src domain.Sources) *domain.MetricGroup {
	scan := src.WebsiteScan

	var blog domain.BlogInfo
	var content domain.ContentStats
	var meta domain.PageMeta
	if scan != nil {
		blog = scan.Blog
		content = scan.Content
		meta = scan.Meta
	}

	var blogFindings []string
	if blog.Path != "" {
		blogFindings = append(blogFindings, "Content page found at: "+blog.Path)
	}
	if blog.LastPostDaysAgo != nil {
		blogFindings = append(blogFindings, fmt.Sprintf("Last detected post: %d days ago", *blog.LastPostDaysAgo))
	}
	for _, t := range blog.RecentTitles {
		blogFindings = append(blogFindings, fmt.Sprintf("Recent post: %q", t))
	}
	if blog.Detected && blog.LastPostDaysAgo == nil {
		blogFindings = append(blogFindings, "Blog page detected but no post dates could be extracted; site may use JavaScript rendering")
	}

	var metaFindings []string
	if meta.Description != "" {
		metaFindings = append(metaFindings, fmt.Sprintf("Your meta description: %q", truncate(meta.Description, 120)))
		switch {
		case meta.DescriptionLength < b.t.MetaDescMin:
			metaFindings = append(metaFindings, fmt.Sprintf("Length: %d chars; consider expanding to 150-160 chars for full SERP display", meta.DescriptionLength))
		case meta.DescriptionLength > b.t.MetaDescMax:
			metaFindings = append(metaFindings, fmt.Sprintf("Length: %d chars; may be truncated in search results (target: 150-160)", meta.DescriptionLength))
		default:
			metaFindings = append(metaFindings, fmt.Sprintf("Length: %d chars; good length for search results", meta.DescriptionLength))
		}
	} else if scan != nil {
		metaFindings = append(metaFindings, "No meta description found on homepage; Google will auto-generate one from page content")
	}

	var h1Findings []string
	if meta.H1Text != "" {
		h1Findings = append(h1Findings, fmt.Sprintf("Your H1: %q", meta.H1Text))
	}
	if meta.MultipleH1 {
		h1Findings = append(h1Findings, "Multiple H1 tags detected; best practice is one H1 per page")
	}
	if meta.Title != "" {
		h1Findings = append(h1Findings, fmt.Sprintf("Page title: %q (%d chars)", truncate(meta.Title, 80), meta.TitleLength))
	}

	blogMetric := domain.Metric{
		Label:          "Blog Page Exists",
		Value:          "Checking...",
		Status:         domain.StatusPoor,
		Detail:         "No blog, news, or resource section found on this site.",
		Weighted:       true,
		Impact:         domain.ImpactFoundational,
		Why:            "A blog is the foundation for content marketing.",
		Fix:            "Create a blog section for ongoing content.",
		ExpectedImpact: "Provides infrastructure for ongoing content strategy.",
		Difficulty:     "Medium",
	}
	switch {
	case scan == nil:
		blogMetric.Status = domain.StatusWarning
		blogMetric.Estimated = true
		blogMetric.Detail = "Homepage scan unavailable."
	case blog.Detected:
		blogMetric.Value = "Yes"
		blogMetric.Status = domain.StatusGood
		path := blog.Path
		if path == "" {
			path = "/blog"
		}
		blogMetric.Detail = "Content page detected at " + path + "."
		blogMetric.Fix = "No action needed."
		blogMetric.Difficulty = "N/A"
	default:
		blogMetric.Value = "Not Found"
	}

	freshMetric := domain.Metric{
		Label:          "Content Freshness",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Weighted:       true,
		Impact:         domain.ImpactHigh,
		Estimated:      true,
		Findings:       blogFindings,
		Why:            "Stale content signals an inactive business. Prospects researching the company see outdated pages and move on to competitors who look alive.",
		Fix:            "Publish at least twice a month with keyword-targeted content answering real buyer questions.",
		ExpectedImpact: "Active publishers see 20-40% more organic traffic, which means qualified leads arriving on autopilot.",
		Difficulty:     "Medium",
	}
	if blog.LastPostDaysAgo != nil {
		days := *blog.LastPostDaysAgo
		freshMetric.Value = fmt.Sprintf("%d days since last post", days)
		freshMetric.Estimated = false
		switch {
		case days <= b.t.BlogFreshDays:
			freshMetric.Status = domain.StatusGood
			freshMetric.Detail = "Content is being published regularly."
		case days <= b.t.BlogAgingDays:
			freshMetric.Status = domain.StatusWarning
			freshMetric.Detail = "Content is aging; search engines favor active publishers."
		default:
			freshMetric.Status = domain.StatusPoor
			freshMetric.Detail = "Stale content signals an inactive site to search engines."
		}
	} else if blog.Detected {
		freshMetric.Detail = "Blog detected but no post dates could be extracted. Site may use JavaScript rendering."
	} else {
		freshMetric.Detail = "No blog page found to analyze content freshness."
	}

	metaMetric := domain.Metric{
		Label:          "Meta Descriptions",
		Value:          "Missing",
		Status:         domain.StatusPoor,
		Detail:         "No meta description on homepage; Google will auto-generate one.",
		Impact:         domain.ImpactHigh,
		Findings:       metaFindings,
		Why:            "The meta description is the ad copy in search results. A weak one means prospects scroll past to a competitor.",
		Fix:            "Write compelling meta descriptions that sell the click, prioritizing high-traffic pages first.",
		ExpectedImpact: "Better descriptions can lift click-through rates 5-10% from the same rankings.",
		Difficulty:     "Low",
	}
	if scan == nil {
		metaMetric.Value = "Checking..."
		metaMetric.Status = domain.StatusWarning
		metaMetric.Estimated = true
		metaMetric.Detail = "Homepage scan unavailable."
	} else if meta.Description != "" {
		metaMetric.Value = fmt.Sprintf("%d chars", meta.DescriptionLength)
		metaMetric.Detail = "Homepage meta description found."
		if meta.DescriptionLength >= b.t.MetaDescMin && meta.DescriptionLength <= b.t.MetaDescMax {
			metaMetric.Status = domain.StatusGood
		} else {
			metaMetric.Status = domain.StatusWarning
		}
	}

	h1Metric := domain.Metric{
		Label:          "H1 Tags",
		Value:          "Checking...",
		Status:         domain.StatusWarning,
		Impact:         domain.ImpactFoundational,
		Findings:       h1Findings,
		Why:            "H1 tags tell search engines the primary topic of each page.",
		Fix:            "Add a unique H1 heading to every page.",
		ExpectedImpact: "Clear page topic signals for search engines.",
		Difficulty:     "Low",
	}
	switch {
	case scan == nil:
		h1Metric.Estimated = true
	case meta.HasH1 && meta.MultipleH1:
		h1Metric.Value = "Multiple Found"
		h1Metric.Status = domain.StatusWarning
		h1Metric.Detail = "Multiple H1 tags detected; use only one per page."
		h1Metric.Fix = "Consolidate to a single H1 per page."
	case meta.HasH1:
		h1Metric.Value = "Present"
		h1Metric.Status = domain.StatusGood
		h1Metric.Detail = "Homepage has a single, proper H1 tag."
		h1Metric.Fix = "No action needed."
		h1Metric.Difficulty = "N/A"
	default:
		h1Metric.Value = "Missing"
		h1Metric.Status = domain.StatusPoor
		h1Metric.Detail = "No H1 heading found on homepage."
	}

	timeMetric := analyticsPlaceholder("Avg. Time on Page", domain.ImpactMedium,
		"Low time on page suggests content isn't engaging visitors.",
		"Improve content depth, add visuals, and use better formatting.",
		"Reaching a 2m+ average can improve engagement signals.", "Medium")
	bounceMetric := analyticsPlaceholder("Bounce Rate", domain.ImpactHigh,
		"A high bounce rate means paying for visitors who leave without converting. That's wasted budget.",
		"Speed up the site, strengthen above-the-fold messaging, and add clear next steps on every page.",
		"Cutting bounce rate below 50% means more of the existing traffic converts without spending more.", "Medium")
	readMetric := domain.Metric{
		Label:          "Readability Score",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Full readability analysis requires content parsing.",
		Impact:         domain.ImpactMedium,
		Estimated:      true,
		Why:            "Complex content limits the audience.",
		Fix:            "Simplify sentence structure and replace jargon with plain language.",
		ExpectedImpact: "Broader accessibility can increase engagement.",
		Difficulty:     "Low",
	}

	wordMetric := domain.Metric{
		Label:          "Word Count (top pages)",
		Value:          "Estimated",
		Status:         statusFor(fromInt(content.WordCount), b.t.WordCount),
		Detail:         "Word count unavailable.",
		Impact:         domain.ImpactHigh,
		Estimated:      content.WordCount == nil,
		Why:            "Thin pages don't convince anyone to buy. Prospects need depth and expertise before they pick up the phone.",
		Fix:            "Expand key landing pages to 1,200+ words with the kind of detail that builds buyer confidence.",
		ExpectedImpact: "In-depth pages rank higher and convert better; they do the selling before the first call.",
		Difficulty:     "Medium",
	}
	if content.WordCount != nil {
		wordMetric.Value = fmt.Sprintf("~%s words", humanInt(*content.WordCount))
		wordMetric.Detail = fmt.Sprintf("Homepage contains approximately %s words.", humanInt(*content.WordCount))
	}

	linkMetric := domain.Metric{
		Label:          "Internal Links / Page",
		Value:          "Estimated",
		Status:         statusFor(fromInt(content.InternalLinks), b.t.InternalLinks),
		Detail:         "Internal link count unavailable.",
		Impact:         domain.ImpactMedium,
		Estimated:      content.InternalLinks == nil,
		Why:            "Internal links distribute page authority and help search engines discover content.",
		Fix:            "Add 3-5 contextual internal links per page, prioritizing high-value pages.",
		ExpectedImpact: "Better internal linking can improve crawl depth.",
		Difficulty:     "Low",
	}
	if content.InternalLinks != nil {
		linkMetric.Value = fmt.Sprintf("%d found", *content.InternalLinks)
		linkMetric.Detail = fmt.Sprintf("%d internal links detected on homepage.", *content.InternalLinks)
	}

	ratioMetric := domain.Metric{
		Label:          "Content-to-Code Ratio",
		Value:          "Estimated",
		Status:         statusFor(fromInt(content.Ratio), b.t.ContentRatio),
		Detail:         "Ratio unavailable.",
		Impact:         domain.ImpactMedium,
		Estimated:      content.Ratio == nil,
		Why:            "A low ratio means more HTML/scripts than actual content.",
		Fix:            "Reduce unnecessary scripts and add more substantive content.",
		ExpectedImpact: "Improving the ratio to 25%+ signals content-rich pages.",
		Difficulty:     "Medium",
	}
	if content.Ratio != nil {
		ratioMetric.Value = fmt.Sprintf("%d%%", *content.Ratio)
		ratioMetric.Detail = fmt.Sprintf("%d%% of the page is readable content (target: 25%%+).", *content.Ratio)
	}

	dupMetric := domain.Metric{
		Label:          "Duplicate Content",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Full duplicate analysis requires a multi-page crawl.",
		Impact:         domain.ImpactHigh,
		Estimated:      true,
		Why:            "Duplicate content confuses search engines about which page to rank.",
		Fix:            "Write unique content for each page and add canonical tags.",
		ExpectedImpact: "Resolving duplicates allows proper indexation.",
		Difficulty:     "Low",
	}

	return group([]domain.Metric{
		blogMetric, freshMetric, metaMetric, h1Metric, timeMetric, bounceMetric,
		readMetric, wordMetric, linkMetric, ratioMetric, dupMetric,
	})
}

// analyticsPlaceholder is an always-estimated metric for signals that need
// an analytics integration the audit does not have.
func analyticsPlaceholder(label string, impact domain.MetricImpact, why, fix, expected, difficulty string) domain.Metric {
	return domain.Metric{
		Label:          label,
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Requires Google Analytics integration.",
		Impact:         impact,
		Estimated:      true,
		Why:            why,
		Fix:            fix,
		ExpectedImpact: expected,
		Difficulty:     difficulty,
	}
}

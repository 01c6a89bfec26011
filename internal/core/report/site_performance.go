// Package report turns raw provider payloads into the metric groups that
// make up an audit. Builders are pure: given the same Sources they emit
// the same group, each group always carries its full fixed label set, and
// missing provider data degrades individual metrics to estimated
// placeholders instead of dropping them.
package report

import (
	"fmt"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// Builder holds the threshold configuration shared by all group builders.
type Builder struct {
	t Thresholds
}

func NewBuilder(t Thresholds) Builder {
	return Builder{t: t}
}

// SitePerformance builds the site/performance tab from the speed analysis
// and the website scan, preferring whichever carries the signal. The
// optional deep scan supplies the Site Health headline when present.
func (b Builder) SitePerformance(src domain.Sources) *domain.MetricGroup {
	speed := src.SpeedAnalysis
	scan := src.WebsiteScan

	var perfScore *int
	var mobileFriendly, https *bool
	if speed != nil {
		perfScore = speed.PerformanceScore
		mobileFriendly = speed.MobileFriendly
		if speed.HTTPS != nil {
			https = speed.HTTPS
		}
	}
	if scan != nil {
		v := scan.SSLValid
		https = &v
	}

	healthFindings := b.healthFindings(scan)
	speedFindings := b.speedFindings(speed)
	imgFindings, altFindings, imgImprovePct, totalImages, missingAlt := b.imageSignals(speed, scan)

	siteHealth := b.siteHealthMetric(src.DeepScan, healthFindings)

	perfMetric := domain.Metric{
		Label:          "Performance Score",
		Value:          "Analyzing...",
		Status:         statusFor(fromInt(perfScore), b.t.Performance),
		Impact:         domain.ImpactHigh,
		Findings:       speedFindings,
		Why:            "Over half of mobile visitors abandon pages that take more than 3 seconds. Every second of delay costs leads.",
		Fix:            "Compress images, lazy-load below the fold, enable caching, and defer non-critical JavaScript.",
		ExpectedImpact: "Sub-3-second loads can cut bounce rates by 20-30%.",
		Difficulty:     "Medium",
	}
	if perfScore != nil {
		perfMetric.Value = fmt.Sprintf("%d%%", *perfScore)
		if speed.DesktopScore != nil && speed.MobileScore != nil {
			perfMetric.Detail = fmt.Sprintf("Desktop: %d%% | Mobile: %d%%", *speed.DesktopScore, *speed.MobileScore)
		}
	} else {
		perfMetric.Estimated = true
	}

	mobileMetric := domain.Metric{
		Label:          "Mobile Optimization",
		Value:          "Checking...",
		Status:         domain.StatusWarning,
		Impact:         domain.ImpactFoundational,
		Why:            "Google uses mobile-first indexing; the mobile site is the site for ranking purposes.",
		Fix:            "Implement responsive design and fix mobile usability issues.",
		ExpectedImpact: "Maintains eligibility for mobile search rankings.",
		Difficulty:     "Medium",
	}
	switch {
	case mobileFriendly != nil && *mobileFriendly:
		mobileMetric.Value = "Yes"
		mobileMetric.Status = domain.StatusGood
		mobileMetric.Fix = "No action needed."
		mobileMetric.Difficulty = "N/A"
	case mobileFriendly != nil:
		mobileMetric.Value = "No"
		mobileMetric.Status = domain.StatusPoor
	default:
		mobileMetric.Estimated = true
	}

	sslMetric := domain.Metric{
		Label:          "Security & SSL",
		Impact:         domain.ImpactFoundational,
		Why:            "SSL is a ranking signal and browsers flag non-secure sites with warnings.",
		ExpectedImpact: "Maintains trust signals and prevents browser security warnings.",
	}
	switch {
	case https != nil && *https:
		sslMetric.Value = "Valid"
		sslMetric.Status = domain.StatusGood
		sslMetric.Detail = "HTTPS is active and the certificate is valid."
		sslMetric.Fix = "No action needed. Ensure the certificate auto-renews."
		sslMetric.Difficulty = "N/A"
	case https != nil:
		sslMetric.Value = "Invalid"
		sslMetric.Status = domain.StatusPoor
		sslMetric.Detail = "Site is not served over HTTPS; browsers will flag it as insecure."
		sslMetric.Fix = "Install an SSL certificate immediately."
		sslMetric.Difficulty = "Low"
	default:
		sslMetric.Value = "Checking..."
		sslMetric.Status = domain.StatusWarning
		sslMetric.Estimated = true
		sslMetric.Fix = "Verify HTTPS is configured."
		sslMetric.Difficulty = "Low"
	}

	http2Metric := domain.Metric{
		Label:          "HTTP/2 Support",
		Value:          "Checking...",
		Status:         domain.StatusWarning,
		Detail:         "HTTP/2 enables multiplexed connections for faster page delivery.",
		Impact:         domain.ImpactFoundational,
		Why:            "HTTP/2 reduces page load times significantly over HTTP/1.1.",
		Fix:            "Enable HTTP/2 on your web server.",
		ExpectedImpact: "Faster page delivery, especially for resource-heavy pages.",
		Difficulty:     "Low",
	}
	if scan != nil {
		if scan.HTTP2 {
			http2Metric.Value = "Enabled"
			http2Metric.Status = domain.StatusGood
			http2Metric.Fix = "No action needed."
			http2Metric.Difficulty = "N/A"
		} else {
			http2Metric.Value = "Not Detected"
		}
	} else {
		http2Metric.Estimated = true
	}

	imgMetric := domain.Metric{
		Label:          "Image Optimization",
		Value:          "Estimated",
		Status:         statusFor(fromInt(imgImprovePct), b.t.ImageImprovement),
		Impact:         domain.ImpactHigh,
		Findings:       capList(imgFindings, 5),
		Why:            "Unoptimized images are the top cause of slow page loads.",
		Fix:            "Convert images to WebP, use responsive srcset, and compress everything above 100KB.",
		ExpectedImpact: "Can reduce page load time by 40-60% on image-heavy pages.",
		Difficulty:     "Low",
	}
	if imgImprovePct != nil {
		imgMetric.Value = fmt.Sprintf("%d%% Improvement Needed", *imgImprovePct)
	} else {
		imgMetric.Estimated = true
	}
	if totalImages > 0 {
		imgMetric.Detail = fmt.Sprintf("%d images detected on homepage.", totalImages)
	}

	var altPct *int
	if scan != nil {
		altPct = scan.Images.MissingAltPct
	}
	altMetric := domain.Metric{
		Label:          "Alt Tags",
		Value:          "Estimated",
		Status:         statusFor(fromInt(altPct), b.t.AltMissingPct),
		Impact:         domain.ImpactMedium,
		Findings:       capList(altFindings, 5),
		Why:            "Alt tags enable image search rankings and are required for accessibility compliance.",
		Fix:            "Add descriptive, keyword-relevant alt text to each image.",
		ExpectedImpact: "Opens traffic channels through image search.",
		Difficulty:     "Low",
	}
	if altPct != nil {
		altMetric.Value = fmt.Sprintf("%d of %d missing", missingAlt, totalImages)
		altMetric.Detail = fmt.Sprintf("%d%% of images are missing alt text.", *altPct)
	} else {
		altMetric.Estimated = true
	}

	return group([]domain.Metric{
		siteHealth, perfMetric, mobileMetric, sslMetric, http2Metric, imgMetric, altMetric,
	})
}

func (b Builder) siteHealthMetric(deep *domain.DeepScanResult, findings []string) domain.Metric {
	m := domain.Metric{
		Label:          "Site Health",
		Value:          "Requires Deep Scan Project",
		Status:         domain.StatusWarning,
		Detail:         "Add a deep-scan project id to pull live technical site health data.",
		Weighted:       true,
		Impact:         domain.ImpactHigh,
		Findings:       findings,
		Why:            "Technical issues silently drive away prospects. Every crawl error or broken page is a potential customer who never sees the offer.",
		Fix:            "Run a full technical audit to resolve broken links, redirect chains, and crawl errors.",
		ExpectedImpact: "A clean site means more prospects reach conversion pages instead of bouncing.",
		Difficulty:     "Medium",
	}
	if deep != nil {
		score := float64(deep.Score)
		m.Value = fmt.Sprintf("%d%%", deep.Score)
		m.Status = statusFor(&score, b.t.SiteHealth)
		m.Detail = fmt.Sprintf("Technical audit: %d errors, %d warnings across %d pages.",
			deep.Errors, deep.Warnings, deep.PagesCrawled)
	}
	return m
}

func (b Builder) healthFindings(scan *domain.ScanResult) []string {
	if scan == nil {
		return nil
	}
	var findings []string
	if n := scan.Content.EmptyLinks; n > 0 {
		findings = append(findings, fmt.Sprintf("%d empty or broken link%s found", n, plural(n)))
	}
	if scan.Meta.Noindex {
		findings = append(findings, "Homepage has a noindex tag: search engines are blocked from indexing it")
	}
	return findings
}

func (b Builder) speedFindings(speed *domain.SpeedResult) []string {
	if speed == nil {
		return nil
	}
	var findings []string
	cwv := speed.CoreWebVitals
	if cwv.LCPMs != nil {
		findings = append(findings, fmt.Sprintf("Largest Contentful Paint: %s (target: under 2.5s)", fmtMs(*cwv.LCPMs)))
	}
	if cwv.FCPMs != nil {
		findings = append(findings, fmt.Sprintf("First Contentful Paint: %s", fmtMs(*cwv.FCPMs)))
	}
	if cwv.TBTMs != nil {
		findings = append(findings, fmt.Sprintf("Total Blocking Time: %s", fmtMs(*cwv.TBTMs)))
	}
	if speed.LCPElement != "" {
		findings = append(findings, "LCP element: "+speed.LCPElement)
	}
	if n := len(speed.BlockingResources); n > 0 {
		findings = append(findings, fmt.Sprintf("%d render-blocking resource%s detected", n, plural(n)))
	}
	return findings
}

// imageSignals prefers the analyzer's waste estimate, falling back to the
// scan's missing-alt ratio as a proxy when the analyzer is absent.
func (b Builder) imageSignals(speed *domain.SpeedResult, scan *domain.ScanResult) (imgFindings, altFindings []string, improvePct *int, totalImages, missingAlt int) {
	if scan != nil {
		totalImages = scan.Images.Total
		missingAlt = scan.Images.MissingAlt
		altFindings = scan.Images.MissingAltExamples
	}
	if speed != nil {
		for _, r := range speed.LargestResources {
			if r.Type == "image" || r.Type == "Image" {
				imgFindings = append(imgFindings, fmt.Sprintf("%s (%dKB)", r.URL, r.SizeKB))
			}
		}
		if speed.ImageSavingsPct != nil {
			improvePct = speed.ImageSavingsPct
		}
	}
	if improvePct == nil && totalImages > 0 {
		pct := missingAlt * 100 / totalImages
		improvePct = &pct
	}
	return imgFindings, altFindings, improvePct, totalImages, missingAlt
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

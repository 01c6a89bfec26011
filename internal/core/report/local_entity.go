package report

import (
	"fmt"
	"strings"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// LocalEntity builds the local/entity tab from the business listing and
// the scan's schema signals.
func (b Builder) LocalEntity(src domain.Sources) *domain.MetricGroup {
	listing := src.BusinessListing
	scan := src.WebsiteScan

	var schema domain.SchemaInfo
	if scan != nil {
		schema = scan.Schema
	}

	hasGBP := listing.HasData()
	var profile domain.BusinessProfile
	if hasGBP {
		profile = *listing.Profile
	}

	var gbpFindings []string
	if hasGBP && profile.Name != "" {
		gbpFindings = append(gbpFindings, fmt.Sprintf("Business listed as: %q", profile.Name))
	}
	if len(profile.Categories) > 0 {
		gbpFindings = append(gbpFindings, "Categories: "+strings.Join(capList(profile.Categories, 3), ", "))
	}
	if hasGBP && profile.BusinessStatus != "" {
		gbpFindings = append(gbpFindings, "Status: "+profile.BusinessStatus)
	}

	var reviewFindings []string
	if profile.ReviewCount > 0 && profile.Rating > 0 {
		reviewFindings = append(reviewFindings, fmt.Sprintf("%.1f star average across %d reviews", profile.Rating, profile.ReviewCount))
		if profile.Rating < 4.0 {
			reviewFindings = append(reviewFindings, "Below 4.0 average; may negatively impact click-through from local results")
		}
		if profile.ReviewCount < 20 {
			reviewFindings = append(reviewFindings, "Under 20 reviews; competitors with more reviews will outrank in the local pack")
		}
	}

	var schemaFindings []string
	if len(schema.Types) > 0 {
		schemaFindings = append(schemaFindings, "Found: "+strings.Join(schema.Types, ", "))
	}
	if scan != nil && !schema.HasLocalBusiness {
		schemaFindings = append(schemaFindings, "Missing LocalBusiness schema, critical for local search visibility")
	}
	if scan != nil && !schema.HasFAQ {
		schemaFindings = append(schemaFindings, "Missing FAQ schema, an opportunity for rich results")
	}

	napMetric := domain.Metric{
		Label:          "NAP Consistency",
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         "Full NAP audit requires a multi-directory check.",
		Impact:         domain.ImpactHigh,
		Estimated:      true,
		Why:            "Inconsistent business information across directories erodes trust.",
		Fix:            "Audit and correct all business listings for identical Name, Address, and Phone.",
		ExpectedImpact: "Consistent NAP data is a top-3 local ranking factor.",
		Difficulty:     "Low",
	}

	gbpMetric := domain.Metric{
		Label:          "Verified Google Business Profile",
		Value:          "Not Found",
		Status:         domain.StatusPoor,
		Detail:         "No Google Business Profile found.",
		Impact:         domain.ImpactFoundational,
		Findings:       gbpFindings,
		Why:            "Without a profile the business is invisible in the local map pack, the first thing buyers see when searching nearby.",
		Fix:            "Claim and verify the Google Business Profile.",
		ExpectedImpact: "Maintains eligibility for the local map pack.",
		Difficulty:     "Low",
	}
	if hasGBP {
		gbpMetric.Value = "Yes"
		gbpMetric.Status = domain.StatusGood
		gbpMetric.Detail = "Listing found and operational."
		gbpMetric.Fix = "No action needed."
		gbpMetric.Difficulty = "N/A"
	} else if listing == nil {
		gbpMetric.Value = "Checking..."
		gbpMetric.Status = domain.StatusWarning
		gbpMetric.Estimated = true
		gbpMetric.Detail = "Listing lookup unavailable."
	}

	reviewMetric := domain.Metric{
		Label:          "Google Reviews",
		Value:          "No reviews found",
		Status:         domain.StatusPoor,
		Detail:         "No Google reviews detected.",
		Impact:         domain.ImpactFoundational,
		Findings:       reviewFindings,
		Why:            "Reviews are social proof at the moment of decision. More reviews mean more trust and more calls.",
		Fix:            "Implement a review generation strategy targeting 5+ new reviews per month.",
		ExpectedImpact: "Ongoing review growth sustains local ranking strength.",
		Difficulty:     "Medium",
	}
	switch {
	case profile.ReviewCount >= b.t.ReviewCountGood:
		reviewMetric.Status = domain.StatusGood
		reviewMetric.Fix = "Continue encouraging reviews."
		reviewMetric.Difficulty = "N/A"
	case profile.ReviewCount >= b.t.ReviewCountWarn:
		reviewMetric.Status = domain.StatusWarning
	case listing == nil:
		reviewMetric.Value = "Checking..."
		reviewMetric.Status = domain.StatusWarning
		reviewMetric.Estimated = true
		reviewMetric.Detail = "Listing lookup unavailable."
	}
	if profile.ReviewCount > 0 {
		reviewMetric.Value = fmt.Sprintf("%.1f★ (%d reviews)", profile.Rating, profile.ReviewCount)
		reviewMetric.Detail = fmt.Sprintf("%.1f-star average with %d total reviews.", profile.Rating, profile.ReviewCount)
	}

	schemaMetric := domain.Metric{
		Label:          "Schema Markup",
		Value:          "None detected",
		Status:         domain.StatusPoor,
		Detail:         "No structured data detected.",
		Impact:         domain.ImpactHigh,
		Findings:       schemaFindings,
		Why:            "Limited schema means search engines have an incomplete understanding of the business.",
		Fix:            "Add LocalBusiness, Service, FAQ, and Review schema.",
		ExpectedImpact: "Comprehensive schema enables rich results.",
		Difficulty:     "Medium",
	}
	if n := len(schema.Types); n > 0 {
		schemaMetric.Value = fmt.Sprintf("%d type%s", n, plural(n))
		schemaMetric.Detail = "Types: " + strings.Join(schema.Types, ", ")
	}
	switch {
	case schema.HasLocalBusiness:
		schemaMetric.Status = domain.StatusGood
		schemaMetric.Fix = "Consider adding Service and FAQ schema."
	case schema.HasOrganization:
		schemaMetric.Status = domain.StatusWarning
	case scan == nil:
		schemaMetric.Value = "Checking..."
		schemaMetric.Status = domain.StatusWarning
		schemaMetric.Estimated = true
		schemaMetric.Detail = "Homepage scan unavailable."
	}

	kgMetric := entityPlaceholder("Knowledge Graph",
		"Knowledge Panel detection requires SERP analysis.", domain.ImpactHigh,
		"Without a Knowledge Panel, there is limited control over branded search results.",
		"Build entity signals through Wikidata, consistent schema, and authoritative mentions.",
		"A Knowledge Panel establishes brand authority.", "High")
	assocMetric := entityPlaceholder("Entity Associations",
		"Entity association analysis requires an NLP pipeline.", domain.ImpactHigh,
		"Weak entity associations mean search engines don't understand the brand's relationships.",
		"Build same-as links and earn mentions on authoritative sites.",
		"Stronger entity signals improve visibility.", "High")
	serpMetric := entityPlaceholder("Brand SERP Control",
		"Requires branded SERP analysis.", domain.ImpactHigh,
		"The business should control the majority of page-one results for its brand name.",
		"Optimize owned properties to dominate branded search results.",
		"Full brand SERP control protects reputation.", "Medium")
	wikidataMetric := entityPlaceholder("Wikidata",
		"Wikidata check not yet implemented.", domain.ImpactMedium,
		"Wikidata is a primary data source for Google's Knowledge Graph.",
		"Create a Wikidata entry with accurate business information.",
		"Can trigger Knowledge Panel eligibility.", "Medium")

	hasOrgType := false
	for _, t := range schema.Types {
		if t == "Organization" {
			hasOrgType = true
			break
		}
	}
	sameAsMetric := domain.Metric{
		Label:          "Same-As Links",
		Value:          "Not detected",
		Status:         domain.StatusPoor,
		Detail:         "Cross-platform identity links in schema markup.",
		Impact:         domain.ImpactMedium,
		Why:            "Same-as links connect the website to its social profiles.",
		Fix:            "Add sameAs schema properties linking to all verified social profiles.",
		ExpectedImpact: "Strengthens entity verification.",
		Difficulty:     "Low",
	}
	if hasOrgType {
		sameAsMetric.Value = "Partial"
		sameAsMetric.Status = domain.StatusWarning
	}

	descMetric := entityPlaceholder("Entity Descriptions",
		"Requires cross-platform analysis.", domain.ImpactMedium,
		"Different descriptions across platforms confuse search engines.",
		"Standardize the business description across all platforms.",
		"Consistent messaging strengthens entity clarity.", "Low")

	return group([]domain.Metric{
		napMetric, gbpMetric, reviewMetric, schemaMetric, kgMetric,
		assocMetric, serpMetric, wikidataMetric, sameAsMetric, descMetric,
	})
}

func entityPlaceholder(label, detail string, impact domain.MetricImpact, why, fix, expected, difficulty string) domain.Metric {
	return domain.Metric{
		Label:          label,
		Value:          "Estimated",
		Status:         domain.StatusWarning,
		Detail:         detail,
		Impact:         impact,
		Estimated:      true,
		Why:            why,
		Fix:            fix,
		ExpectedImpact: expected,
		Difficulty:     difficulty,
	}
}

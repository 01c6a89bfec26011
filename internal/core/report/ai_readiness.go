package report

import (
	"fmt"
	"strings"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// AIReadiness builds the AI-search tab. Only the structured-data rows are
// measured from the scan; the rest need SERP or citation tooling and stay
// estimated.
func (b Builder) AIReadiness(src domain.Sources) *domain.MetricGroup {
	scan := src.WebsiteScan

	var schema domain.SchemaInfo
	if scan != nil {
		schema = scan.Schema
	}

	var schemaFindings []string
	if len(schema.Types) > 0 {
		schemaFindings = append(schemaFindings, "Found: "+strings.Join(schema.Types, ", "))
	}

	mentionsMetric := entityPlaceholder("AI Search Mentions",
		"Requires AI search result monitoring.", domain.ImpactHigh,
		"AI-powered search is where the next wave of buyers will discover the business. Absence means competitors show up instead.",
		"Create comprehensive, well-structured content that AI models can cite when answering buyer questions.",
		"Being cited in AI search results opens a growing channel of pre-qualified prospects.", "High")

	structuredMetric := domain.Metric{
		Label:          "Structured Data",
		Value:          "None detected",
		Status:         domain.StatusPoor,
		Detail:         "No structured data found on homepage.",
		Impact:         domain.ImpactHigh,
		Findings:       schemaFindings,
		Why:            "Structured data helps search engines and AI systems understand the content.",
		Fix:            "Implement Organization, FAQ, Service, and LocalBusiness schema.",
		ExpectedImpact: "Full structured data can enable rich results and improve AI content understanding.",
		Difficulty:     "Medium",
	}
	switch n := len(schema.Types); {
	case n >= 3:
		structuredMetric.Value = fmt.Sprintf("%d types found", n)
		structuredMetric.Status = domain.StatusGood
		structuredMetric.Detail = "Detected: " + strings.Join(schema.Types, ", ")
	case n > 0:
		structuredMetric.Value = fmt.Sprintf("%d type%s found", n, plural(n))
		structuredMetric.Status = domain.StatusWarning
		structuredMetric.Detail = "Detected: " + strings.Join(schema.Types, ", ")
	case scan == nil:
		structuredMetric.Value = "Checking..."
		structuredMetric.Status = domain.StatusWarning
		structuredMetric.Estimated = true
		structuredMetric.Detail = "Homepage scan unavailable."
	}

	entityMetric := entityPlaceholder("Entity Recognition",
		"Requires entity graph analysis.", domain.ImpactHigh,
		"If search engines don't recognize the brand as a distinct entity, control over branded search is lost.",
		"Build entity signals through consistent NAP data, schema markup, and authoritative mentions.",
		"Strong entity recognition enables Knowledge Panels.", "High")
	depthMetric := entityPlaceholder("Content Depth",
		"Requires full-site content analysis.", domain.ImpactMedium,
		"Shallow content is unlikely to be cited by AI systems.",
		"Expand key pages with comprehensive, expert-level content.",
		"Deeper content increases citation likelihood.", "Medium")

	faqMetric := domain.Metric{
		Label:          "FAQ Schema",
		Value:          "Not Found",
		Status:         domain.StatusPoor,
		Impact:         domain.ImpactMedium,
		Why:            "FAQ schema enables rich results and provides content AI systems can directly cite.",
		Fix:            "Add FAQ schema to service pages and pages addressing common questions.",
		ExpectedImpact: "FAQ rich results can increase page real estate in SERPs by up to 50%.",
		Difficulty:     "Low",
	}
	switch {
	case schema.HasFAQ:
		faqMetric.Value = "Present"
		faqMetric.Status = domain.StatusGood
	case scan == nil:
		faqMetric.Value = "Checking..."
		faqMetric.Status = domain.StatusWarning
		faqMetric.Estimated = true
	}

	topicalMetric := entityPlaceholder("Topical Authority",
		"Requires content cluster analysis.", domain.ImpactHigh,
		"Topical authority signals expertise, critical for ranking and AI citations.",
		"Build content clusters around core topics.",
		"Strong topical authority can improve rankings across content clusters.", "High")
	citationMetric := entityPlaceholder("Citation Likelihood",
		"Requires citation source analysis.", domain.ImpactHigh,
		"Low citation likelihood means AI search tools are unlikely to reference the content.",
		"Create definitive, data-rich content that serves as a primary source.",
		"Increasing citation likelihood opens a growing traffic channel.", "High")

	panelMetric := domain.Metric{
		Label:          "Knowledge Panel",
		Value:          "Not detected",
		Status:         domain.StatusPoor,
		Impact:         domain.ImpactHigh,
		Why:            "A Knowledge Panel is prime real estate on branded search results. Without one the business looks less established than competitors who have one.",
		Fix:            "Strengthen entity signals through Wikidata, consistent schema, and verified profiles.",
		ExpectedImpact: "A Knowledge Panel increases brand trust and CTR.",
		Difficulty:     "High",
	}
	switch {
	case schema.HasOrganization:
		panelMetric.Value = "Partial (Schema detected)"
		panelMetric.Status = domain.StatusWarning
	case scan == nil:
		panelMetric.Value = "Checking..."
		panelMetric.Status = domain.StatusWarning
		panelMetric.Estimated = true
	}

	return group([]domain.Metric{
		mentionsMetric, structuredMetric, entityMetric, depthMetric,
		faqMetric, topicalMetric, citationMetric, panelMetric,
	})
}

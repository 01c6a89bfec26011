package speed

import (
	"math"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// analysisResponse mirrors the slice of the Lighthouse API payload the
// audit consumes. Everything else in the response is ignored on decode.
type analysisResponse struct {
	LighthouseResult struct {
		Categories map[string]struct {
			Score *float64 `json:"score"`
		} `json:"categories"`
		Audits map[string]lighthouseAudit `json:"audits"`
	} `json:"lighthouseResult"`
	LoadingExperience struct {
		Metrics map[string]struct {
			Percentile *float64 `json:"percentile"`
		} `json:"metrics"`
	} `json:"loadingExperience"`
}

type lighthouseAudit struct {
	Score        *float64 `json:"score"`
	NumericValue *float64 `json:"numericValue"`
	Details      struct {
		Items               []auditItem `json:"items"`
		OverallSavingsBytes float64     `json:"overallSavingsBytes"`
	} `json:"details"`
}

type auditItem struct {
	URL          string  `json:"url"`
	TotalBytes   float64 `json:"totalBytes"`
	WastedBytes  float64 `json:"wastedBytes"`
	TransferSize float64 `json:"transferSize"`
	ResourceType string  `json:"resourceType"`
	Node         *struct {
		Snippet string `json:"snippet"`
	} `json:"node"`
}

// runReport wraps one strategy's response with the lookups combine needs.
type runReport struct {
	resp          *analysisResponse
	perfScore     *float64
	bestPractices *float64
}

func newRunReport(resp *analysisResponse) *runReport {
	r := &runReport{resp: resp}
	if cat, ok := resp.LighthouseResult.Categories["performance"]; ok {
		r.perfScore = cat.Score
	}
	if cat, ok := resp.LighthouseResult.Categories["best-practices"]; ok {
		r.bestPractices = cat.Score
	}
	return r
}

func (r *runReport) audit(name string) (lighthouseAudit, bool) {
	a, ok := r.resp.LighthouseResult.Audits[name]
	return a, ok
}

func (r *runReport) auditScore(name string) *float64 {
	if a, ok := r.audit(name); ok {
		return a.Score
	}
	return nil
}

func (r *runReport) auditMs(name string) *int {
	if a, ok := r.audit(name); ok && a.NumericValue != nil {
		ms := int(math.Round(*a.NumericValue))
		return &ms
	}
	return nil
}

// vitals prefers field data (real-user percentiles) and falls back to lab
// measurements audit by audit. Blocking time has no field equivalent.
func (r *runReport) vitals() domain.CoreWebVitals {
	v := domain.CoreWebVitals{
		LCPMs: r.fieldMs("LARGEST_CONTENTFUL_PAINT_MS"),
		FCPMs: r.fieldMs("FIRST_CONTENTFUL_PAINT_MS"),
		TBTMs: r.auditMs("total-blocking-time"),
	}
	if v.LCPMs == nil {
		v.LCPMs = r.auditMs("largest-contentful-paint")
	}
	if v.FCPMs == nil {
		v.FCPMs = r.auditMs("first-contentful-paint")
	}
	if p := r.fieldValue("CUMULATIVE_LAYOUT_SHIFT_SCORE"); p != nil {
		cls := *p / 100
		v.CLS = &cls
	} else if a, ok := r.audit("cumulative-layout-shift"); ok && a.NumericValue != nil {
		v.CLS = a.NumericValue
	}
	return v
}

func (r *runReport) fieldValue(metric string) *float64 {
	if m, ok := r.resp.LoadingExperience.Metrics[metric]; ok {
		return m.Percentile
	}
	return nil
}

func (r *runReport) fieldMs(metric string) *int {
	if p := r.fieldValue(metric); p != nil {
		ms := int(math.Round(*p))
		return &ms
	}
	return nil
}

func (r *runReport) lcpElement() string {
	a, ok := r.audit("largest-contentful-paint-element")
	if !ok || len(a.Details.Items) == 0 {
		return ""
	}
	if node := a.Details.Items[0].Node; node != nil {
		return node.Snippet
	}
	return ""
}

func (r *runReport) blockingResources() []domain.ResourceRef {
	a, ok := r.audit("render-blocking-resources")
	if !ok {
		return nil
	}
	var refs []domain.ResourceRef
	for _, item := range a.Details.Items {
		if item.URL == "" {
			continue
		}
		refs = append(refs, domain.ResourceRef{
			URL:    item.URL,
			SizeKB: int(item.TotalBytes / 1024),
		})
		if len(refs) == maxListedResources {
			break
		}
	}
	return refs
}

func (r *runReport) largestResources() []domain.ResourceRef {
	a, ok := r.audit("total-byte-weight")
	if !ok {
		return nil
	}
	var refs []domain.ResourceRef
	for _, item := range a.Details.Items {
		if item.URL == "" {
			continue
		}
		refs = append(refs, domain.ResourceRef{
			URL:    item.URL,
			Type:   item.ResourceType,
			SizeKB: int(item.TotalBytes / 1024),
		})
		if len(refs) == maxListedResources {
			break
		}
	}
	return refs
}

// imageSavingsPct is the share of image bytes the optimizer flags as
// wasted, across the classic and modern-format audits.
func (r *runReport) imageSavingsPct() *int {
	var total, wasted float64
	for _, name := range []string{"uses-optimized-images", "modern-image-formats"} {
		a, ok := r.audit(name)
		if !ok {
			continue
		}
		for _, item := range a.Details.Items {
			total += item.TotalBytes
			wasted += item.WastedBytes
		}
	}
	if total <= 0 {
		return nil
	}
	pct := int(math.Round(wasted / total * 100))
	return &pct
}

func (r *runReport) pageBytes() *int64 {
	if a, ok := r.audit("total-byte-weight"); ok && a.NumericValue != nil {
		b := int64(*a.NumericValue)
		return &b
	}
	return nil
}

package report

import "github.com/leadbeacon/beacon/internal/core/domain"

// BuildGroup dispatches to the builder for one report tab. Unknown keys
// return nil; callers iterate domain.AllGroups() so that never happens in
// practice.
func (b Builder) BuildGroup(key domain.GroupKey, src domain.Sources) *domain.MetricGroup {
	switch key {
	case domain.GroupSitePerformance:
		return b.SitePerformance(src)
	case domain.GroupSearchVisibility:
		return b.SearchVisibility(src)
	case domain.GroupContent:
		return b.Content(src)
	case domain.GroupSocial:
		return b.Social(src)
	case domain.GroupLocalEntity:
		return b.LocalEntity(src)
	case domain.GroupAIReadiness:
		return b.AIReadiness(src)
	}
	return nil
}

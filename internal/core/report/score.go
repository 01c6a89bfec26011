package report

import (
	"math"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

var statusValue = map[domain.MetricStatus]float64{
	domain.StatusGood:    100,
	domain.StatusWarning: 50,
	domain.StatusPoor:    0,
}

var impactWeight = map[domain.MetricImpact]float64{
	domain.ImpactHigh:         3,
	domain.ImpactMedium:       1.5,
	domain.ImpactFoundational: 1,
}

// weightedBoost is the extra multiplier for metrics carrying the weighted
// flag.
const weightedBoost = 1.25

// Score computes the composite 0-100 score for a metric list: the weighted
// mean of status base values, where impact picks the weight and the
// weighted flag boosts it. Shared by every group builder so a weighting
// policy change applies uniformly.
func Score(metrics []domain.Metric) int {
	var totalWeight, total float64
	for _, m := range metrics {
		w, ok := impactWeight[m.Impact]
		if !ok {
			w = 1
		}
		if m.Weighted {
			w *= weightedBoost
		}
		totalWeight += w
		total += w * statusValue[m.Status]
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(total / totalWeight))
}

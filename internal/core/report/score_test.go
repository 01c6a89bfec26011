package report

import (
	"testing"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

func TestScoreWeightsImpactAndBoost(t *testing.T) {
	metrics := []domain.Metric{
		{Status: domain.StatusGood, Impact: domain.ImpactHigh},
		{Status: domain.StatusWarning, Impact: domain.ImpactMedium},
		{Status: domain.StatusPoor, Impact: domain.ImpactFoundational},
	}
	// (100*3 + 50*1.5 + 0*1) / (3 + 1.5 + 1) = 375 / 5.5 = 68.18 -> 68
	if got := Score(metrics); got != 68 {
		t.Fatalf("Score = %d, want 68", got)
	}
}

func TestScoreBoostsWeightedMetrics(t *testing.T) {
	plain := []domain.Metric{
		{Status: domain.StatusGood, Impact: domain.ImpactHigh},
		{Status: domain.StatusPoor, Impact: domain.ImpactHigh},
	}
	boosted := []domain.Metric{
		{Status: domain.StatusGood, Impact: domain.ImpactHigh, Weighted: true},
		{Status: domain.StatusPoor, Impact: domain.ImpactHigh},
	}
	// Boosting the good metric pulls the mean above the plain 50.
	if p, b := Score(plain), Score(boosted); b <= p {
		t.Fatalf("boosted score %d not above plain score %d", b, p)
	}
}

func TestScoreEmptyMetrics(t *testing.T) {
	if got := Score(nil); got != 0 {
		t.Fatalf("Score(nil) = %d, want 0", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	metrics := []domain.Metric{
		{Status: domain.StatusGood, Impact: domain.ImpactHigh, Weighted: true},
		{Status: domain.StatusWarning, Impact: domain.ImpactMedium},
		{Status: domain.StatusWarning, Impact: domain.ImpactFoundational},
		{Status: domain.StatusPoor, Impact: domain.ImpactHigh},
	}
	first := Score(metrics)
	for range 10 {
		if got := Score(metrics); got != first {
			t.Fatalf("Score not deterministic: %d then %d", first, got)
		}
	}
}

func TestStatusForMissingSignalIsWarning(t *testing.T) {
	if got := statusFor(nil, Band{Good: 90, Warn: 50}); got != domain.StatusWarning {
		t.Fatalf("statusFor(nil) = %q, want warning", got)
	}
}

func TestStatusForInvertedBand(t *testing.T) {
	band := Band{Good: 10, Warn: 30, LowerIsBetter: true}
	cases := []struct {
		v    float64
		want domain.MetricStatus
	}{
		{5, domain.StatusGood},
		{10, domain.StatusGood},
		{20, domain.StatusWarning},
		{31, domain.StatusPoor},
	}
	for _, tc := range cases {
		if got := statusFor(&tc.v, band); got != tc.want {
			t.Errorf("statusFor(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

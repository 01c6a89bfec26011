package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

var numPrinter = message.NewPrinter(language.English)

// humanInt renders n with thousands separators for display values.
func humanInt(n int) string {
	return numPrinter.Sprintf("%d", n)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// statusFor applies a threshold band to an optional signal. A missing
// signal always degrades to warning: unknown data is neither rewarded nor
// punished.
func statusFor(v *float64, b Band) domain.MetricStatus {
	if v == nil {
		return domain.StatusWarning
	}
	if b.LowerIsBetter {
		switch {
		case *v <= b.Good:
			return domain.StatusGood
		case *v <= b.Warn:
			return domain.StatusWarning
		default:
			return domain.StatusPoor
		}
	}
	switch {
	case *v >= b.Good:
		return domain.StatusGood
	case *v >= b.Warn:
		return domain.StatusWarning
	default:
		return domain.StatusPoor
	}
}

func fromInt(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

func fmtMs(ms int) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

func group(metrics []domain.Metric) *domain.MetricGroup {
	return &domain.MetricGroup{Score: Score(metrics), Metrics: metrics}
}

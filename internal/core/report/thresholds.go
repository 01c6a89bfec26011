package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is a two-threshold status cut. With LowerIsBetter unset, a signal at
// or above Good is good and at or above Warn is warning; inverted bands
// flip the comparison for metrics like "percent needing improvement".
type Band struct {
	Good          float64 `yaml:"good"`
	Warn          float64 `yaml:"warn"`
	LowerIsBetter bool    `yaml:"lower_is_better,omitempty"`
}

// Thresholds collects every tunable status cut used by the metric
// builders. Defaults match the shipped report; deployments can override
// individual bands from a YAML file.
type Thresholds struct {
	SiteHealth       Band `yaml:"site_health"`
	Performance      Band `yaml:"performance"`
	ImageImprovement Band `yaml:"image_improvement"`
	AltMissingPct    Band `yaml:"alt_missing_pct"`
	OrganicKeywords  Band `yaml:"organic_keywords"`
	BrandedShare     Band `yaml:"branded_share"`
	Indexation       Band `yaml:"indexation"`
	DomainAuthority  Band `yaml:"domain_authority"`
	Backlinks        Band `yaml:"backlinks"`
	WordCount        Band `yaml:"word_count"`
	InternalLinks    Band `yaml:"internal_links"`
	ContentRatio     Band `yaml:"content_ratio"`

	BlogFreshDays int `yaml:"blog_fresh_days"`
	BlogAgingDays int `yaml:"blog_aging_days"`

	MetaDescMin int `yaml:"meta_desc_min"`
	MetaDescMax int `yaml:"meta_desc_max"`

	ReviewCountGood int `yaml:"review_count_good"`
	ReviewCountWarn int `yaml:"review_count_warn"`
}

// DefaultThresholds returns the shipped status cuts.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SiteHealth:       Band{Good: 90, Warn: 70},
		Performance:      Band{Good: 90, Warn: 50},
		ImageImprovement: Band{Good: 10, Warn: 30, LowerIsBetter: true},
		AltMissingPct:    Band{Good: 10, Warn: 30, LowerIsBetter: true},
		OrganicKeywords:  Band{Good: 500, Warn: 200},
		BrandedShare:     Band{Good: 35, Warn: 20},
		Indexation:       Band{Good: 90, Warn: 70},
		DomainAuthority:  Band{Good: 50, Warn: 30},
		Backlinks:        Band{Good: 1000, Warn: 200},
		WordCount:        Band{Good: 1200, Warn: 600},
		InternalLinks:    Band{Good: 10, Warn: 3},
		ContentRatio:     Band{Good: 25, Warn: 15},

		BlogFreshDays: 14,
		BlogAgingDays: 45,

		MetaDescMin: 120,
		MetaDescMax: 160,

		ReviewCountGood: 50,
		ReviewCountWarn: 10,
	}
}

// LoadThresholds reads YAML overrides on top of the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse thresholds file: %w", err)
	}
	return t, nil
}

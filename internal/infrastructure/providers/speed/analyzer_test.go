package speed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 1,
		BreakerEnabled:   false,
	})
}

const mobileReport = `{
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.82},
      "best-practices": {"score": 0.93}
    },
    "audits": {
      "is-on-https": {"score": 1},
      "total-blocking-time": {"numericValue": 240},
      "largest-contentful-paint": {"numericValue": 3100},
      "first-contentful-paint": {"numericValue": 1800},
      "cumulative-layout-shift": {"numericValue": 0.08},
      "interactive": {"numericValue": 5200},
      "total-byte-weight": {
        "numericValue": 2400000,
        "details": {"items": [
          {"url": "https://acme-plumbing.com/hero.jpg", "totalBytes": 900000, "resourceType": "Image"},
          {"url": "https://acme-plumbing.com/app.js", "totalBytes": 600000, "resourceType": "Script"}
        ]}
      },
      "render-blocking-resources": {
        "details": {"items": [
          {"url": "https://acme-plumbing.com/theme.css", "totalBytes": 80000}
        ]}
      },
      "uses-optimized-images": {
        "details": {"items": [
          {"url": "https://acme-plumbing.com/hero.jpg", "totalBytes": 900000, "wastedBytes": 450000}
        ]}
      },
      "largest-contentful-paint-element": {
        "details": {"items": [{"node": {"snippet": "<img class=\"hero\">"}}]}
      }
    }
  },
  "loadingExperience": {
    "metrics": {
      "LARGEST_CONTENTFUL_PAINT_MS": {"percentile": 2900}
    }
  }
}`

const desktopReport = `{
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.94},
      "best-practices": {"score": 0.96}
    },
    "audits": {}
  }
}`

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := New(testExecutor(), "test-key")
	a.baseURL = srv.URL
	return a
}

func TestAnalyzeCombinesStrategies(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("strategy") {
		case "mobile":
			w.Write([]byte(mobileReport))
		case "desktop":
			w.Write([]byte(desktopReport))
		default:
			http.Error(w, "missing strategy", http.StatusBadRequest)
		}
	})

	res, err := a.Analyze(context.Background(), "https://acme-plumbing.com")
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasData() {
		t.Fatal("no data in combined result")
	}
	// (0.82 + 0.94) / 2 * 100 = 88
	if *res.PerformanceScore != 88 {
		t.Fatalf("performance = %d", *res.PerformanceScore)
	}
	if *res.MobileScore != 82 || *res.DesktopScore != 94 {
		t.Fatalf("per-strategy scores = %d/%d", *res.MobileScore, *res.DesktopScore)
	}
	if res.MobileFriendly == nil || !*res.MobileFriendly {
		t.Fatalf("mobileFriendly = %v", res.MobileFriendly)
	}
	if res.HTTPS == nil || !*res.HTTPS {
		t.Fatalf("https = %v", res.HTTPS)
	}
}

func TestAnalyzePrefersFieldDataForVitals(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("strategy") == "mobile" {
			w.Write([]byte(mobileReport))
			return
		}
		w.Write([]byte(desktopReport))
	})

	res, err := a.Analyze(context.Background(), "https://acme-plumbing.com")
	if err != nil {
		t.Fatal(err)
	}
	v := res.CoreWebVitals
	// Field percentile wins over the 3100ms lab value.
	if v.LCPMs == nil || *v.LCPMs != 2900 {
		t.Fatalf("lcp = %v", v.LCPMs)
	}
	// No field FCP, so the lab audit fills in.
	if v.FCPMs == nil || *v.FCPMs != 1800 {
		t.Fatalf("fcp = %v", v.FCPMs)
	}
	if v.TBTMs == nil || *v.TBTMs != 240 {
		t.Fatalf("tbt = %v", v.TBTMs)
	}
	if v.CLS == nil || *v.CLS != 0.08 {
		t.Fatalf("cls = %v", v.CLS)
	}
}

func TestAnalyzeResourceBreakdown(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("strategy") == "mobile" {
			w.Write([]byte(mobileReport))
			return
		}
		w.Write([]byte(desktopReport))
	})

	res, err := a.Analyze(context.Background(), "https://acme-plumbing.com")
	if err != nil {
		t.Fatal(err)
	}
	if res.LCPElement != `<img class="hero">` {
		t.Fatalf("lcp element = %q", res.LCPElement)
	}
	if len(res.BlockingResources) != 1 || res.BlockingResources[0].SizeKB != 78 {
		t.Fatalf("blocking = %+v", res.BlockingResources)
	}
	if len(res.LargestResources) != 2 || res.LargestResources[0].Type != "Image" {
		t.Fatalf("largest = %+v", res.LargestResources)
	}
	// 450000 wasted of 900000 image bytes.
	if res.ImageSavingsPct == nil || *res.ImageSavingsPct != 50 {
		t.Fatalf("image savings = %v", res.ImageSavingsPct)
	}
	if res.FullyLoadedMs == nil || *res.FullyLoadedMs != 5200 {
		t.Fatalf("fully loaded = %v", res.FullyLoadedMs)
	}
	if res.PageBytes == nil || *res.PageBytes != 2400000 {
		t.Fatalf("page bytes = %v", res.PageBytes)
	}
}

func TestAnalyzeFailsWhenOneStrategyFails(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("strategy") == "desktop" {
			http.Error(w, "quota exceeded", http.StatusForbidden)
			return
		}
		w.Write([]byte(mobileReport))
	})

	_, err := a.Analyze(context.Background(), "https://acme-plumbing.com")
	if err == nil {
		t.Fatal("expected error when a strategy run fails")
	}
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) || provErr.Provider != domain.ProviderSpeedAnalysis {
		t.Fatalf("err = %v, want speed provider error", err)
	}
}

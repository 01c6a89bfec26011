// Package speed measures page performance through a Lighthouse-compatible
// analysis API, combining a mobile and a desktop run into one result.
package speed

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/httpapi"
	"github.com/leadbeacon/beacon/internal/infrastructure/resilience"
)

const (
	defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	defaultTimeout = 30 * time.Second

	mobileFriendlyFloor = 0.7
	maxListedResources  = 5
)

type Analyzer struct {
	httpClient *http.Client
	exec       *resilience.Executor
	baseURL    string
	apiKey     string
}

func New(exec *resilience.Executor, apiKey string) *Analyzer {
	return &Analyzer{
		httpClient: &http.Client{Timeout: defaultTimeout},
		exec:       exec,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, targetURL string) (*domain.SpeedResult, error) {
	var result *domain.SpeedResult
	err := a.exec.Execute(ctx, "speed_analysis", func(ctx context.Context) error {
		res, err := a.analyzeBothStrategies(ctx, targetURL)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, httpapi.Classify)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderSpeedAnalysis, "analyze page speed", err)
	}
	return result, nil
}

// analyzeBothStrategies runs the mobile and desktop strategies in parallel.
// Either run failing fails the provider: a single-strategy score would be
// silently incomparable with fully measured audits.
func (a *Analyzer) analyzeBothStrategies(ctx context.Context, targetURL string) (*domain.SpeedResult, error) {
	var (
		wg      sync.WaitGroup
		mobile  *runReport
		desktop *runReport
		errs    [2]error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		mobile, errs[0] = a.run(ctx, targetURL, "mobile")
	}()
	go func() {
		defer wg.Done()
		desktop, errs[1] = a.run(ctx, targetURL, "desktop")
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return combine(mobile, desktop), nil
}

func (a *Analyzer) run(ctx context.Context, targetURL, strategy string) (*runReport, error) {
	q := url.Values{}
	q.Set("url", targetURL)
	q.Set("strategy", strategy)
	q.Add("category", "performance")
	q.Add("category", "best-practices")
	if a.apiKey != "" {
		q.Set("key", a.apiKey)
	}

	var resp analysisResponse
	op := fmt.Sprintf("speed_analysis_%s", strategy)
	if err := httpapi.GetJSON(ctx, a.httpClient, a.baseURL+"?"+q.Encode(), &resp, op); err != nil {
		return nil, err
	}
	return newRunReport(&resp), nil
}

func combine(mobile, desktop *runReport) *domain.SpeedResult {
	res := &domain.SpeedResult{}

	if mobile.perfScore != nil && desktop.perfScore != nil {
		avg := int(math.Round((*mobile.perfScore + *desktop.perfScore) / 2 * 100))
		res.PerformanceScore = &avg
	}
	if mobile.perfScore != nil {
		v := int(math.Round(*mobile.perfScore * 100))
		res.MobileScore = &v
	}
	if desktop.perfScore != nil {
		v := int(math.Round(*desktop.perfScore * 100))
		res.DesktopScore = &v
	}
	if mobile.bestPractices != nil {
		friendly := *mobile.bestPractices >= mobileFriendlyFloor
		res.MobileFriendly = &friendly
	}
	if score := mobile.auditScore("is-on-https"); score != nil {
		https := *score == 1
		res.HTTPS = &https
	}

	res.CoreWebVitals = mobile.vitals()
	res.LCPElement = mobile.lcpElement()
	res.BlockingResources = mobile.blockingResources()
	res.LargestResources = mobile.largestResources()
	res.ImageSavingsPct = mobile.imageSavingsPct()
	res.FullyLoadedMs = mobile.auditMs("interactive")
	res.PageBytes = mobile.pageBytes()
	return res
}

// Package search queries the SEO data provider: domain rank, backlink
// profile, top keywords, and organic competitors over its CSV report
// endpoints, plus the optional JSON site-audit snapshot API.
package search

import (
	"context"
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
	defaultBaseURL  = "https://api.semrush.com"
	defaultTimeout  = 15 * time.Second
	defaultDatabase = "us"
	keywordLimit    = 10
	competitorLimit = 5
)

type Client struct {
	httpClient *http.Client
	exec       *resilience.Executor
	baseURL    string
	apiKey     string
	database   string
}

func NewClient(exec *resilience.Executor, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		exec:       exec,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		database:   defaultDatabase,
	}
}

// FetchDomain pulls the four domain reports in parallel. Individual report
// failures degrade the result instead of failing it; the provider errors
// only when no report produced anything and at least one fetch broke.
func (c *Client) FetchDomain(ctx context.Context, targetURL string) (*domain.SearchResult, error) {
	var result *domain.SearchResult
	err := c.exec.Execute(ctx, "search_metrics", func(ctx context.Context) error {
		res, err := c.fetchReports(ctx, httpapi.CleanDomain(targetURL))
		if err != nil {
			return err
		}
		result = res
		return nil
	}, httpapi.Classify)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderSearchMetrics, "fetch domain reports", err)
	}
	return result, nil
}

func (c *Client) fetchReports(ctx context.Context, cleanDomain string) (*domain.SearchResult, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		res  domain.SearchResult
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		overview, err := c.fetchOverview(ctx, cleanDomain)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		res.Overview = overview
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		backlinks, err := c.fetchBacklinks(ctx, cleanDomain)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		res.Backlinks = backlinks
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		keywords, err := c.fetchKeywords(ctx, cleanDomain)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		res.TopKeywords = keywords
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		competitors, err := c.fetchCompetitors(ctx, cleanDomain)
		if err != nil {
			record(err)
			return
		}
		mu.Lock()
		res.Competitors = competitors
		mu.Unlock()
	}()
	wg.Wait()

	if !res.HasData() && len(errs) > 0 {
		return nil, errs[0]
	}
	return &res, nil
}

func (c *Client) fetchOverview(ctx context.Context, cleanDomain string) (*domain.DomainOverview, error) {
	rows, err := c.report(ctx, "/", "domain_ranks", url.Values{
		"domain":         {cleanDomain},
		"export_columns": {"Dn,Rk,Or,Ot,Oc"},
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	row := rows[0]
	return &domain.DomainOverview{
		Rank:            row.intField("Rk"),
		OrganicKeywords: row.intField("Or"),
		OrganicTraffic:  row.intField("Ot"),
		OrganicCostUSD:  row.floatField("Oc"),
	}, nil
}

func (c *Client) fetchBacklinks(ctx context.Context, cleanDomain string) (*domain.BacklinkStats, error) {
	rows, err := c.report(ctx, "/analytics/v1/", "backlinks_overview", url.Values{
		"target":         {cleanDomain},
		"target_type":    {"root_domain"},
		"export_columns": {"total,domains_num,follows_num,nofollows_num"},
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	row := rows[0]
	return &domain.BacklinkStats{
		Total:            row.intField("total"),
		ReferringDomains: row.intField("domains_num"),
		FollowLinks:      row.intField("follows_num"),
		NofollowLinks:    row.intField("nofollows_num"),
	}, nil
}

func (c *Client) fetchKeywords(ctx context.Context, cleanDomain string) ([]domain.KeywordRanking, error) {
	rows, err := c.report(ctx, "/", "domain_organic", url.Values{
		"domain":         {cleanDomain},
		"display_limit":  {"10"},
		"display_sort":   {"tr_desc"},
		"export_columns": {"Ph,Po,Nq,Tr,Kd"},
	})
	if err != nil {
		return nil, err
	}
	var keywords []domain.KeywordRanking
	for _, row := range rows {
		keywords = append(keywords, domain.KeywordRanking{
			Keyword:    row.field("Ph"),
			Position:   row.intField("Po"),
			Volume:     row.intField("Nq"),
			Traffic:    int(math.Round(row.floatField("Tr"))),
			Difficulty: int(math.Round(row.floatField("Kd"))),
		})
		if len(keywords) == keywordLimit {
			break
		}
	}
	return keywords, nil
}

func (c *Client) fetchCompetitors(ctx context.Context, cleanDomain string) ([]domain.Competitor, error) {
	rows, err := c.report(ctx, "/", "domain_organic_organic", url.Values{
		"domain":         {cleanDomain},
		"display_limit":  {"5"},
		"display_sort":   {"np_desc"},
		"export_columns": {"Dn,Np,Or,Ot"},
	})
	if err != nil {
		return nil, err
	}
	var competitors []domain.Competitor
	for _, row := range rows {
		competitors = append(competitors, domain.Competitor{
			Domain:          row.field("Dn"),
			CommonKeywords:  row.intField("Np"),
			OrganicKeywords: row.intField("Or"),
			OrganicTraffic:  row.intField("Ot"),
		})
		if len(competitors) == competitorLimit {
			break
		}
	}
	return competitors, nil
}

// report fetches one CSV report. An "ERROR" body is the provider's way of
// saying "nothing found" for most codes, so it maps to zero rows, not an
// error.
func (c *Client) report(ctx context.Context, path, reportType string, params url.Values) ([]csvRow, error) {
	q := url.Values{}
	q.Set("type", reportType)
	q.Set("key", c.apiKey)
	q.Set("database", c.database)
	for key, vals := range params {
		for _, v := range vals {
			q.Add(key, v)
		}
	}

	body, err := httpapi.GetText(ctx, c.httpClient, c.baseURL+path+"?"+q.Encode(), "search_"+reportType)
	if err != nil {
		return nil, err
	}
	return parseReport(body), nil
}

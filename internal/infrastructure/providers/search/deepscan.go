package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/httpapi"
)

type snapshotList struct {
	Snapshots []snapshotRef `json:"snapshots"`
}

type snapshotRef struct {
	SnapshotID string `json:"snapshot_id"`
	FinishDate int64  `json:"finish_date"`
}

type snapshotDetail struct {
	Quality struct {
		Value int `json:"value"`
	} `json:"quality"`
	Errors       []issueCount `json:"errors"`
	Warnings     []issueCount `json:"warnings"`
	PagesCrawled int          `json:"pages_crawled"`
}

type issueCount struct {
	Count int `json:"count"`
}

// FetchDeepScan resolves the latest finished site-audit snapshot for a
// project and summarizes it.
func (c *Client) FetchDeepScan(ctx context.Context, projectID string) (*domain.DeepScanResult, error) {
	var result *domain.DeepScanResult
	err := c.exec.Execute(ctx, "search_deep_scan", func(ctx context.Context) error {
		res, err := c.fetchSnapshot(ctx, projectID)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, httpapi.Classify)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderSearchMetrics, "fetch deep scan", err)
	}
	return result, nil
}

func (c *Client) fetchSnapshot(ctx context.Context, projectID string) (*domain.DeepScanResult, error) {
	listURL := fmt.Sprintf("%s/reports/v1/projects/%s/siteaudit/snapshots?key=%s",
		c.baseURL, url.PathEscape(projectID), url.QueryEscape(c.apiKey))

	var list snapshotList
	if err := httpapi.GetJSON(ctx, c.httpClient, listURL, &list, "deep_scan_snapshots"); err != nil {
		return nil, err
	}
	if len(list.Snapshots) == 0 {
		return nil, fmt.Errorf("project %s has no finished snapshots", projectID)
	}

	latest := list.Snapshots[0]
	for _, snap := range list.Snapshots[1:] {
		if snap.FinishDate > latest.FinishDate {
			latest = snap
		}
	}

	detailURL := fmt.Sprintf("%s/reports/v1/projects/%s/siteaudit/snapshot?key=%s&snapshot_id=%s",
		c.baseURL, url.PathEscape(projectID), url.QueryEscape(c.apiKey), url.QueryEscape(latest.SnapshotID))

	var detail snapshotDetail
	if err := httpapi.GetJSON(ctx, c.httpClient, detailURL, &detail, "deep_scan_snapshot"); err != nil {
		return nil, err
	}

	return &domain.DeepScanResult{
		Score:        detail.Quality.Value,
		Errors:       sumCounts(detail.Errors),
		Warnings:     sumCounts(detail.Warnings),
		PagesCrawled: detail.PagesCrawled,
	}, nil
}

func sumCounts(issues []issueCount) int {
	total := 0
	for _, issue := range issues {
		total += issue.Count
	}
	return total
}

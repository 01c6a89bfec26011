// Package websitescan fetches the audit target's homepage and extracts
// the on-page signals the report builders consume: meta markup, headings,
// images, structured data, social tags, link graph, and blog detection.
package websitescan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/infrastructure/providers/httpapi"
	"github.com/leadbeacon/beacon/internal/infrastructure/resilience"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "BeaconAuditBot/1.0"
	maxBodyBytes   = 4 << 20
)

type Scanner struct {
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(exec *resilience.Executor) *Scanner {
	return &Scanner{
		httpClient: &http.Client{Timeout: defaultTimeout},
		exec:       exec,
	}
}

func (s *Scanner) Scan(ctx context.Context, targetURL string) (*domain.ScanResult, error) {
	var result *domain.ScanResult
	err := s.exec.Execute(ctx, "website_scan", func(ctx context.Context) error {
		res, err := s.fetchAndParse(ctx, targetURL)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, httpapi.Classify)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderWebsiteScan, "scan homepage", err)
	}
	return result, nil
}

// fetchAndParse downloads the homepage, falling back to plain HTTP when
// the HTTPS fetch fails outright, and parses the returned markup.
func (s *Scanner) fetchAndParse(ctx context.Context, targetURL string) (*domain.ScanResult, error) {
	page, err := s.fetch(ctx, targetURL)
	if err != nil && strings.HasPrefix(targetURL, "https://") {
		if fallback, fbErr := s.fetch(ctx, "http://"+strings.TrimPrefix(targetURL, "https://")); fbErr == nil {
			fallback.sslValid = false
			page = fallback
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch homepage: %w", err)
	}
	return parsePage(page.body, page.finalURL, page.sslValid, page.http2), nil
}

type fetchedPage struct {
	body     string
	finalURL string
	sslValid bool
	http2    bool
}

func (s *Scanner) fetch(ctx context.Context, rawURL string) (*fetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &httpapi.HTTPStatusError{
			Operation:  "website_scan",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read homepage body: %w", err)
	}
	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &fetchedPage{
		body:     string(body),
		finalURL: final,
		sslValid: resp.TLS != nil,
		http2:    resp.ProtoMajor >= 2,
	}, nil
}

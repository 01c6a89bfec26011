// Package probe answers cheap URL existence checks (sitemap.xml,
// robots.txt) with a HEAD request and a GET fallback for servers that
// reject HEAD.
package probe

import (
	"context"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 3 * time.Second
	userAgent      = "BeaconAuditBot/1.0"
)

type Prober struct {
	httpClient *http.Client
}

func New() *Prober {
	return &Prober{httpClient: &http.Client{Timeout: defaultTimeout}}
}

// Exists reports whether the URL answers with a success status. Any
// transport failure counts as absent; the caller treats the answer as a
// best-effort signal, never as an error.
func (p *Prober) Exists(ctx context.Context, rawURL string) bool {
	if ok, decided := p.request(ctx, http.MethodHead, rawURL); decided {
		return ok
	}
	ok, _ := p.request(ctx, http.MethodGet, rawURL)
	return ok
}

// request returns (exists, decided). A 405 leaves the question open so
// the caller can retry with GET.
func (p *Prober) request(ctx context.Context, method, rawURL string) (bool, bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return false, true
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, true
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		return false, false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300, true
}

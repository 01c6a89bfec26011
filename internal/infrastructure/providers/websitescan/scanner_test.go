package websitescan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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

func TestScanParsesFetchedPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	s := New(testExecutor())
	res, err := s.Scan(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if gotUA != userAgent {
		t.Fatalf("user agent = %q", gotUA)
	}
	if res.Meta.Title != "Acme Plumbing | Emergency Plumbers" {
		t.Fatalf("title = %q", res.Meta.Title)
	}
	if res.SSLValid {
		t.Fatal("plain http fetch flagged as valid TLS")
	}
}

func TestScanFallsBackToPlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	// The listener speaks plain HTTP, so the https attempt fails and the
	// scanner retries over http.
	target := "https://" + strings.TrimPrefix(srv.URL, "http://")

	s := New(testExecutor())
	res, err := s.Scan(context.Background(), target)
	if err != nil {
		t.Fatal(err)
	}
	if res.SSLValid {
		t.Fatal("fallback fetch must report invalid SSL")
	}
	if !res.Meta.HasH1 {
		t.Fatal("fallback fetch did not parse the page")
	}
}

func TestScanServerErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(testExecutor())
	_, err := s.Scan(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 503 homepage")
	}
	var provErr *domain.ProviderError
	if !errors.As(err, &provErr) || provErr.Provider != domain.ProviderWebsiteScan {
		t.Fatalf("err = %v, want websiteScan provider error", err)
	}
}

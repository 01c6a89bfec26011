package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/usecase"
	"github.com/leadbeacon/beacon/internal/infrastructure/repository/memory"
	"github.com/leadbeacon/beacon/internal/observability/metrics"
)

type fakeCreator struct {
	doc *domain.AuditDocument
	err error
	req domain.AuditRequest
}

func (f *fakeCreator) Create(_ context.Context, req domain.AuditRequest) (*domain.AuditDocument, error) {
	f.req = req
	return f.doc, f.err
}

type fakeRefresher struct {
	doc   *domain.AuditDocument
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(context.Context, string) (*domain.AuditDocument, error) {
	f.calls++
	return f.doc, f.err
}

type fakeReader struct {
	doc   *domain.AuditDocument
	err   error
	calls int
}

func (f *fakeReader) GetByID(context.Context, string) (*domain.AuditDocument, error) {
	f.calls++
	return f.doc, f.err
}

type fakeRecap struct {
	merged map[string]domain.RecapEntry
	err    error
	patch  map[string]domain.RecapPatch
}

func (f *fakeRecap) Patch(_ context.Context, _ string, patch map[string]domain.RecapPatch) (map[string]domain.RecapEntry, error) {
	f.patch = patch
	return f.merged, f.err
}

type routerFixture struct {
	creator   *fakeCreator
	refresher *fakeRefresher
	reader    *fakeReader
	recap     *fakeRecap
	handler   http.Handler
}

func sampleAudit() *domain.AuditDocument {
	return &domain.AuditDocument{
		ID:      "abc123def4",
		Version: 1,
		Meta:    domain.AuditMeta{URL: "https://acme-plumbing.com"},
		SitePerformance: &domain.MetricGroup{
			Score:   72,
			Metrics: []domain.Metric{{Label: "Performance Score", Value: "88%"}},
		},
	}
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		creator:   &fakeCreator{doc: sampleAudit()},
		refresher: &fakeRefresher{doc: sampleAudit()},
		reader:    &fakeReader{doc: sampleAudit()},
		recap:     &fakeRecap{merged: map[string]domain.RecapEntry{}},
	}
	rt := NewRouter(f.creator, f.refresher, f.reader, f.recap, metrics.NewHTTPServerMetrics("api-test"), 0, 0, 0)
	f.handler = rt.Handler()
	return f
}

func TestCreateAuditEndpoint(t *testing.T) {
	f := newRouterFixture()

	body := `{"url":"acme-plumbing.com","companyName":"Acme Plumbing","email":"j@acme.com"}`
	req := httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(body))
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	if f.creator.req.CompanyName != "Acme Plumbing" {
		t.Fatalf("request not passed through: %+v", f.creator.req)
	}

	var doc domain.AuditDocument
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "abc123def4" {
		t.Fatalf("doc id = %q", doc.ID)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing request id header")
	}
}

func TestCreateAuditRejectsBadJSON(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader("{not json"))
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestCreateAuditMapsInvalidInput(t *testing.T) {
	f := newRouterFixture()
	f.creator.doc = nil
	f.creator.err = domain.WrapError(domain.ErrInvalidInput, "create audit", domain.ErrInvalidInput)

	req := httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(`{"url":""}`))
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestGetAuditByID(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodGet, "/audits/abc123def4", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
	if f.reader.calls != 1 || f.refresher.calls != 0 {
		t.Fatalf("reader/refresher calls = %d/%d", f.reader.calls, f.refresher.calls)
	}
}

func TestGetAuditWithRefreshFlag(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodGet, "/audits/abc123def4?refresh=1", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
	if f.refresher.calls != 1 || f.reader.calls != 0 {
		t.Fatalf("reader/refresher calls = %d/%d", f.reader.calls, f.refresher.calls)
	}
}

func TestGetAuditRejectsMalformedID(t *testing.T) {
	f := newRouterFixture()

	for _, id := range []string{"short", "waytoolongid123", "abc123def4/extra"} {
		req := httptest.NewRequest(http.MethodGet, "/audits/"+id, nil)
		res := httptest.NewRecorder()
		f.handler.ServeHTTP(res, req)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("id %q: status = %d, want 400", id, res.Code)
		}
	}
	if f.reader.calls != 0 {
		t.Fatal("malformed id reached the use case")
	}
}

func TestGetAuditNotFound(t *testing.T) {
	f := newRouterFixture()
	f.reader.doc = nil
	f.reader.err = domain.WrapError(domain.ErrAuditNotFound, "get audit", domain.ErrAuditNotFound)

	req := httptest.NewRequest(http.MethodGet, "/audits/aaaaaaaaaa", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestPatchRecapEndpoint(t *testing.T) {
	f := newRouterFixture()
	f.recap.merged = map[string]domain.RecapEntry{
		"content": {Summary: "thin content"},
	}

	body := `{"recap":{"content":{"summary":"thin content"}}}`
	req := httptest.NewRequest(http.MethodPatch, "/audits/abc123def4", strings.NewReader(body))
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	if len(f.recap.patch) != 1 {
		t.Fatalf("envelope not unwrapped, tabs = %v", f.recap.patch)
	}
	if f.recap.patch["content"].Summary == nil || *f.recap.patch["content"].Summary != "thin content" {
		t.Fatalf("patch not passed through: %+v", f.recap.patch)
	}

	var resp struct {
		Recap map[string]domain.RecapEntry `json:"recap"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Recap["content"].Summary != "thin content" {
		t.Fatalf("merged recap = %+v", resp.Recap)
	}
}

func TestPatchRecapEmptyBody(t *testing.T) {
	f := newRouterFixture()

	// No recap key and an unwrapped tab map are both rejected before the
	// use case runs.
	for _, body := range []string{`{}`, `{"content":{"summary":"thin content"}}`} {
		req := httptest.NewRequest(http.MethodPatch, "/audits/abc123def4", strings.NewReader(body))
		res := httptest.NewRecorder()
		f.handler.ServeHTTP(res, req)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, res.Code)
		}
	}
	if f.recap.patch != nil {
		t.Fatalf("rejected body reached the use case: %+v", f.recap.patch)
	}
}

func TestPatchRecapVersionConflictMapsTo409(t *testing.T) {
	f := newRouterFixture()
	f.recap.merged = nil
	f.recap.err = domain.WrapError(domain.ErrVersionConflict, "patch recap", domain.ErrVersionConflict)

	body := `{"recap":{"content":{"summary":"x"}}}`
	req := httptest.NewRequest(http.MethodPatch, "/audits/abc123def4", strings.NewReader(body))
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestPatchRecapMergesThroughStore(t *testing.T) {
	store := memory.NewAuditStore()
	doc := sampleAudit()
	if err := store.Create(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	f := newRouterFixture()
	rt := NewRouter(f.creator, f.refresher, f.reader, usecase.NewPatchRecapUseCase(store, 3), nil, 0, 0, 0)
	handler := rt.Handler()

	body := `{"recap":{"content":{"summary":"thin content"}}}`
	req := httptest.NewRequest(http.MethodPatch, "/audits/abc123def4", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}
	stored, err := store.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Recap["content"].Summary != "thin content" {
		t.Fatalf("recap not persisted: %+v", stored.Recap)
	}
}

func TestVersionConflictOnPlainGetLabeledGet(t *testing.T) {
	f := newRouterFixture()
	f.reader.doc = nil
	f.reader.err = domain.WrapError(domain.ErrVersionConflict, "get audit", domain.ErrVersionConflict)

	req := httptest.NewRequest(http.MethodGet, "/audits/abc123def4", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d", res.Code)
	}

	scrape := httptest.NewRecorder()
	f.handler.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	exposition := scrape.Body.String()
	if !strings.Contains(exposition, `operation="get"`) {
		t.Fatal("conflict on plain read not labeled get")
	}
	if strings.Contains(exposition, `operation="refresh"`) {
		t.Fatal("plain read conflict labeled refresh")
	}
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
}

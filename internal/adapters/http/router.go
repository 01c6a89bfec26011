// Package httpadapter exposes the audit pipeline over HTTP: intake,
// retrieval with optional refresh, and recap patching.
package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
	"github.com/leadbeacon/beacon/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	creator   ports.AuditCreator
	refresher ports.AuditRefresher
	reader    ports.AuditReader
	recap     ports.RecapPatcher
	metrics   *metrics.HTTPServerMetrics

	rateLimitRPS   int
	rateLimitBurst int
	maxConcurrent  int
}

func NewRouter(
	creator ports.AuditCreator,
	refresher ports.AuditRefresher,
	reader ports.AuditReader,
	recap ports.RecapPatcher,
	m *metrics.HTTPServerMetrics,
	rateLimitRPS, rateLimitBurst, maxConcurrent int,
) *Router {
	return &Router{
		creator:        creator,
		refresher:      refresher,
		reader:         reader,
		recap:          recap,
		metrics:        m,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
		maxConcurrent:  maxConcurrent,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/audits", rt.createAudit)
	mux.HandleFunc("/audits/", rt.auditByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxConcurrent, defaultBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	doc, err := rt.creator.Create(r.Context(), req)
	if err != nil {
		rt.writeError(w, err, "create")
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordAuditCreated(serviceName, len(doc.PendingProviders), groupScores(doc))
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) auditByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/audits/")
	if len(id) != domain.AuditIDLength || strings.ContainsRune(id, '/') {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audit id must be exactly 10 characters"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.getAudit(w, r, id)
	case http.MethodPatch:
		rt.patchRecap(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) getAudit(w http.ResponseWriter, r *http.Request, id string) {
	refresh := r.URL.Query().Get("refresh") == "1"

	var (
		doc *domain.AuditDocument
		err error
	)
	if refresh {
		doc, err = rt.refresher.Refresh(r.Context(), id)
	} else {
		doc, err = rt.reader.GetByID(r.Context(), id)
	}
	operation := "get"
	if refresh {
		operation = "refresh"
	}
	if err != nil {
		rt.writeError(w, err, operation)
		return
	}

	if refresh && rt.metrics != nil {
		outcome := "settled"
		if len(doc.PendingProviders) > 0 {
			outcome = "still_pending"
		}
		rt.metrics.RecordRefresh(serviceName, outcome)
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) patchRecap(w http.ResponseWriter, r *http.Request, id string) {
	// The body nests the tab patches under a "recap" key, mirroring the
	// response shape.
	var body struct {
		Recap map[string]domain.RecapPatch `json:"recap"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(body.Recap) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty recap patch"})
		return
	}

	merged, err := rt.recap.Patch(r.Context(), id, body.Recap)
	if err != nil {
		rt.writeError(w, err, "recap")
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordRecapPatch(serviceName)
	}
	writeJSON(w, http.StatusOK, map[string]any{"recap": merged})
}

func (rt *Router) writeError(w http.ResponseWriter, err error, operation string) {
	status := mapErrorToHTTPStatus(err)
	if status == http.StatusConflict && rt.metrics != nil {
		rt.metrics.RecordVersionConflict(serviceName, operation)
	}

	var provErr *domain.ProviderError
	if errors.As(err, &provErr) && rt.metrics != nil {
		rt.metrics.RecordProviderFailure(serviceName, string(provErr.Provider))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func groupScores(doc *domain.AuditDocument) map[string]int {
	scores := make(map[string]int)
	for _, key := range domain.AllGroups() {
		if g := doc.Group(key); g != nil {
			scores[string(key)] = g.Score
		}
	}
	return scores
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chronofeed/chronofeed/internal/domain"
	"github.com/chronofeed/chronofeed/internal/domain/search/filter"
	"github.com/chronofeed/chronofeed/internal/domain/search/mode"
	"github.com/chronofeed/chronofeed/internal/domain/search/query"
	embeddinguc "github.com/chronofeed/chronofeed/internal/usecase/embedding"
	entryuc "github.com/chronofeed/chronofeed/internal/usecase/entry"
	healthuc "github.com/chronofeed/chronofeed/internal/usecase/health"
	searchuc "github.com/chronofeed/chronofeed/internal/usecase/search"
	"github.com/chronofeed/chronofeed/internal/version"
)

// Server is the HTTP API: public timeline reads and search, plus
// bearer-protected admin authoring and backfill routes.
type Server struct {
	search   *searchuc.Service
	entries  *entryuc.Service
	backfill *embeddinguc.Backfill
	health   *healthuc.Service
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	entries *entryuc.Service,
	backfill *embeddinguc.Backfill,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:   search,
		entries:  entries,
		backfill: backfill,
		health:   health,
		logger:   logger,
	}
}

// Routes mounts all API routes. Admin routes get the bearer auth middleware;
// public routes never require a key.
func (s *Server) Routes(adminAPIKeys []string) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/entries", s.ListEntries)
		r.Get("/entries/{id}", s.GetEntry)

		r.Route("/admin", func(r chi.Router) {
			r.Use(BearerAuthMiddleware(adminAPIKeys))
			r.Put("/entries/{id}", s.UpsertEntry)
			r.Delete("/entries/{id}", s.DeleteEntry)
			r.Post("/embeddings/run", s.RunBackfill)
		})
	})

	return r
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	m := mode.Mode(params.Get("mode"))
	if m != "" && !m.IsValid() {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"mode must be one of hybrid, vector, text")
		return
	}

	filters, err := filtersFromParams(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	q, err := query.New(params.Get("query"), m, filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, safeDomainMessage(err))
		return
	}

	resp, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToJSON(resp))
}

// ListEntries handles GET /api/entries.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 0
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	filters, err := filtersFromParams(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.entries.List(r.Context(), entryuc.ListRequest{
		Limit:   limit,
		Asc:     params.Get("sort") == "asc",
		Cursor:  params.Get("cursor"),
		Starred: params.Get("starred") == "true",
		Filters: filters,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]entryJSON, len(page.Entries))
	for i := range page.Entries {
		items[i] = entryToJSON(&page.Entries[i])
	}

	resp := entryListResponse{Entries: items, HasNext: page.HasNext}
	if page.HasNext && len(page.Entries) > 0 {
		resp.NextCursor = page.Entries[len(page.Entries)-1].ID()
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetEntry handles GET /api/entries/{id}. The id may be the date-ordinal
// identifier or the readable slug.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entryToJSON(&e))
}

// UpsertEntry handles PUT /api/admin/entries/{id}.
func (s *Server) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	e, err := req.toEntry(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	created, err := s.entries.Upsert(r.Context(), &e)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/entries/"+id)
	}
	writeJSON(w, status, entryToJSON(&e))
}

// DeleteEntry handles DELETE /api/admin/entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RunBackfill handles POST /api/admin/embeddings/run.
func (s *Server) RunBackfill(w http.ResponseWriter, r *http.Request) {
	batchSize := 0
	if r.Body != nil && r.ContentLength != 0 {
		var req struct {
			BatchSize int `json:"batch_size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		batchSize = req.BatchSize
	}

	report, err := s.backfill.Run(r.Context(), batchSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := backfillResponse{
		Processed: report.Processed,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}
	for _, item := range report.Items {
		if item.Err != nil {
			resp.FailedIDs = append(resp.FailedIDs, item.ID)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:       string(report.Status),
		Checks:       checks,
		QueueBacklog: report.QueueBacklog,
		Version:      version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// filtersFromParams parses filters.<type>=a,b query parameters into a
// validated filter set. Values within one type are comma-separated.
func filtersFromParams(params map[string][]string) (filter.Set, error) {
	selections := make(map[string][]string)
	for key, raws := range params {
		name, ok := strings.CutPrefix(key, "filters.")
		if !ok {
			continue
		}
		var values []string
		for _, raw := range raws {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
		}
		if len(values) > 0 {
			selections[name] = values
		}
	}
	return filter.NewSet(selections)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals. Validation failures keep their full message since it
// describes the caller's own input.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrValidation) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrStorageUnavailable,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, msg)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		s.logger.Warn("embedding provider error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeEmbeddingError, msg)
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.logger.Error("storage unavailable", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeStorageError, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

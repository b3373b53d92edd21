package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
	"github.com/vadim/bot-radar/internal/domain/analysis/policy"
	"github.com/vadim/bot-radar/internal/domain/analysis/service"
	"github.com/vadim/bot-radar/internal/httpx/response"
)

// AnalysisPolicy defines the interface for analysis operations
// Interface is defined by consumer (handler), not provider (policy)
type AnalysisPolicy interface {
	AnalyzeProfile(ctx context.Context, ref string) (*policy.AnalysisOutput, error)
	AnalyzeRaw(ctx context.Context, raw entity.RawProfile) (*policy.AnalysisOutput, error)
	CompareProfiles(ctx context.Context, refs []string) (*policy.CompareOutput, error)
	CompareRaw(ctx context.Context, raws []entity.RawProfile) (*policy.CompareOutput, error)
	History(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
	GetAnalysis(ctx context.Context, id string) (*entity.HistoryRecord, error)
}

// AnalysisHandler handles HTTP requests for account analyses
type AnalysisHandler struct {
	policy AnalysisPolicy
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(p AnalysisPolicy) *AnalysisHandler {
	return &AnalysisHandler{policy: p}
}

// RegisterRoutes registers analysis routes
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analyses", func(r chi.Router) {
		r.Post("/", h.Analyze())
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
	})
	r.Post("/comparisons", h.Compare())
}

// AnalyzeRequest represents the request body for analyzing an account.
// Exactly one of Profile and Raw must be set.
type AnalyzeRequest struct {
	Profile string            `json:"profile,omitempty"` // profile URL or handle
	Raw     entity.RawProfile `json:"raw,omitempty"`
}

// AnalysisResponse represents a single analysis
type AnalysisResponse struct {
	ID        string        `json:"id,omitempty"`
	ReportURL string        `json:"report_url,omitempty"`
	Report    entity.Report `json:"report"`
}

// Analyze handles POST /analyses
func (h *AnalysisHandler) Analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		var (
			out *policy.AnalysisOutput
			err error
		)
		switch {
		case req.Profile != "" && req.Raw != nil:
			response.BadRequest(w, "provide either profile or raw, not both")
			return
		case req.Profile != "":
			out, err = h.policy.AnalyzeProfile(r.Context(), req.Profile)
		case req.Raw != nil:
			out, err = h.policy.AnalyzeRaw(r.Context(), req.Raw)
		default:
			response.BadRequest(w, "profile or raw is required")
			return
		}
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		response.Created(w, AnalysisResponse{
			ID:        out.RecordID,
			ReportURL: out.ReportURL,
			Report:    out.Report,
		})
	}
}

// CompareRequest represents the request body for comparing two accounts
type CompareRequest struct {
	Profiles []string            `json:"profiles,omitempty"`
	Raw      []entity.RawProfile `json:"raw,omitempty"`
}

// CompareResponse represents a comparison of two accounts
type CompareResponse struct {
	Comparison *entity.ComparisonResult `json:"comparison"`
	Reports    [2]entity.Report         `json:"reports"`
}

// Compare handles POST /comparisons
func (h *AnalysisHandler) Compare() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		var (
			out *policy.CompareOutput
			err error
		)
		switch {
		case len(req.Profiles) > 0 && len(req.Raw) > 0:
			response.BadRequest(w, "provide either profiles or raw, not both")
			return
		case len(req.Raw) > 0:
			out, err = h.policy.CompareRaw(r.Context(), req.Raw)
		default:
			out, err = h.policy.CompareProfiles(r.Context(), req.Profiles)
		}
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		response.OK(w, CompareResponse{
			Comparison: out.Comparison,
			Reports:    out.Reports,
		})
	}
}

// Get handles GET /analyses/{id}
func (h *AnalysisHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := h.policy.GetAnalysis(r.Context(), id)
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		response.OK(w, rec)
	}
}

// ListResponse represents the response for listing analysis history
type ListResponse struct {
	Analyses []entity.HistoryRecord `json:"analyses"`
	Total    int64                  `json:"total"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

// List handles GET /analyses
func (h *AnalysisHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var since *time.Time
		if s := q.Get("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				response.BadRequest(w, "invalid since format, use RFC3339")
				return
			}
			since = &t
		}

		// Parse pagination
		limit := 50
		offset := 0
		if l := q.Get("limit"); l != "" {
			li, err := strconv.Atoi(l)
			if err != nil || li < 1 {
				response.BadRequest(w, "invalid limit")
				return
			}
			if li > 100 {
				li = 100
			}
			limit = li
		}
		if o := q.Get("offset"); o != "" {
			oi, err := strconv.Atoi(o)
			if err != nil || oi < 0 {
				response.BadRequest(w, "invalid offset")
				return
			}
			offset = oi
		}

		out, err := h.policy.History(r.Context(), service.ListInput{
			Handle: q.Get("handle"),
			Since:  since,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			handleAnalysisError(w, err)
			return
		}

		records := out.Records
		if records == nil {
			records = []entity.HistoryRecord{}
		}

		response.OK(w, ListResponse{
			Analyses: records,
			Total:    out.Total,
			Limit:    limit,
			Offset:   offset,
		})
	}
}

// handleAnalysisError maps domain errors to HTTP responses
func handleAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidProfileReference),
		errors.Is(err, entity.ErrComparisonArity),
		errors.Is(err, entity.ErrSameAccount):
		response.BadRequest(w, err.Error())
	case errors.Is(err, entity.ErrAnalysisNotFound), errors.Is(err, entity.ErrProfileNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, entity.ErrUpstreamRateLimited):
		response.TooManyRequests(w, err.Error())
	case errors.Is(err, entity.ErrUpstreamNotConfigured):
		response.ServiceUnavailable(w, err.Error())
	case errors.Is(err, entity.ErrUpstreamUnauthorized), errors.Is(err, entity.ErrUpstreamFailure):
		response.BadGateway(w, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}

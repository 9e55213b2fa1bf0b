package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"voterroll/internal/codec"
	"voterroll/internal/domain"
	"voterroll/internal/ingest"
	"voterroll/internal/present"
	"voterroll/internal/service"
)

// Options configure a VoterHandler
type Options struct {
	PageSize int
	// Years offered by the birth year selects
	Years []int
	// CSVPath is the roll file re-read by POST /api/reload
	CSVPath string
}

// VoterHandler handles voter page and API requests
type VoterHandler struct {
	svc     *service.VoterService
	pages   map[string]*template.Template
	opts    Options
	started time.Time
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(svc *service.VoterService, opts Options) (*VoterHandler, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = present.DefaultPageSize
	}
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &VoterHandler{
		svc:     svc,
		pages:   pages,
		opts:    opts,
		started: time.Now(),
	}, nil
}

// Register adds the page and API routes to mux
func (h *VoterHandler) Register(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("GET /{$}", h.ListPage)
	mux.HandleFunc("GET /voters", h.ListPage)
	mux.HandleFunc("GET /voters/{id}", h.DetailPage)
	mux.HandleFunc("GET /graphs", h.GraphsPage)

	// API
	mux.HandleFunc("GET /api/voters", h.ListVoters)
	mux.HandleFunc("GET /api/voters/{id}", h.GetVoter)
	mux.HandleFunc("GET /api/analytics", h.Analytics)
	mux.HandleFunc("GET /api/export/{format}", h.Export)
	mux.HandleFunc("POST /api/reload", h.Reload)
	mux.HandleFunc("GET /health", h.Health)
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// VoterPage is one page of the filtered roll
type VoterPage struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	Voters     []domain.Voter `json:"voters"`
}

// ListVoters returns one page of voters matching the query's filter
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ParseFilter(query)

	page, err := h.svc.ListPage(r.Context(), filter, present.ParsePageNumber(query), h.opts.PageSize)
	if err != nil {
		log.Printf("Failed to list voters: %v", err)
		h.writeError(w, "Failed to list voters", err.Error(), http.StatusInternalServerError)
		return
	}

	voters := page.Items
	if voters == nil {
		voters = []domain.Voter{}
	}
	h.writeJSON(w, VoterPage{
		Page:       page.Number,
		PageSize:   page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
		Voters:     voters,
	}, http.StatusOK)
}

// GetVoter returns a single voter
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Invalid voter ID", "Voter ID is required", http.StatusBadRequest)
		return
	}

	voter, err := h.svc.GetVoter(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get voter: %v", err)
		h.writeError(w, "Failed to get voter", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, voter, http.StatusOK)
}

// Analytics returns the aggregations and charts for the query's filter
func (h *VoterHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseFilter(r.URL.Query())

	analysis, err := h.svc.Analyze(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to analyze voters: %v", err)
		h.writeError(w, "Failed to analyze voters", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, analysis, http.StatusOK)
}

// Export downloads the filtered roll as json, yaml or csv
func (h *VoterHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	exporter, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Unsupported export format", err.Error(), http.StatusBadRequest)
		return
	}

	voters, err := h.svc.FilterVoters(r.Context(), domain.ParseFilter(r.URL.Query()))
	if err != nil {
		log.Printf("Failed to filter voters for export: %v", err)
		h.writeError(w, "Failed to export voters", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=voters.%s", exporter.Format()))

	if err := exporter.Export(voters, w); err != nil {
		log.Printf("Failed to export voters as %s: %v", format, err)
		// Can't write error response as we already set headers
		return
	}
}

// SkippedRow is a row the reload could not load
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ReloadResponse summarizes a completed reload
type ReloadResponse struct {
	BatchID  string       `json:"batch_id"`
	Source   string       `json:"source"`
	Rows     int          `json:"rows"`
	Created  int          `json:"created"`
	Skipped  []SkippedRow `json:"skipped"`
	Duration string       `json:"duration"`
}

func newReloadResponse(report *ingest.Report) ReloadResponse {
	resp := ReloadResponse{
		BatchID:  report.BatchID,
		Source:   report.Source,
		Rows:     report.Rows,
		Created:  report.Created,
		Skipped:  make([]SkippedRow, 0, report.SkippedCount()),
		Duration: report.Duration.String(),
	}
	for _, rowErr := range report.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedRow{Line: rowErr.Line, Reason: rowErr.Err.Error()})
	}
	return resp
}

// Reload re-reads the configured roll file, replacing the store
func (h *VoterHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.opts.CSVPath == "" {
		h.writeError(w, "Reload unavailable", "no roll file configured", http.StatusBadRequest)
		return
	}

	report, err := h.svc.Reload(r.Context(), h.opts.CSVPath)
	if err != nil {
		if errors.Is(err, service.ErrReloadInProgress) {
			h.writeError(w, "Reload in progress", err.Error(), http.StatusConflict)
			return
		}
		log.Printf("Failed to reload roll: %v", err)
		h.writeError(w, "Failed to reload roll", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, newReloadResponse(report), http.StatusOK)
}

// Health reports liveness and the size of the roll
func (h *VoterHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		log.Printf("Health check failed: %v", err)
		h.writeError(w, "Unhealthy", err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, map[string]any{
		"status": "ok",
		"voters": count,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}, http.StatusOK)
}

// Helper methods

func (h *VoterHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *VoterHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

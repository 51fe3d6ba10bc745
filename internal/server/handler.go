package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/model"
)

// Searcher is the engine surface the handler drives.
type Searcher interface {
	Search(ctx context.Context, query string) []model.Product
}

// SearchRequest is the POST /api/search body.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=2"`
}

// SearchResponse is the success payload.
type SearchResponse struct {
	Results []model.Product `json:"results"`
}

// ErrorResponse is the failure payload. Internal detail never leaks:
// the message is generic by design of the error policy.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchHandler handles product search requests.
type SearchHandler struct {
	searcher Searcher
	validate *validator.Validate
}

// NewSearchHandler creates the handler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		validate: validator.New(),
	}
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "query parameter is required"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "query parameter is required"})
		return
	}

	results := h.searcher.Search(r.Context(), req.Query)

	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

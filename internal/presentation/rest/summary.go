package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anungis437/nzila-eexports-sub001/internal/application/dto"
	"github.com/anungis437/nzila-eexports-sub001/internal/application/usecase"
	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// SummaryHandler serves the read-side deal finance projection. This is an
// internal operations endpoint, not a public API; upstream services drive
// state changes through the command topic.
type SummaryHandler struct {
	summary *usecase.GetDealSummaryUseCase
	logger  *slog.Logger
}

// NewSummaryHandler creates the summary HTTP handler.
func NewSummaryHandler(summary *usecase.GetDealSummaryUseCase, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{summary: summary, logger: logger}
}

// RegisterRoutes attaches the summary route to the given mux.
func (h *SummaryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /internal/deals/{id}/summary", h.getSummary)
}

func (h *SummaryHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	dealID := r.PathValue("id")

	resp, err := h.summary.Execute(r.Context(), dto.GetDealSummaryRequest{DealID: dealID})
	if err != nil {
		if errors.Is(err, valueobject.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "deal not found"})
			return
		}
		h.logger.Error("deal summary failed", "deal_id", dealID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

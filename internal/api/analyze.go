package api

import (
	"errors"
	"net/http"

	"github.com/plink/plink/internal/analyze"
)

// AnalyzeHandler pre-fills wizard fields from uploaded photos.
type AnalyzeHandler struct {
	Analyzer analyze.Analyzer
}

type analyzeRequest struct {
	ImageData []analyze.Image `json:"imageData"`
}

// Analyze handles POST /ai/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ImageData) == 0 {
		jsonError(w, http.StatusBadRequest, "at least one image is required")
		return
	}
	if h.Analyzer == nil {
		jsonError(w, http.StatusBadRequest, "photo analysis is not configured")
		return
	}

	result, err := h.Analyzer.Analyze(r.Context(), req.ImageData)
	if err != nil {
		switch {
		case errors.Is(err, analyze.ErrUnavailable):
			jsonError(w, http.StatusServiceUnavailable, "analysis service unavailable")
		case errors.Is(err, analyze.ErrBadResponse):
			jsonError(w, http.StatusInternalServerError, "analysis returned an invalid response")
		default:
			jsonError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "analysis successful",
		"aiData":  result,
	})
}

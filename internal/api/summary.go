package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/raggerhq/ragger/internal/rag"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

type summaryRequest struct {
	SourceText     string `json:"sourceText"`
	CollectionName string `json:"collectionName"`
}

type summaryHandler struct {
	summarizer Summarizer
	logger     *slog.Logger
}

// summary handles POST /api/summary: summarize the indexed chunk closest to
// sourceText. 404 when the collection holds nothing to summarize.
func (h *summaryHandler) summary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.SourceText) == "" {
		writeError(w, http.StatusBadRequest, "sourceText is required", "")
		return
	}
	if strings.TrimSpace(req.CollectionName) == "" {
		writeError(w, http.StatusBadRequest, "collectionName is required", "")
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), req.CollectionName, req.SourceText)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrNoContent):
			writeError(w, http.StatusNotFound, "no content to summarize", "")
		case errors.Is(err, vectorindex.ErrNotFound):
			writeError(w, http.StatusNotFound, "collection not found", req.CollectionName)
		default:
			h.logger.Error("summary failed", "collection", req.CollectionName, "error", err)
			writeError(w, http.StatusInternalServerError, "summary failed", "")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

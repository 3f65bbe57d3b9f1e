package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/raggerhq/ragger/internal/vectorindex"
)

type chatRequest struct {
	UserQuery      string `json:"userQuery"`
	CollectionName string `json:"collectionName"`
}

type chatHandler struct {
	answerer Answerer
	logger   *slog.Logger
}

// chat handles POST /api/chat. The response body is the answerer's result:
// the model's JSON answer string plus the chunks it was grounded on.
func (h *chatHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.UserQuery) == "" {
		writeError(w, http.StatusBadRequest, "userQuery is required", "")
		return
	}
	if strings.TrimSpace(req.CollectionName) == "" {
		writeError(w, http.StatusBadRequest, "collectionName is required", "")
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.CollectionName, req.UserQuery)
	if err != nil {
		if errors.Is(err, vectorindex.ErrNotFound) {
			writeError(w, http.StatusNotFound, "collection not found", req.CollectionName)
			return
		}
		h.logger.Error("chat failed", "collection", req.CollectionName, "error", err)
		writeError(w, http.StatusInternalServerError, "chat failed", "")
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

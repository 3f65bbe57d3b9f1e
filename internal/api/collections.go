package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/raggerhq/ragger/internal/vectorindex"
)

type createCollectionRequest struct {
	BookName string `json:"bookName"`
}

type clearIndexRequest struct {
	CollectionName string `json:"collectionName"`
}

type collectionHandler struct {
	collections Collections
	verifier    TokenVerifier
	logger      *slog.Logger
}

// create handles POST /api/createCollection. The bearer token identifies the
// user; the derived collection name scopes the collection to them.
func (h *collectionHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := h.verifier.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.BookName) == "" {
		writeError(w, http.StatusBadRequest, "bookName is required", "")
		return
	}

	name, err := h.collections.Create(r.Context(), userID, req.BookName)
	if err != nil {
		if errors.Is(err, vectorindex.ErrConflict) {
			writeError(w, http.StatusConflict, "collection already exists", "")
			return
		}
		h.logger.Error("collection create failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not create collection", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":        "collection created",
		"collectionName": name,
	})
}

// clear handles POST /api/clearIndex: delete and recreate the named
// collection, leaving it empty.
func (h *collectionHandler) clear(w http.ResponseWriter, r *http.Request) {
	var req clearIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.CollectionName) == "" {
		writeError(w, http.StatusBadRequest, "collectionName is required", "")
		return
	}

	if err := h.collections.Clear(r.Context(), req.CollectionName); err != nil {
		h.logger.Error("collection clear failed", "collection", req.CollectionName, "error", err)
		writeError(w, http.StatusInternalServerError, "could not clear collection", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "collection cleared"})
}

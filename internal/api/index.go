package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

// identityMaxLen caps the identity label derived from pasted text.
const identityMaxLen = 20

// IndexResponse is the success body for POST /api/index.
type IndexResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Inserted       int    `json:"inserted"`
	CollectionName string `json:"collectionName"`
	Identity       string `json:"identity"`
}

type indexHandler struct {
	ingestor  Ingestor
	crawler   Crawler
	maxUpload int64
	budget    time.Duration
	logger    *slog.Logger
}

// index handles POST /api/index: multipart form with sourceType, a required
// collectionName, and one of text, file, or url. The whole pipeline for one
// request — load, split, embed, upsert — runs under a single timeout budget.
func (h *indexHandler) index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.budget)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	collectionName := strings.TrimSpace(r.FormValue("collectionName"))
	if collectionName == "" {
		writeError(w, http.StatusBadRequest, "collectionName is required", "")
		return
	}

	sourceType := r.FormValue("sourceType")

	var (
		chunks   []document.Chunk
		identity string
		err      error
	)
	switch sourceType {
	case document.SourceTypeText:
		chunks, identity, err = h.loadText(r)
	case document.SourceTypeFile:
		chunks, identity, err = h.loadFile(r)
	case document.SourceTypeURL:
		chunks, identity, err = h.loadURL(ctx, r)
	default:
		writeError(w, http.StatusBadRequest, "invalid sourceType",
			fmt.Sprintf("sourceType must be one of text, file, url; got %q", sourceType))
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not load content", err.Error())
		return
	}

	inserted, err := h.ingestor.Ingest(ctx, collectionName, chunks)
	if err != nil {
		if errors.Is(err, vectorindex.ErrNotFound) {
			writeError(w, http.StatusNotFound, "collection not found", collectionName)
			return
		}
		h.logger.Error("ingestion failed", "collection", collectionName, "source_type", sourceType, "error", err)
		writeError(w, http.StatusInternalServerError, "indexing failed", "")
		return
	}

	h.logger.Info("content indexed",
		"collection", collectionName,
		"source_type", sourceType,
		"identity", identity,
		"inserted", inserted)

	writeJSON(w, http.StatusOK, IndexResponse{
		Success:        true,
		Message:        fmt.Sprintf("indexed %d chunks", inserted),
		Inserted:       inserted,
		CollectionName: collectionName,
		Identity:       identity,
	})
}

func (h *indexHandler) loadText(r *http.Request) ([]document.Chunk, string, error) {
	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return nil, "", errors.New("text is required for sourceType text")
	}
	return document.LoadText(text), textIdentity(text), nil
}

func (h *indexHandler) loadFile(r *http.Request) ([]document.Chunk, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("file is required for sourceType file")
	}
	defer func() { _ = file.Close() }()

	name := header.Filename
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("reading upload %q: %w", name, err)
		}
		chunks, err := document.LoadPDF(data, name)
		return chunks, name, err
	case ".csv":
		chunks, err := document.LoadCSV(file, name)
		return chunks, name, err
	default:
		return nil, "", fmt.Errorf("unsupported file type %q: only .pdf and .csv are accepted", name)
	}
}

func (h *indexHandler) loadURL(ctx context.Context, r *http.Request) ([]document.Chunk, string, error) {
	rawURL := strings.TrimSpace(r.FormValue("url"))
	if rawURL == "" {
		return nil, "", errors.New("url is required for sourceType url")
	}
	chunks, err := h.crawler.Load(ctx, rawURL)
	return chunks, rawURL, err
}

// textIdentity labels pasted text by its first characters.
func textIdentity(text string) string {
	runes := []rune(text)
	if len(runes) <= identityMaxLen {
		return text
	}
	return string(runes[:identityMaxLen])
}

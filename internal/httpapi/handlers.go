// Package httpapi exposes the ledger engine over HTTP: transaction
// queries, ledger uploads and cache reloads.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cognicore/daicho/pkg/daicho"
	"github.com/cognicore/daicho/pkg/daicho/internalerr"
	"github.com/cognicore/daicho/pkg/daicho/query"
)

// Handler serves the query/upload/reload API.
type Handler struct {
	engine       *daicho.Engine
	dataDir      string
	purchaseName string
	salesName    string
	log          zerolog.Logger
}

// New creates a handler around an engine. Uploaded ledgers are saved
// into dataDir under the two fixed filenames.
func New(engine *daicho.Engine, dataDir, purchaseName, salesName string, log zerolog.Logger) *Handler {
	return &Handler{
		engine:       engine,
		dataDir:      dataDir,
		purchaseName: purchaseName,
		salesName:    salesName,
		log:          log,
	}
}

// Routes builds the API mux with logging and panic recovery applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", h.Transactions)
	mux.HandleFunc("POST /api/upload_ledgers", h.UploadLedgers)
	mux.HandleFunc("POST /api/reload", h.Reload)
	return Logger(h.log)(Recovery(h.log)(mux))
}

// Transactions handles GET /api/transactions. Every filter parameter is
// optional; bad filter input is skipped by the query engine rather than
// failing the request.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filters := query.Filters{
		StartDate:    params.Get("start_date"),
		EndDate:      params.Get("end_date"),
		Types:        params["type"],
		Keyword:      params.Get("q"),
		DocumentID:   params.Get("document_id"),
		DocumentDate: params.Get("document_date"),
	}

	items, err := h.engine.Query(filters)
	if err != nil {
		h.log.Error().Err(err).Msg("query failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []query.Record{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}

// UploadLedgers handles POST /api/upload_ledgers: multipart fields
// "purchase" and "sales" are saved into the data dir, then the whole
// table is rebuilt synchronously.
func (h *Handler) UploadLedgers(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if err := os.MkdirAll(h.dataDir, 0o755); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var saved []string
	for _, upload := range []struct {
		field, filename, label string
	}{
		{"purchase", h.purchaseName, "purchase"},
		{"sales", h.salesName, "sales"},
	} {
		file, header, err := r.FormFile(upload.field)
		if err != nil || header.Filename == "" {
			continue
		}
		target := filepath.Join(h.dataDir, upload.filename)
		if err := saveUpload(file, target); err != nil {
			file.Close()
			h.log.Error().Err(err).Str("field", upload.field).Msg("saving upload failed")
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		file.Close()
		saved = append(saved, upload.label)
	}

	if err := h.engine.Rebuild(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, internalerr.ErrMissingSource) {
			status = http.StatusBadRequest
		}
		WriteError(w, status, err.Error())
		return
	}

	if saved == nil {
		saved = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"updated": saved,
	})
}

// Reload handles POST /api/reload: re-read the combined interchange
// file after it was regenerated externally.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.engine.Load(true); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func saveUpload(src io.Reader, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}

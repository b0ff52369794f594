/*
handlers.go - HTTP handlers over the ledger engine

PURPOSE:
  Thin adapters: decode the request, call the engine, encode the result.
  All ledger policy (skips, finalization, ownership) lives in the engine;
  nothing here second-guesses it.

ERROR MAPPING:
  engine.ErrUnknownSource -> 400 (caller bug, not a data problem)
  body decode failures    -> 400
  store read failures     -> 500

CSV IMPORTS:
  POST /api/imports/{source}/csv accepts a raw CSV body. The first record
  is the header; remaining records become row maps exactly as a parsed
  export would produce them. Ragged rows are padded/truncated rather than
  rejected, matching the extractors' tolerance.

SEE ALSO:
  - server.go: routing
  - engine/engine.go: the operations wrapped here
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ncaofa1996/iron-sovereign/engine"
	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// Handler owns the engine and the server-level default targets.
type Handler struct {
	Engine   *engine.Engine
	Defaults xp.Config
}

func NewHandler(eng *engine.Engine, defaults xp.Config) *Handler {
	return &Handler{Engine: eng, Defaults: defaults.Normalize()}
}

// =============================================================================
// IMPORTS
// =============================================================================

// Import handles POST /api/imports/{source} with a JSON rows body.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	source := engine.Source(chi.URLParam(r, "source"))

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	h.runImport(w, r, source, req.rows(), req.Config)
}

// ImportCSV handles POST /api/imports/{source}/csv with a raw CSV body.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	source := engine.Source(chi.URLParam(r, "source"))

	rows, err := decodeCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid CSV body: "+err.Error())
		return
	}
	h.runImport(w, r, source, rows, nil)
}

func (h *Handler) runImport(w http.ResponseWriter, r *http.Request, source engine.Source, rows []metrics.Row, cfg *xp.Config) {
	config := h.Defaults
	if cfg != nil {
		config = cfg.Normalize()
	}

	receipt, err := h.Engine.ProcessImport(r.Context(), source, rows, config)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSource) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// decodeCSV turns a CSV stream into row maps keyed by the header record.
func decodeCSV(body io.Reader) ([]metrics.Row, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1 // exports are ragged; tolerate it
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []metrics.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(metrics.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// =============================================================================
// MANUAL CHECK-IN
// =============================================================================

// Checkin handles POST /api/checkin.
func (h *Handler) Checkin(w http.ResponseWriter, r *http.Request) {
	var req CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	awarded, err := h.Engine.SubmitManualEntry(r.Context(), metrics.Checklist{
		Scripture: req.Scripture,
		Book:      req.Book,
		Language:  req.Language,
	}, h.Defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, CheckinResponse{XP: awarded})
}

// =============================================================================
// VIEWS
// =============================================================================

// History handles GET /api/history?days=N (default 30).
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)
	points, err := h.Engine.XPHistory(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if points == nil {
		points = []engine.HistoryPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// Totals handles GET /api/totals.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Engine.StatTotals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// ImportLog handles GET /api/imports/log?limit=N (default 10).
func (h *Handler) ImportLog(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	receipts, err := h.Engine.ImportLog(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if receipts == nil {
		receipts = []engine.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset handles POST /api/admin/reset. Danger zone.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"today":  h.Engine.Today(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/finsight-labs/statement-insights/internal/api/middleware"
	"github.com/finsight-labs/statement-insights/internal/session"
	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// SessionsHandler serves stored analysis results: transaction lists,
// per-transaction detail, category overrides and JSON export.
type SessionsHandler struct {
	store *session.Store
	log   zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(store *session.Store, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{store: store, log: log}
}

// GetSession handles GET /api/sessions/{id}.
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sess)
}

// ListTransactions handles GET /api/sessions/{id}/transactions.
func (h *SessionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": sess.Result.Transactions,
		"count":        len(sess.Result.Transactions),
	})
}

// GetTransaction handles GET /api/sessions/{id}/transactions/{index}. The
// response includes the category set so a client can render an override
// picker without a second call.
func (h *SessionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 || index >= len(sess.Result.Transactions) {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"index":       index,
		"transaction": sess.Result.Transactions[index],
		"categories":  statement.Categories(),
	})
}

type setCategoryRequest struct {
	Category string `json:"category"`
}

// SetCategory handles PUT /api/sessions/{id}/transactions/{index}/category.
// A successful override re-aggregates the summary and returns it.
func (h *SessionsHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction index")
		return
	}

	var req setCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Category is required")
		return
	}

	sess, err := h.store.SetCategory(vars["id"], index, statement.Category(req.Category))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Info().
		Str("session_id", sess.ID).
		Int("index", index).
		Str("category", req.Category).
		Msg("Category override applied")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transaction": sess.Result.Transactions[index],
		"summary":     sess.Result.Summary,
	})
}

// exportEnvelope is the shape of a full-session export.
type exportEnvelope struct {
	Filename     string                  `json:"filename"`
	ExportTime   time.Time               `json:"export_time"`
	Transactions []statement.Transaction `json:"transactions"`
	Insights     statement.Summary       `json:"insights"`
}

// Export handles GET /api/sessions/{id}/export.
func (h *SessionsHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, exportEnvelope{
		Filename:     sess.Filename,
		ExportTime:   time.Now(),
		Transactions: sess.Result.Transactions,
		Insights:     sess.Result.Summary,
	})
}

// DeleteSession handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(mux.Vars(r)["id"])
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// session loads the session from the path and writes the error response
// itself when the session is missing or still processing.
func (h *SessionsHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	if sess.Result == nil {
		middleware.WriteError(w, http.StatusConflict, "Session is still processing")
		return nil, false
	}
	return sess, true
}

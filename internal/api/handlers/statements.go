package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finsight-labs/statement-insights/internal/api/middleware"
	"github.com/finsight-labs/statement-insights/internal/jobs"
	"github.com/finsight-labs/statement-insights/internal/logger"
	"github.com/finsight-labs/statement-insights/internal/session"
	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/rs/zerolog"
)

// StatementsHandler accepts raw statement text and runs the analysis
// pipeline, either synchronously or through the job queue. The upstream
// PDF-to-text step happens outside this service; the API receives text.
type StatementsHandler struct {
	store       *session.Store
	publisher   jobs.Publisher
	categorizer *statement.Categorizer
	log         zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(store *session.Store, publisher jobs.Publisher, categorizer *statement.Categorizer, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		store:       store,
		publisher:   publisher,
		categorizer: categorizer,
		log:         log,
	}
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Upload handles POST /api/statements. With ?async=1 the analysis runs on
// the job queue and the response is 202 with a job ID; otherwise the
// pipeline runs inline and the full session is returned.
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Filename) == "" {
		req.Filename = "statement.txt"
	}

	sess := h.store.Create(req.Filename)

	if isAsync(r) {
		job := &jobs.AnalyzeStatementJob{
			SessionID: sess.ID,
			Filename:  req.Filename,
			RawText:   req.Text,
		}

		if err := h.publisher.PublishAnalyzeStatement(r.Context(), job); err != nil {
			h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis job")
			return
		}

		h.log.Info().
			Str("job_id", job.JobID).
			Str("session_id", sess.ID).
			Msg("Analysis job enqueued")

		middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
			"job_id":     job.JobID,
			"session_id": sess.ID,
			"status":     string(job.Status),
		})
		return
	}

	ctx := logger.WithContext(r.Context(), h.log)
	result := statement.Process(ctx, req.Text, h.categorizer)

	if err := h.store.SaveResult(sess.ID, result); err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to save analysis result")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save analysis result")
		return
	}

	h.log.Info().
		Str("session_id", sess.ID).
		Int("transactions", len(result.Transactions)).
		Int("rejected", result.RejectedCount).
		Msg("Statement processed")

	sess.Result = result
	middleware.WriteJSON(w, http.StatusOK, sess)
}

func isAsync(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("async")) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// CategoriesHandler serves the fixed category set.
type CategoriesHandler struct {
	log zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{log: log}
}

// ListCategories handles GET /api/categories.
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := statement.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

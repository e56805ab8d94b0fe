package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight-labs/statement-insights/internal/api/handlers"
	"github.com/finsight-labs/statement-insights/internal/api/middleware"
	"github.com/finsight-labs/statement-insights/internal/config"
	"github.com/finsight-labs/statement-insights/internal/jobs"
	"github.com/finsight-labs/statement-insights/internal/jobs/inmemory"
	"github.com/finsight-labs/statement-insights/internal/logger"
	"github.com/finsight-labs/statement-insights/internal/session"
	"github.com/finsight-labs/statement-insights/internal/statement"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	// Core collaborators. The categorizer is read-only after construction
	// and shared across all concurrent requests.
	categorizer := statement.NewCategorizer(statement.DefaultCategoryRules())
	sessionStore := session.NewStore()

	// Job infrastructure for async uploads.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobQueueSize, cfg.JobWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("session_id", analyzeJob.SessionID).
			Msg("Processing analysis job")

		ctx = logger.WithContext(ctx, log)
		result := statement.Process(ctx, analyzeJob.RawText, categorizer)

		if err := sessionStore.SaveResult(analyzeJob.SessionID, result); err != nil {
			log.Error().
				Err(err).
				Str("job_id", analyzeJob.JobID).
				Str("session_id", analyzeJob.SessionID).
				Msg("Failed to save analysis result")
			return err
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("session_id", analyzeJob.SessionID).
			Int("transactions", len(result.Transactions)).
			Int("rejected", result.RejectedCount).
			Msg("Analysis job completed")

		return nil
	}

	go func() {
		log.Info().Int("workers", cfg.JobWorkers).Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	// Handlers.
	statementsHandler := handlers.NewStatementsHandler(sessionStore, jobQueue, categorizer, log)
	sessionsHandler := handlers.NewSessionsHandler(sessionStore, log)
	categoriesHandler := handlers.NewCategoriesHandler(log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Router.
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/statements", statementsHandler.Upload).Methods(http.MethodPost)

	api.HandleFunc("/sessions/{id}", sessionsHandler.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionsHandler.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/transactions", sessionsHandler.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/transactions/{index}", sessionsHandler.GetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/transactions/{index}/category", sessionsHandler.SetCategory).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/export", sessionsHandler.Export).Methods(http.MethodGet)

	api.HandleFunc("/categories", categoriesHandler.ListCategories).Methods(http.MethodGet)

	api.HandleFunc("/jobs", jobsHandler.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	// Middleware chain.
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.MaxBytes(cfg.MaxStatementBytes)(router),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

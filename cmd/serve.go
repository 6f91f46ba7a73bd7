package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outfit resolution HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		// Periodic cache sweep so expired entries don't pile up between hits.
		sweepEvery := time.Duration(cfg.Cache.SweepSecs) * time.Second
		if sweepEvery > 0 {
			go func() {
				ticker := time.NewTicker(sweepEvery)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if n := e.Cache.CleanExpired(); n > 0 {
							zap.L().Debug("cache sweep", zap.Int("evicted", n))
						}
					}
				}
			}()
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/outfits", func(w http.ResponseWriter, req *http.Request) {
			var styleReq model.StyleRequest
			if err := json.NewDecoder(req.Body).Decode(&styleReq); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if styleReq.Prompt == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt is required"})
				return
			}

			run, err := e.Store.CreateRun(req.Context(), styleReq)
			if err != nil {
				zap.L().Error("create run failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "persistence failure"})
				return
			}
			if err := e.Store.UpdateRunStatus(req.Context(), run.ID, model.RunStatusResolving); err != nil {
				zap.L().Warn("update run status failed", zap.String("run_id", run.ID), zap.Error(err))
			}

			resp := e.Pipeline.Run(req.Context(), styleReq)

			if err := e.Store.UpdateRunResponse(req.Context(), run.ID, resp); err != nil {
				zap.L().Warn("persist run response failed", zap.String("run_id", run.ID), zap.Error(err))
			}

			writeJSON(w, http.StatusOK, struct {
				RunID string `json:"run_id"`
				*model.StyleResponse
			}{RunID: run.ID, StyleResponse: resp})
		})

		r.Get("/v1/runs", func(w http.ResponseWriter, req *http.Request) {
			filter := store.RunFilter{
				Status: model.RunStatus(req.URL.Query().Get("status")),
			}
			runs, err := e.Store.ListRuns(req.Context(), filter)
			if err != nil {
				zap.L().Error("list runs failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "persistence failure"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

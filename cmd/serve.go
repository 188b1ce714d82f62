package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tars-systems/leadscout/internal/export"
	"github.com/tars-systems/leadscout/internal/pipeline"
	"github.com/tars-systems/leadscout/internal/score"
	"github.com/tars-systems/leadscout/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for lead discovery",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Pipeline, env.Store),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP API.
func newRouter(p *pipeline.Pipeline, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/discover", func(w http.ResponseWriter, r *http.Request) {
		var req pipeline.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.ProductDescription == "" || req.Location == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_description and location are required"})
			return
		}

		result, err := p.Run(r.Context(), req)
		if err != nil {
			zap.L().Error("discover request failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "pipeline run failed"})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/api/leads", func(w http.ResponseWriter, r *http.Request) {
		group := r.URL.Query().Get("group")
		if group == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "group is required"})
			return
		}
		leads, err := st.ListLeads(r.Context(), group)
		if err != nil {
			zap.L().Error("list leads failed", zap.String("group", group), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list leads failed"})
			return
		}
		hot, warm, cold := score.Tally(leads)
		writeJSON(w, http.StatusOK, map[string]any{
			"group": group,
			"leads": leads,
			"counts": map[string]int{
				"hot":  hot,
				"warm": warm,
				"cold": cold,
			},
		})
	})

	r.Get("/api/leads/export", func(w http.ResponseWriter, r *http.Request) {
		group := r.URL.Query().Get("group")
		if group == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "group is required"})
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}

		leads, err := st.ListLeads(r.Context(), group)
		if err != nil {
			zap.L().Error("export leads failed", zap.String("group", group), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
			return
		}

		var buf bytes.Buffer
		switch format {
		case "csv":
			err = export.WriteCSV(&buf, leads)
			w.Header().Set("Content-Type", "text/csv")
		case "xlsx":
			err = export.WriteXLSX(&buf, leads)
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown format (want csv or xlsx)"})
			return
		}
		if err != nil {
			zap.L().Error("export serialization failed", zap.String("group", group), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leads.%s", format))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// Package server provides the HTTP API for location analysis and insights.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/analysis"
	"github.com/sells-group/feasibility-cli/internal/config"
	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/monitoring"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "Sythesys API"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Analyzer scores a location.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, error)
}

// Server is the HTTP API.
type Server struct {
	analyzer  Analyzer
	predictor analysis.Predictor
	router    chi.Router
}

// New creates a Server and registers its routes. CORS allows the configured
// origins with credentials, any method and any header.
func New(cfg config.ServerConfig, analyzer Analyzer, predictor analysis.Predictor) *Server {
	s := &Server{analyzer: analyzer, predictor: predictor}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/predict", s.handlePredict)
	r.Post("/insights", s.handleInsights)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}

// requestMetrics records a count and latency per route pattern and logs
// each request.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		monitoring.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		monitoring.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

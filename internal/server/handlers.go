package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/feasibility-cli/internal/insight"
	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/monitoring"
)

type rootResponse struct {
	OK        bool     `json:"ok"`
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, rootResponse{
		OK:        true,
		Service:   ServiceName,
		Endpoints: []string{"/analyze", "/predict"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"health": "up"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := model.NewAnalyzeRequest()
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		zap.L().Error("server: analyze failed", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	monitoring.ScoresComputed.WithLabelValues("demand").Observe(resp.Scores.Demand)
	monitoring.ScoresComputed.WithLabelValues("risk").Observe(resp.Scores.Risk)
	monitoring.ScoresComputed.WithLabelValues("competition").Observe(resp.Scores.Competition)
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req := model.NewPredictRequest()
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp, err := s.predictor.Predict(r.Context(), req)
	if err != nil {
		zap.L().Error("server: predict failed", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

// handleInsights derives the dashboard views from a posted score record.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var scores model.Scores
	if !decodeBody(w, r, &scores) {
		return
	}
	report := insight.Evaluate(scores)
	monitoring.ScoresComputed.WithLabelValues("feasibility").Observe(float64(report.Feasibility.Score))
	jsonResponse(w, http.StatusOK, report)
}

// decodeBody reads a JSON body into dst, writing a 422 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		errorResponse(w, http.StatusUnprocessableEntity, "request body is required")
	default:
		errorResponse(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
	}
	return false
}

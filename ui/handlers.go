package ui

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gobayes/app"
	"gobayes/domain/bayes"
	"gobayes/domain/core"
	apperrors "gobayes/internal/errors"
	"gobayes/internal/report"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses: validation and
// configuration problems are the caller's fault, missing resources are 404,
// everything else is a 500.
func (a *App) writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsNotFoundError(err):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Code: apperrors.CodeNotFound, Message: err.Error()})
	case core.IsValidationError(err):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Code: apperrors.CodeValidationError, Message: err.Error()})
	case core.IsConfigurationError(err):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Code: apperrors.CodeConfigInvalid, Message: err.Error()})
	default:
		a.logger.Error("request failed: %v", err)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Code: apperrors.GetCode(err), Message: "internal error"})
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Code: apperrors.CodeInvalidInput, Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"persistence": a.repo != nil,
		"time":        time.Now().UTC(),
	})
}

func (a *App) handleStrategies(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": a.service.Strategies(),
		"default":    bayes.StrategySimulation,
	})
}

// defaultPrior substitutes the configured prior for requests that omit one.
// An explicitly supplied prior, valid or not, passes through untouched.
func (a *App) defaultPrior(p bayes.Prior) bayes.Prior {
	if p.Alpha == 0 && p.Beta == 0 {
		return bayes.Prior{Alpha: a.cfg.Prior.Alpha, Beta: a.cfg.Prior.Beta}
	}
	return p
}

func (a *App) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req app.CompareRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Prior = a.defaultPrior(req.Prior)
	if req.Strategy == "" {
		req.Strategy = bayes.StrategySimulation
	}
	if req.Params.Draws == 0 {
		req.Params.Draws = a.cfg.Compare.Draws
	}
	if req.Params.Step == 0 {
		req.Params.Upper = 1
		req.Params.Step = a.cfg.Compare.Step
	}
	outcome, err := a.service.Compare(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, outcome)
}

func (a *App) handleInterval(w http.ResponseWriter, r *http.Request) {
	var req app.IntervalRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Prior = a.defaultPrior(req.Prior)
	outcome, err := a.service.Interval(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, outcome)
}

func (a *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req app.BatchRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Prior = a.defaultPrior(req.Prior)
	outcome, err := a.service.BatchCompare(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, outcome)
}

// handleReport runs a batch comparison and renders it as a document.
// format=markdown returns the raw markdown, anything else HTML.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	var req app.BatchRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Prior = a.defaultPrior(req.Prior)
	outcome, err := a.service.BatchCompare(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	md := report.BuildMarkdown(req.Baseline.Entity, outcome)
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.RenderHTML(md))
}

type createExperimentRequest struct {
	Name  string      `json:"name"`
	Prior bayes.Prior `json:"prior"`
}

func (a *App) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: apperrors.CodeConfigInvalid, Message: "persistence is not configured"})
		return
	}
	var req createExperimentRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Code: apperrors.CodeInvalidInput, Message: "experiment name is required"})
		return
	}
	exp, err := a.service.CreateExperiment(r.Context(), req.Name, req.Prior)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, exp)
}

func (a *App) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: apperrors.CodeConfigInvalid, Message: "persistence is not configured"})
		return
	}
	exps, err := a.repo.ListExperiments(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"experiments": exps})
}

func (a *App) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: apperrors.CodeConfigInvalid, Message: "persistence is not configured"})
		return
	}
	exp, err := a.repo.GetExperiment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, exp)
}

func (a *App) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		a.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: apperrors.CodeConfigInvalid, Message: "persistence is not configured"})
		return
	}
	recs, err := a.repo.ListComparisons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"comparisons": recs})
}

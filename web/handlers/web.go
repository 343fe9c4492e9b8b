package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/models"
)

const (
	serviceName   = "usuarios-api"
	healthyStatus = "healthy"
	unhealthy     = "unhealthy"
	pingTimeout   = 2 * time.Second
	redocTemplate = "static/templates/redoc.html"
	openAPIPath   = "/apispec_1.json"
	docsPageTitle = "API de Usuários"
)

// HealthCheck responds with service and database health info.
func (h *WebHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not_configured"

	if h.Deps.App != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.Deps.App.Ping(ctx); err != nil {
			h.Deps.Logger.Warn("database ping failed", zap.Error(err))
			dbStatus = unhealthy
		} else {
			dbStatus = healthyStatus
		}
	}

	response := models.HealthResponse{
		Status:  healthyStatus,
		Version: h.Deps.Version,
		Service: serviceName,
		Checks: map[string]string{
			"database": dbStatus,
			"server":   healthyStatus,
		},
	}

	if dbStatus == unhealthy {
		response.Status = unhealthy
		renderJSON(w, http.StatusServiceUnavailable, response)

		return
	}

	renderJSON(w, http.StatusOK, response)
}

// Redoc serves the API documentation page.
func (h *WebHandlers) Redoc(w http.ResponseWriter, _ *http.Request) {
	tmpl, ok := h.Deps.Templates[redocTemplate]
	if !ok {
		http.Error(w, "missing tpl", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		Title   string
		SpecURL string
	}{
		Title:   docsPageTitle,
		SpecURL: openAPIPath,
	}

	if err := tmpl.Execute(w, data); err != nil {
		h.Deps.Logger.Error("failed to render redoc", zap.Error(err))
	}
}

// APISpec serves the OpenAPI document as JSON.
func (h *WebHandlers) APISpec(w http.ResponseWriter, _ *http.Request) {
	if len(h.Deps.OpenAPI) == 0 {
		renderJSON(w, http.StatusNotFound, models.APIError{Message: MsgRecursoNaoEncontrado})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.Deps.OpenAPI)
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

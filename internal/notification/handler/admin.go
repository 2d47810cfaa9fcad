package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"docnotify/internal/notification/models"
	"docnotify/internal/platform/middleware"
	dErrors "docnotify/pkg/domain-errors"
	"docnotify/pkg/platform/httputil"
)

// Resolver computes recipients without delivering.
type Resolver interface {
	Resolve(ctx context.Context, event models.Event) (*models.Resolution, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// AdminHandler serves health, metrics and the dry-run resolution endpoint.
type AdminHandler struct {
	resolver Resolver
	checks   map[string]HealthCheck
	logger   *slog.Logger
}

func NewAdminHandler(resolver Resolver, checks map[string]HealthCheck, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{resolver: resolver, checks: checks, logger: logger}
}

// Router mounts the admin endpoints. /admin routes require an admin token.
func (h *AdminHandler) Router(validator middleware.TokenValidator, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", h.HandleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(validator, h.logger))
		r.Post("/notifications/resolve", h.HandleResolve)
	})
	return r
}

// HandleHealth handles GET /healthz.
func (h *AdminHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": results})
}

// HandleResolve handles POST /admin/notifications/resolve. It runs the
// resolver for the posted event and reports recipients and suppressions
// without delivering anything.
func (h *AdminHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EventMessage](w, r, h.logger)
	if !ok {
		return
	}
	event := req.Event()

	res, err := h.resolver.Resolve(ctx, event)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			err = dErrors.Wrap(err, dErrors.CodeUnavailable, "resolve recipients")
		}
		h.logger.ErrorContext(ctx, "dry-run resolution failed",
			"event_name", event.Name,
			"document_id", event.DocumentID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "dry-run resolution",
		"subject", middleware.GetSubject(ctx),
		"event_name", event.Name,
		"document_id", event.DocumentID,
		"recipients", len(res.Recipients),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(event, res))
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/errs"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports whether the catalog is loaded and, when configured,
// whether the shared cache answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{
		"catalog": h.catalog != nil && h.catalog.Len() > 0,
	}
	if h.redis != nil {
		checks["redis"] = h.redis.Ping(ctx).Err() == nil
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps the core's error kinds onto status codes so callers
// get an actionable message instead of a generic failure.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		notFound    *errs.NotFoundError
		invalidArg  *errs.InvalidArgumentError
		badData     *errs.DataFormatError
		unavailable *errs.SourceUnavailableError
	)
	switch {
	case errors.As(err, &notFound):
		h.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidArg):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &badData):
		h.errorResponse(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &unavailable):
		h.errorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Errorw("Unhandled error", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// urlParamInt parses a numeric chi URL parameter.
func urlParamInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.InvalidArgument(name, "must be an integer")
	}
	return v, nil
}

// queryInt parses an optional integer query parameter, substituting the
// fallback when it is absent or unparseable.
func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

// queryPosition parses an optional position filter; empty means all.
func queryPosition(r *http.Request) (catalog.Position, error) {
	raw := r.URL.Query().Get("position")
	if raw == "" {
		return "", nil
	}
	return catalog.ParsePosition(raw)
}

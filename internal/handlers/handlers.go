package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/catalog"
)

type Config struct {
	Catalog *catalog.Catalog
	Redis   *redis.Client // nil when no shared cache is configured
	Logger  *zap.Logger
}

type Handler struct {
	catalog   *catalog.Catalog
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	return &Handler{
		catalog:   cfg.Catalog,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}

// Routes maps every analysis command onto a typed request/response
// endpoint. Routing is pure dispatch; the analytics contracts live in
// the engine and history packages.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/players", h.ListPlayers)
	r.Get("/players/{id}", h.GetPlayer)
	r.Get("/players/{id}/history", h.GetPlayerHistory)
	r.Get("/players/{id}/history/{gw}", h.GetPlayerGameweek)
	r.Get("/players/{id}/form", h.GetPlayerForm)
	r.Get("/players/{id}/range", h.GetPlayerRange)
	r.Get("/players/{id}/series", h.GetPlayerSeries)

	r.Get("/rankings/points", h.RankPoints)
	r.Get("/rankings/ownership", h.RankOwnership)
	r.Get("/rankings/value", h.RankValue)
	r.Get("/rankings/form", h.RankForm)

	r.Get("/positions/{position}", h.GetPosition)

	r.Get("/compare", h.ComparePlayers)
	r.Get("/compare/form", h.CompareForm)

	return r
}

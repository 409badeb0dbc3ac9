package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/engine"
	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/history"
)

// rankingQuery carries the common ranking parameters after parsing.
type rankingQuery struct {
	Limit     int `validate:"gt=0"`
	Window    int `validate:"gte=0"`
	MinPoints int `validate:"gte=0"`
	ToGW      int `validate:"gte=0"`
}

func (h *Handler) parseRankingQuery(r *http.Request) (rankingQuery, error) {
	q := rankingQuery{
		Limit:     queryInt(r, "limit", 20),
		Window:    queryInt(r, "window", 0),
		MinPoints: queryInt(r, "min_points", engine.DefaultMinPoints),
		ToGW:      queryInt(r, "to_gw", 0),
	}
	if err := h.validator.Struct(q); err != nil {
		return q, errs.InvalidArgument("query", err.Error())
	}
	return q, nil
}

type rankedPlayer struct {
	Rank   int             `json:"rank"`
	Player *catalog.Player `json:"player"`
}

func rankPlayers(players []*catalog.Player) []rankedPlayer {
	out := make([]rankedPlayer, len(players))
	for i, p := range players {
		out[i] = rankedPlayer{Rank: i + 1, Player: p}
	}
	return out
}

// RankPoints returns the top players by total points
// @Summary Top Players by Points
// @Description Rank by season total, or by points accumulated through to_gw
// @Tags Rankings
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param position query string false "Position filter"
// @Param to_gw query int false "Count points only through this gameweek"
// @Success 200 {object} map[string]interface{} "Ranking"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /rankings/points [get]
func (h *Handler) RankPoints(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseRankingQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	pos, err := queryPosition(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if q.ToGW > 0 {
		tallies, err := history.TopByPointsUpTo(h.catalog, q.Limit, q.ToGW, pos)
		if err != nil {
			h.writeError(w, err)
			return
		}
		type rankedTally struct {
			Rank int `json:"rank"`
			history.Tally
		}
		out := make([]rankedTally, len(tallies))
		for i, t := range tallies {
			out[i] = rankedTally{Rank: i + 1, Tally: t}
		}
		h.jsonResponse(w, http.StatusOK, map[string]interface{}{
			"players": out,
			"stat":    "points",
			"to_gw":   q.ToGW,
		})
		return
	}

	players, err := engine.TopByPoints(h.catalog, q.Limit, pos)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": rankPlayers(players),
		"stat":    "points",
	})
}

// RankOwnership returns the top players by pick rate.
func (h *Handler) RankOwnership(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseRankingQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	pos, err := queryPosition(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	players, err := engine.TopByPickRate(h.catalog, q.Limit, pos)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": rankPlayers(players),
		"stat":    "ownership",
	})
}

// RankValue returns the top players by points per £m
// @Summary Top Players by Value for Money
// @Tags Rankings
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param position query string false "Position filter"
// @Param min_points query int false "Minimum season points" default(50)
// @Success 200 {object} map[string]interface{} "Ranking"
// @Router /rankings/value [get]
func (h *Handler) RankValue(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseRankingQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	pos, err := queryPosition(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ranked, err := engine.TopByValue(h.catalog, q.Limit, pos, q.MinPoints)
	if err != nil {
		h.writeError(w, err)
		return
	}
	type rankedValue struct {
		Rank int `json:"rank"`
		engine.ValueRanking
	}
	out := make([]rankedValue, len(ranked))
	for i, v := range ranked {
		out[i] = rankedValue{Rank: i + 1, ValueRanking: v}
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players":    out,
		"stat":       "value",
		"min_points": q.MinPoints,
	})
}

// RankForm returns the top players by recent form.
func (h *Handler) RankForm(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseRankingQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ranked, err := history.TopByForm(h.catalog, q.Limit, q.Window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	type rankedForm struct {
		Rank int `json:"rank"`
		history.FormScore
	}
	out := make([]rankedForm, len(ranked))
	for i, f := range ranked {
		out[i] = rankedForm{Rank: i + 1, FormScore: f}
	}
	window := q.Window
	if window <= 0 {
		window = history.DefaultWindow
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": out,
		"stat":    "form",
		"window":  window,
	})
}

// GetPosition returns a position's players sorted by points.
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := catalog.ParsePosition(chi.URLParam(r, "position"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	players := engine.ByPosition(h.catalog, pos)
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players":  rankPlayers(players),
		"position": pos,
	})
}

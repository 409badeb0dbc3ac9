package handlers

import (
	"fmt"
	"net/http"

	"github.com/fplpulse/analytics-api/internal/engine"
	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/history"
)

// ListPlayers returns every player in the catalog
// @Summary List Players
// @Description All players, sorted alphabetically or grouped by team
// @Tags Players
// @Produce json
// @Param sort query string false "Sort order (name, team)" default(name)
// @Success 200 {object} map[string]interface{} "Players"
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	field := engine.SortField(r.URL.Query().Get("sort"))
	if field == "" {
		field = engine.SortByName
	}
	players, err := engine.AllSorted(h.catalog, field)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
		"sort":    field,
	})
}

// GetPlayer returns a single player's season summary
// @Summary Get Player
// @Tags Players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} catalog.Player "Player"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.catalog.Player(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, p)
}

// GetPlayerHistory returns a player's full gameweek history.
func (h *Handler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.catalog.Player(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player":  p,
		"history": p.History,
	})
}

// GetPlayerGameweek returns one gameweek's record for a player.
func (h *Handler) GetPlayerGameweek(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	gw, err := urlParamInt(r, "gw")
	if err != nil {
		h.writeError(w, err)
		return
	}
	p, err := h.catalog.Player(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	record, ok := p.Record(gw)
	if !ok {
		h.writeError(w, &errs.NotFoundError{Resource: "gameweek record", ID: fmt.Sprintf("%d", gw)})
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player": p,
		"record": record,
	})
}

// GetPlayerForm returns the detailed form analysis for one player
// @Summary Player Form Analysis
// @Description Season and span aggregates plus a scoring trend; use window for a trailing span or from/to for a fixed range
// @Tags Form
// @Produce json
// @Param id path int true "Player ID"
// @Param window query int false "Trailing window size" default(5)
// @Param from query int false "Start gameweek"
// @Param to query int false "End gameweek"
// @Success 200 {object} history.FormReport "Form Report"
// @Failure 400 {object} map[string]string "Bad Range"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{id}/form [get]
func (h *Handler) GetPlayerForm(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	window := queryInt(r, "window", 0)
	from := queryInt(r, "from", 0)
	to := queryInt(r, "to", 0)

	report, err := history.AnalyzeForm(h.catalog, id, window, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// GetPlayerRange returns aggregates over an inclusive gameweek range.
func (h *Handler) GetPlayerRange(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	from := queryInt(r, "from", 0)
	to := queryInt(r, "to", 0)

	summary, err := history.RangeAnalysis(h.catalog, id, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player_id": id,
		"from":      from,
		"to":        to,
		"summary":   summary,
	})
}

type seriesPoint struct {
	Gameweek int         `json:"gameweek"`
	Value    interface{} `json:"value"`
}

// GetPlayerSeries returns the (gameweek, value) pairs the chart layer
// consumes; metric selects points or price.
func (h *Handler) GetPlayerSeries(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "points"
	}

	points := make([]seriesPoint, 0)
	switch metric {
	case "points":
		seq, err := history.PointsSeries(h.catalog, id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		for gw, v := range seq {
			points = append(points, seriesPoint{Gameweek: gw, Value: v})
		}
	case "price":
		seq, err := history.PriceSeries(h.catalog, id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		for gw, v := range seq {
			points = append(points, seriesPoint{Gameweek: gw, Value: v})
		}
	default:
		h.writeError(w, errs.InvalidArgument("metric", fmt.Sprintf("%q is not one of points/price", metric)))
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player_id": id,
		"metric":    metric,
		"series":    points,
	})
}

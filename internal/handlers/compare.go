package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/history"
)

func parseIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errs.InvalidArgument("ids", "at least one player id required")
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errs.InvalidArgument("ids", "must be comma-separated integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ComparePlayers returns both players' raw aggregates side by side
// @Summary Compare Two Players
// @Description Total, average and form over a range (full season when from/to are omitted); no winner is picked
// @Tags Compare
// @Produce json
// @Param ids query string true "Exactly two player ids, comma-separated"
// @Param from query int false "Start gameweek"
// @Param to query int false "End gameweek"
// @Success 200 {object} history.Comparison "Comparison"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /compare [get]
func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(ids) != 2 {
		h.writeError(w, errs.InvalidArgument("ids", "exactly two player ids required"))
		return
	}
	from := queryInt(r, "from", 0)
	to := queryInt(r, "to", 0)

	comparison, err := history.ComparePair(h.catalog, ids[0], ids[1], from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, comparison)
}

// CompareForm returns form scores for a list of players, in the order
// requested. Any cap on how many fit a chart is the presenter's call.
func (h *Handler) CompareForm(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	window := queryInt(r, "window", 0)

	scores, err := history.CompareMany(h.catalog, ids, window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if window <= 0 {
		window = history.DefaultWindow
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": scores,
		"window":  window,
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/models"
)

// newTestHandler builds a handler over a small fixed catalog: two
// midfielders and a defender with a known value-for-money ordering.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	bulk := &models.Bootstrap{
		Teams: []models.TeamInfo{
			{ID: 1, Name: "Arsenal", ShortName: "ARS"},
			{ID: 2, Name: "Brentford", ShortName: "BRE"},
		},
		ElementTypes: []models.ElementType{
			{ID: 2, SingularName: "Defender"},
			{ID: 3, SingularName: "Midfielder"},
		},
		Elements: []models.Element{
			{ID: 1, FirstName: "Alex", SecondName: "Archer", Team: 1, ElementType: 3, NowCost: 80, TotalPoints: 15, SelectedByPercent: "25.0"},
			{ID: 2, FirstName: "Ben", SecondName: "Brook", Team: 2, ElementType: 3, NowCost: 50, TotalPoints: 10, SelectedByPercent: "45.5"},
			{ID: 3, FirstName: "Carl", SecondName: "Cole", Team: 2, ElementType: 2, NowCost: 40, TotalPoints: 60, SelectedByPercent: "12.3"},
		},
	}
	histories := map[int][]models.HistoryEntry{
		1: {
			{Round: 1, TotalPoints: 5, Value: 80},
			{Round: 2, TotalPoints: 8, Value: 80},
			{Round: 3, TotalPoints: 2, Value: 81},
		},
		2: {{Round: 1, TotalPoints: 10, Value: 50}},
		3: {{Round: 1, TotalPoints: 60, Value: 40}},
	}
	c, err := catalog.Load(bulk, histories)
	if err != nil {
		t.Fatalf("fixture catalog: %v", err)
	}
	return New(Config{Catalog: c, Logger: zap.NewNop()})
}

func doRequest(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestReady(t *testing.T) {
	h := newTestHandler(t)
	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["ready"] != true {
		t.Errorf("unexpected body %v", body)
	}
}

func TestReadyEmptyCatalog(t *testing.T) {
	h := New(Config{Catalog: nil, Logger: zap.NewNop()})
	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before the catalog loads, got %d", w.Code)
	}
}

func TestListPlayers(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", body["count"])
	}
	players := body["players"].([]interface{})
	first := players[0].(map[string]interface{})
	// Alphabetical by last name: Archer first
	if first["last_name"] != "Archer" {
		t.Errorf("expected Archer first, got %v", first["last_name"])
	}

	w = doRequest(t, r, "/players?sort=team")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["sort"] != "team" {
		t.Errorf("expected sort team, got %v", body["sort"])
	}

	w = doRequest(t, r, "/players?sort=points")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sort, got %d", w.Code)
	}
}

func TestGetPlayer(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["first_name"] != "Alex" || body["team"] != "Arsenal" {
		t.Errorf("unexpected player %v", body)
	}
	if body["position"] != "midfielder" {
		t.Errorf("expected midfielder, got %v", body["position"])
	}

	w = doRequest(t, r, "/players/777")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown player, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] == nil {
		t.Error("expected an error message in the body")
	}

	w = doRequest(t, r, "/players/abc")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestGetPlayerHistory(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1/history")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	records := body["history"].([]interface{})
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	first := records[0].(map[string]interface{})
	if first["gameweek"] != float64(1) || first["points"] != float64(5) {
		t.Errorf("unexpected first record %v", first)
	}
}

func TestGetPlayerGameweek(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1/history/2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	record := body["record"].(map[string]interface{})
	if record["points"] != float64(8) {
		t.Errorf("expected 8 points in gameweek 2, got %v", record["points"])
	}

	// Gameweek the player has no record for
	w = doRequest(t, r, "/players/1/history/30")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing gameweek, got %d", w.Code)
	}
}

func TestGetPlayerForm(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1/form")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	span := body["span"].(map[string]interface{})
	if span["average_points"] != float64(5) {
		t.Errorf("expected form 5.0, got %v", span["average_points"])
	}
	if body["trend"] != "insufficient data" {
		t.Errorf("expected insufficient data for 3 records, got %v", body["trend"])
	}

	w = doRequest(t, r, "/players/1/form?from=5&to=2")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for inverted range, got %d", w.Code)
	}
}

func TestGetPlayerRange(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1/range?from=1&to=2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	summary := body["summary"].(map[string]interface{})
	if summary["total_points"] != float64(13) || summary["gameweeks_played"] != float64(2) {
		t.Errorf("unexpected summary %v", summary)
	}

	w = doRequest(t, r, "/players/1/range")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without bounds, got %d", w.Code)
	}
}

func TestGetPlayerSeries(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/players/1/series")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["metric"] != "points" {
		t.Errorf("expected default metric points, got %v", body["metric"])
	}
	series := body["series"].([]interface{})
	if len(series) != 3 {
		t.Fatalf("expected 3 series points, got %d", len(series))
	}
	last := series[2].(map[string]interface{})
	if last["gameweek"] != float64(3) || last["value"] != float64(2) {
		t.Errorf("unexpected last point %v", last)
	}

	w = doRequest(t, r, "/players/1/series?metric=price")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body = decodeBody(t, w)
	series = body["series"].([]interface{})
	last = series[2].(map[string]interface{})
	if last["value"] != "8.1" {
		t.Errorf("expected price 8.1 in gameweek 3, got %v", last["value"])
	}

	w = doRequest(t, r, "/players/1/series?metric=goals")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown metric, got %d", w.Code)
	}
}

func TestRankPoints(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/rankings/points?limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	players := body["players"].([]interface{})
	if len(players) != 2 {
		t.Fatalf("expected 2 ranked players, got %d", len(players))
	}
	first := players[0].(map[string]interface{})
	if first["rank"] != float64(1) {
		t.Errorf("expected rank 1 first, got %v", first["rank"])
	}
	if first["player"].(map[string]interface{})["id"] != float64(3) {
		t.Errorf("expected player 3 on top, got %v", first["player"])
	}

	// Position filter
	w = doRequest(t, r, "/rankings/points?position=midfielder")
	body = decodeBody(t, w)
	players = body["players"].([]interface{})
	top := players[0].(map[string]interface{})["player"].(map[string]interface{})
	if top["id"] != float64(1) {
		t.Errorf("expected midfielder 1 on top, got %v", top)
	}

	w = doRequest(t, r, "/rankings/points?limit=0")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for limit=0, got %d", w.Code)
	}
	w = doRequest(t, r, "/rankings/points?position=striker")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown position, got %d", w.Code)
	}
}

func TestRankPointsToGameweek(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/rankings/points?to_gw=2&limit=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["to_gw"] != float64(2) {
		t.Errorf("expected to_gw echoed, got %v", body["to_gw"])
	}
	players := body["players"].([]interface{})
	// Through gameweek 2: player 3 has 60, player 1 has 13, player 2 has 10
	first := players[0].(map[string]interface{})
	if first["points"] != float64(60) {
		t.Errorf("expected 60 points on top, got %v", first["points"])
	}
	second := players[1].(map[string]interface{})
	if second["points"] != float64(13) {
		t.Errorf("expected 13 points second, got %v", second["points"])
	}
}

func TestRankValue(t *testing.T) {
	r := newTestHandler(t).Routes()

	// Without the floor B's 2.0 per £m beats A's 1.875
	w := doRequest(t, r, "/rankings/value?min_points=0&position=midfielder")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	players := body["players"].([]interface{})
	first := players[0].(map[string]interface{})
	if first["value"] != float64(2) {
		t.Errorf("expected value 2.0 on top, got %v", first["value"])
	}

	// Default floor of 50 keeps only the defender
	w = doRequest(t, r, "/rankings/value")
	body = decodeBody(t, w)
	players = body["players"].([]interface{})
	if len(players) != 1 {
		t.Fatalf("expected 1 player above the default floor, got %d", len(players))
	}
	if body["min_points"] != float64(50) {
		t.Errorf("expected min_points 50 echoed, got %v", body["min_points"])
	}
}

func TestRankForm(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/rankings/form")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["window"] != float64(5) {
		t.Errorf("expected default window 5, got %v", body["window"])
	}
	players := body["players"].([]interface{})
	// Forms: 3 scores 60.0, 2 scores 10.0, 1 scores 5.0
	first := players[0].(map[string]interface{})
	if first["score"] != float64(60) {
		t.Errorf("expected top form 60.0, got %v", first["score"])
	}
}

func TestGetPosition(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/positions/midfielder")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	players := body["players"].([]interface{})
	if len(players) != 2 {
		t.Errorf("expected 2 midfielders, got %d", len(players))
	}

	w = doRequest(t, r, "/positions/striker")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown position, got %d", w.Code)
	}
}

func TestComparePlayers(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/compare?ids=1,2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	a := body["a"].(map[string]interface{})
	b := body["b"].(map[string]interface{})
	if a["total_points"] != float64(15) || b["total_points"] != float64(10) {
		t.Errorf("unexpected totals: a=%v b=%v", a["total_points"], b["total_points"])
	}

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing ids", "/compare", http.StatusBadRequest},
		{"one id", "/compare?ids=1", http.StatusBadRequest},
		{"three ids", "/compare?ids=1,2,3", http.StatusBadRequest},
		{"junk ids", "/compare?ids=1,x", http.StatusBadRequest},
		{"unknown player", "/compare?ids=1,777", http.StatusNotFound},
		{"inverted range", "/compare?ids=1,2&from=4&to=2", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(t, r, tt.target); w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestCompareForm(t *testing.T) {
	r := newTestHandler(t).Routes()

	w := doRequest(t, r, "/compare/form?ids=3,1,2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	players := body["players"].([]interface{})
	if len(players) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(players))
	}
	// Request order preserved, no ranking
	first := players[0].(map[string]interface{})
	if first["player"].(map[string]interface{})["id"] != float64(3) {
		t.Errorf("expected player 3 first as requested, got %v", first["player"])
	}

	w = doRequest(t, r, "/compare/form?ids=1,777")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 when any id is unknown, got %d", w.Code)
	}
}

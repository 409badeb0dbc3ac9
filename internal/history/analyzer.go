// Package history computes windowed and range aggregates over the
// per-gameweek records stored in the catalog. Averages are per played
// gameweek: a gameweek with no record is absent, never counted as zero.
package history

import (
	"fmt"
	"sort"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/errs"
)

// DefaultWindow is the trailing-window size used when the caller does
// not supply one.
const DefaultWindow = 5

// FormScore is a player's average points per played gameweek over a
// trailing window.
type FormScore struct {
	Player *catalog.Player `json:"player"`
	Score  float64         `json:"score"`
	Points int             `json:"points"`
	Played int             `json:"played"`
}

// Tally is a player's summed points up to some gameweek.
type Tally struct {
	Player *catalog.Player `json:"player"`
	Points int             `json:"points"`
}

// RangeSummary aggregates a player's records inside an inclusive
// gameweek range. AveragePoints is 0 when no gameweek was played.
type RangeSummary struct {
	TotalPoints     int     `json:"total_points"`
	AveragePoints   float64 `json:"average_points"`
	GameweeksPlayed int     `json:"gameweeks_played"`
}

func summarize(records []catalog.GameweekRecord) RangeSummary {
	s := RangeSummary{GameweeksPlayed: len(records)}
	for _, r := range records {
		s.TotalPoints += r.Points
	}
	if s.GameweeksPlayed > 0 {
		s.AveragePoints = float64(s.TotalPoints) / float64(s.GameweeksPlayed)
	}
	return s
}

// lastN returns the trailing n records; all of them if fewer exist.
func lastN(records []catalog.GameweekRecord, n int) []catalog.GameweekRecord {
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}

// inRange returns the records with startGw <= gameweek <= endGw.
// History is sorted ascending, so this is a subslice.
func inRange(records []catalog.GameweekRecord, startGw, endGw int) []catalog.GameweekRecord {
	lo := sort.Search(len(records), func(i int) bool { return records[i].Gameweek >= startGw })
	hi := sort.Search(len(records), func(i int) bool { return records[i].Gameweek > endGw })
	return records[lo:hi]
}

func normalizeWindow(window int) int {
	if window <= 0 {
		return DefaultWindow
	}
	return window
}

// RecentForm computes a player's form over the last window records by
// gameweek number. A non-positive window falls back to DefaultWindow;
// fewer records than the window averages over what exists.
func RecentForm(c *catalog.Catalog, id, window int) (FormScore, error) {
	p, err := c.Player(id)
	if err != nil {
		return FormScore{}, err
	}
	return formOf(p, window), nil
}

func formOf(p *catalog.Player, window int) FormScore {
	s := summarize(lastN(p.History, normalizeWindow(window)))
	return FormScore{Player: p, Score: s.AveragePoints, Points: s.TotalPoints, Played: s.GameweeksPlayed}
}

// TopByForm ranks every player with at least one record by form score
// descending, ties by total season points descending then id ascending.
func TopByForm(c *catalog.Catalog, n, window int) ([]FormScore, error) {
	if n <= 0 {
		return nil, errs.InvalidArgument("n", fmt.Sprintf("must be positive, got %d", n))
	}
	ranked := make([]FormScore, 0, c.Len())
	for _, p := range c.Players() {
		if len(p.History) == 0 {
			continue
		}
		ranked = append(ranked, formOf(p, window))
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Player.TotalPoints != ranked[j].Player.TotalPoints {
			return ranked[i].Player.TotalPoints > ranked[j].Player.TotalPoints
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// PointsUpTo sums a player's points across all gameweeks <= gw.
func PointsUpTo(c *catalog.Catalog, id, gw int) (int, error) {
	if gw <= 0 {
		return 0, errs.InvalidArgument("gameweek", fmt.Sprintf("must be positive, got %d", gw))
	}
	p, err := c.Player(id)
	if err != nil {
		return 0, err
	}
	return summarize(inRange(p.History, 1, gw)).TotalPoints, nil
}

// TopByPointsUpTo ranks players by points accumulated through gw,
// optionally filtered to one position. Ties by ascending id.
func TopByPointsUpTo(c *catalog.Catalog, n, gw int, pos catalog.Position) ([]Tally, error) {
	if n <= 0 {
		return nil, errs.InvalidArgument("n", fmt.Sprintf("must be positive, got %d", n))
	}
	if gw <= 0 {
		return nil, errs.InvalidArgument("gameweek", fmt.Sprintf("must be positive, got %d", gw))
	}
	ranked := make([]Tally, 0, c.Len())
	for _, p := range c.Players() {
		if pos != "" && p.Position != pos {
			continue
		}
		ranked = append(ranked, Tally{Player: p, Points: summarize(inRange(p.History, 1, gw)).TotalPoints})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// RangeAnalysis aggregates a player's records within [startGw, endGw]
// inclusive. A player with no records in range gets zero totals and an
// average of 0, not an error.
func RangeAnalysis(c *catalog.Catalog, id, startGw, endGw int) (RangeSummary, error) {
	if startGw <= 0 || endGw <= 0 {
		return RangeSummary{}, errs.InvalidArgument("range", "gameweek numbers must be positive")
	}
	if startGw > endGw {
		return RangeSummary{}, errs.InvalidArgument("range", fmt.Sprintf("start gameweek %d after end gameweek %d", startGw, endGw))
	}
	p, err := c.Player(id)
	if err != nil {
		return RangeSummary{}, err
	}
	return summarize(inRange(p.History, startGw, endGw)), nil
}

// ComparisonSide is one player's aggregates in a pairwise comparison.
type ComparisonSide struct {
	Player        *catalog.Player `json:"player"`
	TotalPoints   int             `json:"total_points"`
	AveragePoints float64         `json:"average_points"`
	FormScore     float64         `json:"form_score"`
}

// Comparison holds both players' raw aggregates. It does not rank;
// presenting a winner is the caller's concern.
type Comparison struct {
	StartGameweek int            `json:"start_gameweek,omitempty"`
	EndGameweek   int            `json:"end_gameweek,omitempty"`
	A             ComparisonSide `json:"a"`
	B             ComparisonSide `json:"b"`
}

// ComparePair aggregates two players over [startGw, endGw], or the full
// season when both bounds are zero. The form score is the average over
// the trailing DefaultWindow records inside the compared span.
func ComparePair(c *catalog.Catalog, idA, idB, startGw, endGw int) (Comparison, error) {
	fullSeason := startGw == 0 && endGw == 0
	if !fullSeason {
		if startGw <= 0 || endGw <= 0 {
			return Comparison{}, errs.InvalidArgument("range", "gameweek numbers must be positive")
		}
		if startGw > endGw {
			return Comparison{}, errs.InvalidArgument("range", fmt.Sprintf("start gameweek %d after end gameweek %d", startGw, endGw))
		}
	}
	a, err := c.Player(idA)
	if err != nil {
		return Comparison{}, err
	}
	b, err := c.Player(idB)
	if err != nil {
		return Comparison{}, err
	}
	side := func(p *catalog.Player) ComparisonSide {
		records := p.History
		if !fullSeason {
			records = inRange(records, startGw, endGw)
		}
		s := summarize(records)
		form := summarize(lastN(records, DefaultWindow))
		return ComparisonSide{
			Player:        p,
			TotalPoints:   s.TotalPoints,
			AveragePoints: s.AveragePoints,
			FormScore:     form.AveragePoints,
		}
	}
	return Comparison{StartGameweek: startGw, EndGameweek: endGw, A: side(a), B: side(b)}, nil
}

// CompareMany computes RecentForm for each id in order. Any unknown id
// fails the whole call; a silent partial result would hide the miss.
// The analyzer accepts any count; chart legibility limits belong to
// the presentation layer.
func CompareMany(c *catalog.Catalog, ids []int, window int) ([]FormScore, error) {
	if len(ids) == 0 {
		return nil, errs.InvalidArgument("ids", "at least one player id required")
	}
	out := make([]FormScore, 0, len(ids))
	for _, id := range ids {
		score, err := RecentForm(c, id, window)
		if err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	return out, nil
}

package history

import (
	"fmt"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/errs"
)

// Trend describes how a player's scoring moved across the analyzed
// span, comparing the first half's average against the second half's.
type Trend string

const (
	TrendImproving    Trend = "improving"
	TrendDeclining    Trend = "declining"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient data" // fewer than 4 records
)

// FormReport is the detailed single-player form analysis: season
// aggregates, the analyzed span's aggregates, its records, and a trend.
type FormReport struct {
	Player   *catalog.Player          `json:"player"`
	Season   RangeSummary             `json:"season"`
	Span     RangeSummary             `json:"span"`
	SpanDesc string                   `json:"span_desc"`
	Records  []catalog.GameweekRecord `json:"records"`
	Trend    Trend                    `json:"trend"`
}

// AnalyzeForm builds a FormReport. With startGw and endGw both set the
// span is that inclusive range; otherwise it is the trailing window
// (non-positive window falls back to DefaultWindow).
func AnalyzeForm(c *catalog.Catalog, id, window, startGw, endGw int) (FormReport, error) {
	ranged := startGw != 0 || endGw != 0
	if ranged {
		if startGw <= 0 || endGw <= 0 {
			return FormReport{}, errs.InvalidArgument("range", "gameweek numbers must be positive")
		}
		if startGw > endGw {
			return FormReport{}, errs.InvalidArgument("range", fmt.Sprintf("start gameweek %d after end gameweek %d", startGw, endGw))
		}
	}
	p, err := c.Player(id)
	if err != nil {
		return FormReport{}, err
	}

	var span []catalog.GameweekRecord
	var desc string
	if ranged {
		span = inRange(p.History, startGw, endGw)
		desc = fmt.Sprintf("GW %d-%d", startGw, endGw)
	} else {
		window = normalizeWindow(window)
		span = lastN(p.History, window)
		desc = fmt.Sprintf("last %d gameweeks", window)
	}

	return FormReport{
		Player:   p,
		Season:   summarize(p.History),
		Span:     summarize(span),
		SpanDesc: desc,
		Records:  span,
		Trend:    trendOf(span),
	}, nil
}

func trendOf(records []catalog.GameweekRecord) Trend {
	if len(records) < 4 {
		return TrendInsufficient
	}
	mid := len(records) / 2
	early := summarize(records[:mid]).AveragePoints
	late := summarize(records[mid:]).AveragePoints
	switch {
	case late > early:
		return TrendImproving
	case late < early:
		return TrendDeclining
	default:
		return TrendStable
	}
}

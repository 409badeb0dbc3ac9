package history

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/fplpulse/analytics-api/internal/catalog"
)

// PointsSeries yields (gameweek, points) pairs in ascending gameweek
// order. The sequence is finite and restartable: every range statement
// walks the history from the start, so repeated chart renders never see
// an exhausted cursor.
func PointsSeries(c *catalog.Catalog, id int) (iter.Seq2[int, int], error) {
	p, err := c.Player(id)
	if err != nil {
		return nil, err
	}
	return func(yield func(int, int) bool) {
		for _, r := range p.History {
			if !yield(r.Gameweek, r.Points) {
				return
			}
		}
	}, nil
}

// PriceSeries yields (gameweek, cost in £m) pairs in ascending gameweek
// order, for price-over-time charts.
func PriceSeries(c *catalog.Catalog, id int) (iter.Seq2[int, decimal.Decimal], error) {
	p, err := c.Player(id)
	if err != nil {
		return nil, err
	}
	return func(yield func(int, decimal.Decimal) bool) {
		for _, r := range p.History {
			if !yield(r.Gameweek, r.Cost) {
				return
			}
		}
	}, nil
}

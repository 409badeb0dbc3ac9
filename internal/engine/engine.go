// Package engine computes derived per-player rankings from an already
// loaded catalog. Every function is a pure read of the catalog value
// passed in; nothing here keeps state between calls.
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fplpulse/analytics-api/internal/catalog"
	"github.com/fplpulse/analytics-api/internal/errs"
)

// DefaultMinPoints is the floor applied by TopByValue when the caller
// does not supply one. It keeps cheap, rarely-played players with tiny
// point totals from dominating the points-per-£m ratio.
const DefaultMinPoints = 50

// ValueRanking pairs a player with their points-per-£m ratio.
type ValueRanking struct {
	Player *catalog.Player `json:"player"`
	Value  float64         `json:"value"`
}

// AllPositions is the zero Position filter: no filtering.
const AllPositions = catalog.Position("")

func candidates(c *catalog.Catalog, pos catalog.Position) []*catalog.Player {
	if pos == AllPositions {
		return c.Players()
	}
	return c.PlayersByPosition(pos)
}

// TopByPoints returns the n highest-scoring players. Ties break by
// ascending id so the order is deterministic. If fewer than n players
// qualify, all of them are returned.
func TopByPoints(c *catalog.Catalog, n int, pos catalog.Position) ([]*catalog.Player, error) {
	if n <= 0 {
		return nil, errs.InvalidArgument("n", fmt.Sprintf("must be positive, got %d", n))
	}
	ranked := append([]*catalog.Player(nil), candidates(c, pos)...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].ID < ranked[j].ID
	})
	return head(ranked, n), nil
}

// TopByPickRate returns the n most-owned players, ties by ascending id.
func TopByPickRate(c *catalog.Catalog, n int, pos catalog.Position) ([]*catalog.Player, error) {
	if n <= 0 {
		return nil, errs.InvalidArgument("n", fmt.Sprintf("must be positive, got %d", n))
	}
	ranked := append([]*catalog.Player(nil), candidates(c, pos)...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Ownership != ranked[j].Ownership {
			return ranked[i].Ownership > ranked[j].Ownership
		}
		return ranked[i].ID < ranked[j].ID
	})
	return head(ranked, n), nil
}

// TopByValue ranks players by total points per £m of current cost.
// Players below minPoints are filtered out first, and a non-positive
// cost excludes a player outright rather than risking a zero divide.
// Ties break by points descending, then id ascending.
func TopByValue(c *catalog.Catalog, n int, pos catalog.Position, minPoints int) ([]ValueRanking, error) {
	if n <= 0 {
		return nil, errs.InvalidArgument("n", fmt.Sprintf("must be positive, got %d", n))
	}
	ranked := make([]ValueRanking, 0, len(c.Players()))
	for _, p := range candidates(c, pos) {
		if p.TotalPoints < minPoints {
			continue
		}
		if p.Cost.Sign() <= 0 {
			continue
		}
		value := decimal.NewFromInt(int64(p.TotalPoints)).Div(p.Cost)
		ranked = append(ranked, ValueRanking{Player: p, Value: value.InexactFloat64()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		if ranked[i].Player.TotalPoints != ranked[j].Player.TotalPoints {
			return ranked[i].Player.TotalPoints > ranked[j].Player.TotalPoints
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})
	return head(ranked, n), nil
}

// ByPosition returns a position's players sorted by points descending,
// ties by ascending id.
func ByPosition(c *catalog.Catalog, pos catalog.Position) []*catalog.Player {
	ranked := append([]*catalog.Player(nil), c.PlayersByPosition(pos)...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// SortField selects the ordering for AllSorted.
type SortField string

const (
	SortByName SortField = "name" // last name, then first name
	SortByTeam SortField = "team" // team name, then last name, then first name
)

// AllSorted returns every player in alphabetical or team order.
func AllSorted(c *catalog.Catalog, field SortField) ([]*catalog.Player, error) {
	ranked := append([]*catalog.Player(nil), c.Players()...)
	switch field {
	case SortByName:
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].LastName != ranked[j].LastName {
				return ranked[i].LastName < ranked[j].LastName
			}
			return ranked[i].FirstName < ranked[j].FirstName
		})
	case SortByTeam:
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].TeamName != ranked[j].TeamName {
				return ranked[i].TeamName < ranked[j].TeamName
			}
			if ranked[i].LastName != ranked[j].LastName {
				return ranked[i].LastName < ranked[j].LastName
			}
			return ranked[i].FirstName < ranked[j].FirstName
		})
	default:
		return nil, errs.InvalidArgument("sort", fmt.Sprintf("unknown sort field %q", field))
	}
	return ranked, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Package catalog holds the normalized, immutable in-memory season
// store. It is built once from the raw DataSource payloads and serves
// read-only queries for the rest of the process run.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fplpulse/analytics-api/internal/errs"
	"github.com/fplpulse/analytics-api/internal/models"
)

// Position is one of the four playing positions. Manager entries in the
// upstream snapshot are dropped during load.
type Position string

const (
	Goalkeeper Position = "goalkeeper"
	Defender   Position = "defender"
	Midfielder Position = "midfielder"
	Forward    Position = "forward"
)

// ParsePosition maps user input to a Position.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(s))) {
	case Goalkeeper:
		return Goalkeeper, nil
	case Defender:
		return Defender, nil
	case Midfielder:
		return Midfielder, nil
	case Forward:
		return Forward, nil
	}
	return "", errs.InvalidArgument("position", fmt.Sprintf("%q is not one of goalkeeper/defender/midfielder/forward", s))
}

type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// GameweekRecord is one finished gameweek for one player. Gameweek
// numbers within a player's history are unique and ascending but not
// necessarily contiguous; a missed gameweek is absent, not zero.
type GameweekRecord struct {
	Gameweek     int             `json:"gameweek"`
	Points       int             `json:"points"`
	Cost         decimal.Decimal `json:"cost"` // £m at that gameweek
	Minutes      int             `json:"minutes"`
	OpponentTeam int             `json:"opponent_team"`
	WasHome      bool            `json:"was_home"`
	GoalsScored  int             `json:"goals_scored"`
	Assists      int             `json:"assists"`
	CleanSheets  int             `json:"clean_sheets"`
}

type Player struct {
	ID          int              `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	TeamID      int              `json:"team_id"`
	TeamName    string           `json:"team"`
	Position    Position         `json:"position"`
	Cost        decimal.Decimal  `json:"cost"` // current, £m
	TotalPoints int              `json:"total_points"`
	Ownership   float64          `json:"selected_by_percent"`
	History     []GameweekRecord `json:"-"`
}

// Name returns the display name.
func (p *Player) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Record returns the history record for one gameweek, if present.
func (p *Player) Record(gw int) (GameweekRecord, bool) {
	i := sort.Search(len(p.History), func(i int) bool { return p.History[i].Gameweek >= gw })
	if i < len(p.History) && p.History[i].Gameweek == gw {
		return p.History[i], true
	}
	return GameweekRecord{}, false
}

// Catalog is the authoritative season store. All fields are fixed after
// Load returns; queries never mutate it.
type Catalog struct {
	players []*Player // source order
	byID    map[int]*Player
	teams   map[int]Team
}

// costFromTenths converts the upstream tenths-of-£m integer to £m.
func costFromTenths(v int) decimal.Decimal {
	return decimal.New(int64(v), -1)
}

// Load normalizes the bulk snapshot plus per-player histories into a
// Catalog. Any malformed or inconsistent input fails the whole load
// with a DataFormatError; no partial catalog is returned.
func Load(bulk *models.Bootstrap, histories map[int][]models.HistoryEntry) (*Catalog, error) {
	if bulk == nil {
		return nil, &errs.DataFormatError{Reason: "nil bulk snapshot"}
	}
	if len(bulk.Elements) == 0 {
		return nil, &errs.DataFormatError{Reason: "snapshot contains no players"}
	}

	teams := make(map[int]Team, len(bulk.Teams))
	for _, t := range bulk.Teams {
		if t.ID <= 0 || t.Name == "" {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("team %d missing id or name", t.ID)}
		}
		teams[t.ID] = Team{ID: t.ID, Name: t.Name, ShortName: t.ShortName}
	}
	if len(teams) == 0 {
		return nil, &errs.DataFormatError{Reason: "snapshot contains no teams"}
	}

	positions := make(map[int]Position, len(bulk.ElementTypes))
	managerType := map[int]bool{}
	for _, et := range bulk.ElementTypes {
		switch strings.ToLower(et.SingularName) {
		case "goalkeeper":
			positions[et.ID] = Goalkeeper
		case "defender":
			positions[et.ID] = Defender
		case "midfielder":
			positions[et.ID] = Midfielder
		case "forward":
			positions[et.ID] = Forward
		case "manager":
			managerType[et.ID] = true
		default:
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("unknown element type %q", et.SingularName)}
		}
	}

	c := &Catalog{
		players: make([]*Player, 0, len(bulk.Elements)),
		byID:    make(map[int]*Player, len(bulk.Elements)),
		teams:   teams,
	}

	for _, el := range bulk.Elements {
		if managerType[el.ElementType] {
			continue
		}
		if el.ID <= 0 {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %q has no id", el.SecondName)}
		}
		if _, dup := c.byID[el.ID]; dup {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("duplicate player id %d", el.ID)}
		}
		if el.SecondName == "" {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d has no name", el.ID)}
		}
		pos, ok := positions[el.ElementType]
		if !ok {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d references unknown element type %d", el.ID, el.ElementType)}
		}
		team, ok := teams[el.Team]
		if !ok {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d references unknown team %d", el.ID, el.Team)}
		}
		if el.NowCost <= 0 {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d has non-positive cost %d", el.ID, el.NowCost)}
		}
		if el.TotalPoints < 0 {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d has negative total points", el.ID)}
		}
		ownership, err := strconv.ParseFloat(strings.TrimSpace(el.SelectedByPercent), 64)
		if err != nil {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d ownership %q", el.ID, el.SelectedByPercent), Err: err}
		}

		history, err := normalizeHistory(el.ID, histories[el.ID])
		if err != nil {
			return nil, err
		}

		p := &Player{
			ID:          el.ID,
			FirstName:   el.FirstName,
			LastName:    el.SecondName,
			TeamID:      team.ID,
			TeamName:    team.Name,
			Position:    pos,
			Cost:        costFromTenths(el.NowCost),
			TotalPoints: el.TotalPoints,
			Ownership:   ownership,
			History:     history,
		}
		c.players = append(c.players, p)
		c.byID[el.ID] = p
	}

	if len(c.players) == 0 {
		return nil, &errs.DataFormatError{Reason: "snapshot contains no playing-position players"}
	}
	return c, nil
}

func normalizeHistory(playerID int, raw []models.HistoryEntry) ([]GameweekRecord, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	records := make([]GameweekRecord, 0, len(raw))
	for _, h := range raw {
		if h.Round <= 0 {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d history has non-positive gameweek %d", playerID, h.Round)}
		}
		if h.Value <= 0 {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d gameweek %d has non-positive cost", playerID, h.Round)}
		}
		records = append(records, GameweekRecord{
			Gameweek:     h.Round,
			Points:       h.TotalPoints,
			Cost:         costFromTenths(h.Value),
			Minutes:      h.Minutes,
			OpponentTeam: h.OpponentTeam,
			WasHome:      h.WasHome,
			GoalsScored:  h.GoalsScored,
			Assists:      h.Assists,
			CleanSheets:  h.CleanSheets,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Gameweek < records[j].Gameweek })
	for i := 1; i < len(records); i++ {
		if records[i].Gameweek == records[i-1].Gameweek {
			return nil, &errs.DataFormatError{Reason: fmt.Sprintf("player %d has duplicate gameweek %d", playerID, records[i].Gameweek)}
		}
	}
	return records, nil
}

// Player returns the player with the given id.
func (c *Catalog) Player(id int) (*Player, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, errs.NotFound("player", id)
	}
	return p, nil
}

// Players returns all players in source order. Callers must not modify
// the returned slice or the players it points to.
func (c *Catalog) Players() []*Player {
	return c.players
}

// PlayersByPosition returns the players in one position, source order.
func (c *Catalog) PlayersByPosition(pos Position) []*Player {
	out := make([]*Player, 0, len(c.players)/4)
	for _, p := range c.players {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// Team returns a team by id.
func (c *Catalog) Team(id int) (Team, bool) {
	t, ok := c.teams[id]
	return t, ok
}

// Len reports the number of players in the catalog.
func (c *Catalog) Len() int { return len(c.players) }

package models

// Raw payload shapes from the FPL API. Only the fields the catalog
// consumes are mapped; everything else in the payload is ignored.

// Bootstrap is the season bulk snapshot from bootstrap-static/.
type Bootstrap struct {
	Elements     []Element     `json:"elements"`
	Teams        []TeamInfo    `json:"teams"`
	ElementTypes []ElementType `json:"element_types"`
}

// Element is one athlete row in the bulk snapshot.
type Element struct {
	ID                int    `json:"id"`
	FirstName         string `json:"first_name"`
	SecondName        string `json:"second_name"`
	Team              int    `json:"team"`
	ElementType       int    `json:"element_type"`
	NowCost           int    `json:"now_cost"` // tenths of £m
	TotalPoints       int    `json:"total_points"`
	SelectedByPercent string `json:"selected_by_percent"`
	Minutes           int    `json:"minutes"`
}

type TeamInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// ElementType maps a numeric position id to its name ("Goalkeeper",
// "Defender", "Midfielder", "Forward", "Manager").
type ElementType struct {
	ID           int    `json:"id"`
	SingularName string `json:"singular_name"`
}

// ElementSummary is the per-player response from element-summary/{id}/.
type ElementSummary struct {
	History []HistoryEntry `json:"history"`
}

// HistoryEntry is one finished gameweek for one player.
type HistoryEntry struct {
	Round        int  `json:"round"`
	TotalPoints  int  `json:"total_points"`
	Value        int  `json:"value"` // cost that gameweek, tenths of £m
	Minutes      int  `json:"minutes"`
	OpponentTeam int  `json:"opponent_team"`
	WasHome      bool `json:"was_home"`
	GoalsScored  int  `json:"goals_scored"`
	Assists      int  `json:"assists"`
	CleanSheets  int  `json:"clean_sheets"`
}

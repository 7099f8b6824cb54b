package server

import (
	"github.com/louisbranch/beacquired/internal/game/board"
	"github.com/louisbranch/beacquired/internal/game/engine"
	"github.com/louisbranch/beacquired/internal/game/match"
)

// CellView is one board cell as rendered to clients.
type CellView struct {
	Label   string `json:"label"`
	Owner   string `json:"owner,omitempty"`
	Company string `json:"company,omitempty"`
	Color   string `json:"color,omitempty"`
}

// CompanyView is one company's public state.
type CompanyView struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Active bool   `json:"active"`
	Size   int    `json:"size"`
}

// PlayerView is one player's public state, including the hand so thin
// clients can render tile buttons.
type PlayerView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Score int      `json:"score"`
	Hand  []string `json:"hand"`
}

// MatchView is the full render model for one match.
type MatchView struct {
	ID              string        `json:"id"`
	Status          string        `json:"status"`
	CurrentPlayerID string        `json:"current_player_id"`
	TilesLeft       int           `json:"tiles_left"`
	ActiveCompanies int           `json:"active_companies"`
	Cells           [][]CellView  `json:"cells"`
	Companies       []CompanyView `json:"companies"`
	Players         []PlayerView  `json:"players"`
}

// PayoutView is one scoring award inside a placement event.
type PayoutView struct {
	PlayerID string `json:"player_id"`
	Company  string `json:"company"`
	Shares   int    `json:"shares"`
	Points   int    `json:"points"`
}

// PlacementEvent is pushed to watchers and returned from play requests.
type PlacementEvent struct {
	Type     string       `json:"type"`
	MatchID  string       `json:"match_id"`
	Play     int          `json:"play"`
	PlayerID string       `json:"player_id"`
	Tile     string       `json:"tile"`
	Kind     string       `json:"kind"`
	Company  string       `json:"company,omitempty"`
	Defunct  []string     `json:"defunct,omitempty"`
	Payouts  []PayoutView `json:"payouts,omitempty"`
	Status   string       `json:"status"`
}

func newMatchView(m *match.Match) MatchView {
	view := MatchView{
		ID:              m.ID,
		Status:          string(m.Status),
		CurrentPlayerID: m.CurrentPlayer().ID,
		TilesLeft:       m.TilesLeft(),
		ActiveCompanies: m.Companies.ActiveCount(),
	}

	view.Cells = make([][]CellView, board.Rows)
	for r := 0; r < board.Rows; r++ {
		view.Cells[r] = make([]CellView, board.Cols)
		for c := 0; c < board.Cols; c++ {
			cell, _ := m.Board.CellAt(r, c)
			cellView := CellView{Label: cell.Coord.Label(), Owner: cell.Owner}
			if cell.InCompany() {
				if comp, ok := m.Companies.Company(cell.Company); ok {
					cellView.Company = comp.Name
					cellView.Color = comp.Color
				}
			}
			view.Cells[r][c] = cellView
		}
	}

	for i := 0; i < m.Companies.Len(); i++ {
		comp, _ := m.Companies.Company(i)
		view.Companies = append(view.Companies, CompanyView{
			Name:   comp.Name,
			Color:  comp.Color,
			Active: comp.Active,
			Size:   comp.Size(),
		})
	}

	for _, p := range m.Players.Players() {
		view.Players = append(view.Players, PlayerView{
			ID:    p.ID,
			Name:  p.Name,
			Score: p.Score,
			Hand:  p.Hand(),
		})
	}
	return view
}

func newPlacementEvent(m *match.Match, outcome engine.Outcome, play int) PlacementEvent {
	event := PlacementEvent{
		Type:     "placement",
		MatchID:  m.ID,
		Play:     play,
		PlayerID: outcome.PlayerID,
		Tile:     outcome.Placed.Label(),
		Kind:     outcome.Kind.String(),
		Status:   string(m.Status),
	}
	if outcome.Company != board.NoCompany {
		if comp, ok := m.Companies.Company(outcome.Company); ok {
			event.Company = comp.Name
		}
	}
	for _, idx := range outcome.Defunct {
		if comp, ok := m.Companies.Company(idx); ok {
			event.Defunct = append(event.Defunct, comp.Name)
		}
	}
	for _, payout := range outcome.Payouts {
		event.Payouts = append(event.Payouts, PayoutView{
			PlayerID: payout.PlayerID,
			Company:  payout.Company,
			Shares:   payout.Shares,
			Points:   payout.Points,
		})
	}
	return event
}

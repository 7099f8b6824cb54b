// Package engine resolves tile placements against the board and company
// registry: starting isolated tiles, founding companies, joining them,
// and merging them with scoring.
//
// The engine is synchronous and purely reactive: one placement resolves
// to completion before the next is accepted, and callers serialize calls
// by turn order. It holds no state of its own.
package engine

import (
	"fmt"
	"sort"

	"github.com/louisbranch/beacquired/internal/game/board"
	"github.com/louisbranch/beacquired/internal/game/company"
	"github.com/louisbranch/beacquired/internal/game/player"
	apperrors "github.com/louisbranch/beacquired/internal/platform/errors"
)

var (
	// ErrOutOfBounds indicates the target coordinate is off the board.
	ErrOutOfBounds = apperrors.New(apperrors.CodeBoardOutOfBounds, "cell is outside the board")

	// ErrCellOccupied indicates the target cell already has an owner.
	ErrCellOccupied = apperrors.New(apperrors.CodeBoardCellOccupied, "cell is already owned")

	// ErrNoCompanyAvailable indicates the placement would found a company
	// beyond the active cap. The board is rolled back to its pre-placement
	// state.
	ErrNoCompanyAvailable = apperrors.New(apperrors.CodeCompanyPoolExhausted, "all companies are active; cannot found another")
)

// ResolvePlacement applies one tile placement by playerID at coord.
//
// The local topology around the placed cell decides the outcome:
//
//   - no owned neighbors: the tile stands alone (starter)
//   - owned neighbors, none in a company: a company is founded from the
//     tile and those neighbors, or the move is rejected when the active
//     cap is reached
//   - neighbors in exactly one company: the tile (and any loose starter
//     neighbors) joins it
//   - neighbors in two or more companies: the companies merge
//
// Only the founding case can fail; merging reduces the active count and
// is never capped.
func ResolvePlacement(b *board.Board, reg *company.Registry, led *player.Ledger, coord board.Coord, playerID string) (Outcome, error) {
	cell, ok := b.At(coord)
	if !ok {
		return Outcome{}, fmt.Errorf("resolve placement at %s: %w", coord.Label(), ErrOutOfBounds)
	}
	if cell.Owned() {
		return Outcome{}, fmt.Errorf("resolve placement at %s: %w", coord.Label(), ErrCellOccupied)
	}

	cell.Owner = playerID

	var adjOwned []*board.Cell
	for _, neighbor := range b.Neighbors(coord) {
		if neighbor.Owned() {
			adjOwned = append(adjOwned, neighbor)
		}
	}

	// Starter: isolated owned tile, no company involvement.
	if len(adjOwned) == 0 {
		return Outcome{
			Kind:     KindStarter,
			Placed:   coord,
			PlayerID: playerID,
			Company:  board.NoCompany,
		}, nil
	}

	// Distinct adjacent companies, in neighbor order.
	var adjCompanies []int
	seen := make(map[int]bool)
	for _, neighbor := range adjOwned {
		if neighbor.InCompany() && !seen[neighbor.Company] {
			seen[neighbor.Company] = true
			adjCompanies = append(adjCompanies, neighbor.Company)
		}
	}

	switch len(adjCompanies) {
	case 0:
		return foundCompany(b, reg, cell, adjOwned, coord, playerID)
	case 1:
		idx := adjCompanies[0]
		reg.AddCell(idx, cell)
		for _, neighbor := range adjOwned {
			if !neighbor.InCompany() {
				reg.AddCell(idx, neighbor)
			}
		}
		return Outcome{
			Kind:     KindJoined,
			Placed:   coord,
			PlayerID: playerID,
			Company:  idx,
		}, nil
	default:
		return mergeCompanies(b, reg, led, adjCompanies, cell, adjOwned, coord, playerID)
	}
}

// foundCompany activates the next available company identity for the
// placed tile and its loose owned neighbors. When every company is
// active the placement is rejected and ownership rolled back.
func foundCompany(b *board.Board, reg *company.Registry, cell *board.Cell, adjOwned []*board.Cell, coord board.Coord, playerID string) (Outcome, error) {
	idx, ok := reg.FirstInactive()
	if !ok || reg.ActiveCount() >= company.MaxActive {
		cell.Owner = ""
		return Outcome{}, fmt.Errorf("resolve placement at %s: %w", coord.Label(), ErrNoCompanyAvailable)
	}

	reg.AddCell(idx, cell)
	for _, neighbor := range adjOwned {
		reg.AddCell(idx, neighbor)
	}
	return Outcome{
		Kind:     KindFounded,
		Placed:   coord,
		PlayerID: playerID,
		Company:  idx,
	}, nil
}

// mergeCompanies resolves a placement bridging two or more companies.
//
// Companies rank by size descending; among equals, the one where the
// acting player holds the fewest shares acquires. Every defunct company
// is scored before any of its cells move, so scoring always reads
// pre-merge membership.
func mergeCompanies(b *board.Board, reg *company.Registry, led *player.Ledger, adjCompanies []int, cell *board.Cell, adjOwned []*board.Cell, coord board.Coord, playerID string) (Outcome, error) {
	ranked := make([]int, len(adjCompanies))
	copy(ranked, adjCompanies)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, _ := reg.Company(ranked[i])
		cj, _ := reg.Company(ranked[j])
		if ci.Size() != cj.Size() {
			return ci.Size() > cj.Size()
		}
		si := reg.Shares(ranked[i], b, playerID)
		sj := reg.Shares(ranked[j], b, playerID)
		if si != sj {
			return si < sj
		}
		// Full tie: fall back to registry creation order.
		return ranked[i] < ranked[j]
	})

	acquirer := ranked[0]
	defunct := ranked[1:]

	var payouts []Payout
	for _, idx := range defunct {
		payouts = append(payouts, scoreDefunct(b, reg, led, idx)...)
	}

	reg.AddCell(acquirer, cell)
	for _, neighbor := range adjOwned {
		if !neighbor.InCompany() {
			reg.AddCell(acquirer, neighbor)
		}
	}

	for _, idx := range defunct {
		c, _ := reg.Company(idx)
		coords := c.Cells()
		// Reset before re-affiliating so the dissolved identity never
		// holds a stale reference to a cell the acquirer now owns.
		reg.Reset(idx, b)
		for _, memberCoord := range coords {
			if memberCell, ok := b.At(memberCoord); ok {
				reg.AddCell(acquirer, memberCell)
			}
		}
	}

	return Outcome{
		Kind:     KindMerged,
		Placed:   coord,
		PlayerID: playerID,
		Company:  acquirer,
		Defunct:  defunct,
		Payouts:  payouts,
	}, nil
}

// scoreDefunct awards every shareholder of an acquired company
// shares x (size - 1) points, measured against the company's own size at
// the moment of acquisition. Payouts follow ledger turn order.
func scoreDefunct(b *board.Board, reg *company.Registry, led *player.Ledger, idx int) []Payout {
	c, ok := reg.Company(idx)
	if !ok {
		return nil
	}
	size := c.Size()

	shares := make(map[string]int)
	for _, coord := range c.Cells() {
		if cell, found := b.At(coord); found && cell.Owned() {
			shares[cell.Owner]++
		}
	}

	var payouts []Payout
	for _, p := range led.Players() {
		held := shares[p.ID]
		if held == 0 {
			continue
		}
		points := held * (size - 1)
		p.AddScore(points)
		payouts = append(payouts, Payout{
			PlayerID: p.ID,
			Company:  c.Name,
			Shares:   held,
			Points:   points,
		})
	}
	return payouts
}

// Package company tracks the fixed pool of companies that form on the board.
//
// Companies are created once at startup and never destroyed. A company is
// active while it occupies cells; when it is absorbed in a merger it is
// reset and its name and color re-enter the available pool.
package company

import (
	"sort"

	"github.com/louisbranch/beacquired/internal/game/board"
)

// PoolSize is the number of companies in the default pool.
const PoolSize = 7

// MaxActive caps how many companies may occupy the board at once.
// Placements that would found a company beyond this cap are rejected.
const MaxActive = 7

// Definition names a company identity in the pool.
type Definition struct {
	Name  string
	Color string
}

// DefaultPool returns the standard seven company identities in founding
// order. FirstInactive hands them out in this order, so the order is part
// of the game's deterministic behavior.
func DefaultPool() []Definition {
	return []Definition{
		{Name: "Red", Color: "#E53935"},
		{Name: "Yellow", Color: "#FDD835"},
		{Name: "Green", Color: "#43A047"},
		{Name: "Blue", Color: "#1E88E5"},
		{Name: "Orange", Color: "#FB8C00"},
		{Name: "Purple", Color: "#8E24AA"},
		{Name: "Cyan", Color: "#00ACC1"},
	}
}

// Company is one named, colored company. Its member set holds the
// coordinates of every cell it occupies; the cells themselves point back
// at the company by registry index.
type Company struct {
	Name   string
	Color  string
	Active bool

	members map[board.Coord]struct{}
}

// Size returns the number of member cells.
func (c *Company) Size() int {
	return len(c.members)
}

// Contains reports whether coord is a member cell.
func (c *Company) Contains(coord board.Coord) bool {
	_, ok := c.members[coord]
	return ok
}

// Cells returns the member coordinates sorted by row then column.
func (c *Company) Cells() []board.Coord {
	coords := make([]board.Coord, 0, len(c.members))
	for coord := range c.members {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// Registry holds the company pool in fixed creation order.
type Registry struct {
	companies []*Company
}

// NewRegistry builds a registry from the given definitions, or from
// DefaultPool when none are provided.
func NewRegistry(defs ...Definition) *Registry {
	if len(defs) == 0 {
		defs = DefaultPool()
	}
	companies := make([]*Company, 0, len(defs))
	for _, def := range defs {
		companies = append(companies, &Company{
			Name:    def.Name,
			Color:   def.Color,
			members: make(map[board.Coord]struct{}),
		})
	}
	return &Registry{companies: companies}
}

// Len returns the pool size.
func (r *Registry) Len() int {
	return len(r.companies)
}

// Company returns the company at the given registry index.
func (r *Registry) Company(idx int) (*Company, bool) {
	if idx < 0 || idx >= len(r.companies) {
		return nil, false
	}
	return r.companies[idx], true
}

// FirstInactive returns the index of the first inactive company in
// creation order, deciding which identity a newly founded company
// receives. The second return value is false when every company is
// active.
func (r *Registry) FirstInactive() (int, bool) {
	for idx, c := range r.companies {
		if !c.Active {
			return idx, true
		}
	}
	return 0, false
}

// ActiveCount returns how many companies currently occupy the board.
func (r *Registry) ActiveCount() int {
	count := 0
	for _, c := range r.companies {
		if c.Active {
			count++
		}
	}
	return count
}

// AddCell adds a cell to the company at idx, setting the cell's
// back-reference and activating the company on its first cell. Adding a
// cell that is already a member is a no-op.
func (r *Registry) AddCell(idx int, cell *board.Cell) {
	c, ok := r.Company(idx)
	if !ok || cell == nil {
		return
	}
	if _, member := c.members[cell.Coord]; member {
		return
	}
	c.members[cell.Coord] = struct{}{}
	cell.Company = idx
	c.Active = true
}

// Reset dissolves the company at idx: every member cell's back-reference
// is cleared, the member set is emptied, and the company becomes inactive
// so its identity re-enters the available pool.
func (r *Registry) Reset(idx int, b *board.Board) {
	c, ok := r.Company(idx)
	if !ok {
		return
	}
	for coord := range c.members {
		if cell, found := b.At(coord); found && cell.Company == idx {
			cell.Company = board.NoCompany
		}
	}
	c.members = make(map[board.Coord]struct{})
	c.Active = false
}

// Shares counts how many of the company's member cells the given player
// owns. Shares are derived, never stored.
func (r *Registry) Shares(idx int, b *board.Board, playerID string) int {
	c, ok := r.Company(idx)
	if !ok {
		return 0
	}
	count := 0
	for coord := range c.members {
		if cell, found := b.At(coord); found && cell.Owner == playerID {
			count++
		}
	}
	return count
}

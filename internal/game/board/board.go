// Package board models the 9x12 grid that tiles are placed on.
package board

// Board dimensions. Tile labels run A1 through I12.
const (
	Rows = 9
	Cols = 12
)

// NoCompany marks a cell that is not affiliated with any company.
const NoCompany = -1

// Board holds every cell of the grid. Cells are created once at
// construction and never destroyed; placements and mergers only mutate
// their owner and company fields.
type Board struct {
	cells [Rows][Cols]Cell
}

// New returns an empty board with all cells unowned and unaffiliated.
func New() *Board {
	b := &Board{}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b.cells[r][c] = Cell{
				Coord:   Coord{Row: r, Col: c},
				Company: NoCompany,
			}
		}
	}
	return b
}

// CellAt returns the cell at the given coordinates. The second return
// value is false when the coordinates fall outside the grid.
func (b *Board) CellAt(row, col int) (*Cell, bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return nil, false
	}
	return &b.cells[row][col], true
}

// At is CellAt for a Coord value.
func (b *Board) At(coord Coord) (*Cell, bool) {
	return b.CellAt(coord.Row, coord.Col)
}

// Neighbors returns the valid orthogonal neighbors of coord in fixed
// order: up, down, left, right. Edges and corners clip; there is no
// wraparound.
func (b *Board) Neighbors(coord Coord) []*Cell {
	dirs := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	neighbors := make([]*Cell, 0, 4)
	for _, d := range dirs {
		if cell, ok := b.CellAt(coord.Row+d[0], coord.Col+d[1]); ok {
			neighbors = append(neighbors, cell)
		}
	}
	return neighbors
}

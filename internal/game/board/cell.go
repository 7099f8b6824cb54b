package board

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/beacquired/internal/platform/errors"
)

// Coord identifies one board position by row and column.
type Coord struct {
	Row int
	Col int
}

// Label renders the coordinate as a tile label, e.g. A1 or I12.
func (c Coord) Label() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.Row), c.Col+1)
}

// ParseLabel parses a tile label back into a coordinate.
func ParseLabel(label string) (Coord, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return Coord{}, apperrors.WithMetadata(apperrors.CodeMatchInvalidTileLabel,
			fmt.Sprintf("invalid tile label %q", label),
			map[string]string{"label": label})
	}
	row := int(label[0] - 'A')
	col, err := strconv.Atoi(label[1:])
	if err != nil || row < 0 || row >= Rows || col < 1 || col > Cols {
		return Coord{}, apperrors.WithMetadata(apperrors.CodeMatchInvalidTileLabel,
			fmt.Sprintf("invalid tile label %q", label),
			map[string]string{"label": label})
	}
	return Coord{Row: row, Col: col - 1}, nil
}

// Cell is one addressable position on the board.
//
// Owner is set exactly once, when a player places the tile. Company is
// mutable: it points into the company registry while the cell belongs to
// an active company and is NoCompany otherwise.
type Cell struct {
	Coord   Coord
	Owner   string
	Company int
}

// Owned reports whether a player has placed this tile.
func (c *Cell) Owned() bool {
	return c.Owner != ""
}

// InCompany reports whether the cell belongs to a company.
func (c *Cell) InCompany() bool {
	return c.Company != NoCompany
}

package company

import (
	"testing"

	"github.com/louisbranch/beacquired/internal/game/board"
)

func mustCell(t *testing.T, b *board.Board, row, col int) *board.Cell {
	t.Helper()
	cell, ok := b.CellAt(row, col)
	if !ok {
		t.Fatalf("expected cell at (%d, %d)", row, col)
	}
	return cell
}

func TestDefaultPoolSizeAndOrder(t *testing.T) {
	defs := DefaultPool()
	if len(defs) != PoolSize {
		t.Fatalf("pool size = %d, want %d", len(defs), PoolSize)
	}
	if defs[0].Name != "Red" || defs[6].Name != "Cyan" {
		t.Fatalf("unexpected pool order: first %q, last %q", defs[0].Name, defs[6].Name)
	}
}

func TestFirstInactiveFollowsCreationOrder(t *testing.T) {
	b := board.New()
	r := NewRegistry()

	idx, ok := r.FirstInactive()
	if !ok || idx != 0 {
		t.Fatalf("first inactive = %d, %v; want 0, true", idx, ok)
	}

	// Activate the first two companies; the third is next in line.
	r.AddCell(0, mustCell(t, b, 0, 0))
	r.AddCell(1, mustCell(t, b, 4, 4))

	idx, ok = r.FirstInactive()
	if !ok || idx != 2 {
		t.Fatalf("first inactive = %d, %v; want 2, true", idx, ok)
	}
}

func TestFirstInactiveExhausted(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	for i := 0; i < r.Len(); i++ {
		r.AddCell(i, mustCell(t, b, i, 0))
	}
	if _, ok := r.FirstInactive(); ok {
		t.Fatal("expected no inactive company")
	}
	if r.ActiveCount() != PoolSize {
		t.Fatalf("active count = %d, want %d", r.ActiveCount(), PoolSize)
	}
}

func TestAddCellActivatesAndBackReferences(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	cell := mustCell(t, b, 2, 3)

	r.AddCell(0, cell)

	c, _ := r.Company(0)
	if !c.Active {
		t.Fatal("expected company active after first cell")
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
	if !c.Contains(cell.Coord) {
		t.Fatal("expected member set to contain cell")
	}
	if cell.Company != 0 {
		t.Fatalf("cell back-reference = %d, want 0", cell.Company)
	}
}

func TestAddCellIsIdempotent(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	cell := mustCell(t, b, 2, 3)

	r.AddCell(0, cell)
	r.AddCell(0, cell)

	c, _ := r.Company(0)
	if c.Size() != 1 {
		t.Fatalf("size after duplicate add = %d, want 1", c.Size())
	}
}

func TestResetClearsBackReferencesAndReentersPool(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	first := mustCell(t, b, 0, 0)
	second := mustCell(t, b, 0, 1)
	r.AddCell(0, first)
	r.AddCell(0, second)

	r.Reset(0, b)

	c, _ := r.Company(0)
	if c.Active {
		t.Fatal("expected company inactive after reset")
	}
	if c.Size() != 0 {
		t.Fatalf("size after reset = %d, want 0", c.Size())
	}
	if first.InCompany() || second.InCompany() {
		t.Fatal("expected member cells unaffiliated after reset")
	}
	if first.Owner != "" {
		// Reset dissolves the company, not the placements.
		t.Fatal("reset must not clear ownership")
	}

	idx, ok := r.FirstInactive()
	if !ok || idx != 0 {
		t.Fatalf("expected reset company back in pool, got %d, %v", idx, ok)
	}
}

func TestActiveMatchesNonEmptyMemberSet(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	for i := 0; i < r.Len(); i++ {
		c, _ := r.Company(i)
		if c.Active != (c.Size() > 0) {
			t.Fatalf("company %d: active %v with size %d", i, c.Active, c.Size())
		}
	}
	r.AddCell(3, mustCell(t, b, 5, 5))
	c, _ := r.Company(3)
	if !c.Active || c.Size() != 1 {
		t.Fatalf("company 3: active %v size %d, want active with 1 cell", c.Active, c.Size())
	}
}

func TestSharesCountsOwnedMemberCells(t *testing.T) {
	b := board.New()
	r := NewRegistry()

	cells := []*board.Cell{
		mustCell(t, b, 0, 0),
		mustCell(t, b, 0, 1),
		mustCell(t, b, 0, 2),
	}
	cells[0].Owner = "p1"
	cells[1].Owner = "p1"
	cells[2].Owner = "p2"
	for _, cell := range cells {
		r.AddCell(0, cell)
	}

	if got := r.Shares(0, b, "p1"); got != 2 {
		t.Fatalf("p1 shares = %d, want 2", got)
	}
	if got := r.Shares(0, b, "p2"); got != 1 {
		t.Fatalf("p2 shares = %d, want 1", got)
	}
	if got := r.Shares(0, b, "p3"); got != 0 {
		t.Fatalf("p3 shares = %d, want 0", got)
	}
}

func TestCellsAreSorted(t *testing.T) {
	b := board.New()
	r := NewRegistry()
	r.AddCell(0, mustCell(t, b, 3, 4))
	r.AddCell(0, mustCell(t, b, 1, 7))
	r.AddCell(0, mustCell(t, b, 1, 2))

	c, _ := r.Company(0)
	want := []board.Coord{{Row: 1, Col: 2}, {Row: 1, Col: 7}, {Row: 3, Col: 4}}
	got := c.Cells()
	if len(got) != len(want) {
		t.Fatalf("cells = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

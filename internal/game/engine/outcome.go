package engine

import "github.com/louisbranch/beacquired/internal/game/board"

// Kind classifies how a placement resolved.
type Kind int

const (
	KindUnspecified Kind = iota
	// KindStarter is an isolated tile with no owned neighbors.
	KindStarter
	// KindFounded created a new company from the tile and its owned neighbors.
	KindFounded
	// KindJoined added the tile to exactly one existing company.
	KindJoined
	// KindMerged bridged two or more companies; the largest acquired the rest.
	KindMerged
)

func (k Kind) String() string {
	switch k {
	case KindStarter:
		return "starter"
	case KindFounded:
		return "founded"
	case KindJoined:
		return "joined"
	case KindMerged:
		return "merged"
	default:
		return "unspecified"
	}
}

// Payout records points awarded to one shareholder of an acquired company.
type Payout struct {
	PlayerID string
	Company  string
	Shares   int
	Points   int
}

// Outcome reports how a placement resolved, for callers to persist and
// render.
type Outcome struct {
	Kind     Kind
	Placed   board.Coord
	PlayerID string

	// Company is the registry index of the company founded, joined, or
	// acquiring, and board.NoCompany for starter placements.
	Company int

	// Defunct lists the registry indexes of companies absorbed by a
	// merge, in ranking order.
	Defunct []int

	// Payouts lists the scoring awards applied during a merge.
	Payouts []Payout
}

// Package player tracks per-player score and hand bookkeeping.
package player

import "slices"

// Player is one participant in a match. Score only ever grows; points
// are awarded when companies the player holds shares in are acquired.
type Player struct {
	ID    string
	Name  string
	Score int

	hand []string
}

// New returns a player with an empty hand.
func New(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Hand returns a copy of the player's tile labels.
func (p *Player) Hand() []string {
	return slices.Clone(p.hand)
}

// HoldsTile reports whether the player's hand contains the label.
func (p *Player) HoldsTile(label string) bool {
	return slices.Contains(p.hand, label)
}

// AddTile appends a drawn tile to the hand.
func (p *Player) AddTile(label string) {
	p.hand = append(p.hand, label)
}

// RemoveTile removes one played tile from the hand. It reports whether
// the tile was present.
func (p *Player) RemoveTile(label string) bool {
	idx := slices.Index(p.hand, label)
	if idx < 0 {
		return false
	}
	p.hand = slices.Delete(p.hand, idx, idx+1)
	return true
}

// HandSize returns the number of tiles held.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// AddScore awards points. Negative awards are ignored; scores are
// monotonically non-decreasing.
func (p *Player) AddScore(points int) {
	if points > 0 {
		p.Score += points
	}
}

// Ledger holds a match's players in turn order.
type Ledger struct {
	players []*Player
}

// NewLedger builds a ledger from players in turn order.
func NewLedger(players ...*Player) *Ledger {
	return &Ledger{players: slices.Clone(players)}
}

// Len returns the number of players.
func (l *Ledger) Len() int {
	return len(l.players)
}

// At returns the player at the given turn-order position.
func (l *Ledger) At(idx int) *Player {
	return l.players[idx]
}

// Player finds a player by id.
func (l *Ledger) Player(id string) (*Player, bool) {
	for _, p := range l.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the players in turn order.
func (l *Ledger) Players() []*Player {
	return slices.Clone(l.players)
}

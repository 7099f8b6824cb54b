package match

import (
	"math/rand"

	"github.com/louisbranch/beacquired/internal/game/board"
)

// DeckSize is the number of tiles in a full deck, one per board cell.
const DeckSize = board.Rows * board.Cols

// NewDeck returns every tile label shuffled deterministically by seed.
// The same seed always produces the same deal order.
func NewDeck(seed int64) []string {
	deck := make([]string, 0, DeckSize)
	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			deck = append(deck, board.Coord{Row: r, Col: c}.Label())
		}
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

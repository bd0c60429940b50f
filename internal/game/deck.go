package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// DeckSize is the number of cards in a full deck
const DeckSize = 52

// Source supplies uniformly distributed ints in [0, n).
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a PRNG seeded from crypto/rand
func NewSource() *rand.Rand {
	var b [8]byte
	seed := time.Now().UnixNano()
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return rand.New(rand.NewSource(seed))
}

// BuildOrderedDeck creates a standard 52-card deck, suits outer and
// values inner, in the order of Suits and Values
func BuildOrderedDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, value := range Values {
			cards = append(cards, NewCard(value, suit))
		}
	}
	return cards
}

// Shuffle returns a randomly permuted copy of cards. The input is left untouched.
func Shuffle(cards []Card, src Source) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)

	// Fisher-Yates shuffle algorithm
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// indexOf returns the position of the card holding id, or -1
func indexOf(cards []Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

package game

type Suit string
type Value string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

const (
	Ace   Value = "A"
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "10"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
)

// Suits lists the suits in deck construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Values lists the values in rank order.
var Values = []Value{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// MagicCardID is the identity the trick swaps the clicked card with.
const MagicCardID = "8-clubs"

// Card is a single playing card. ID normally reads "{value}-{suit}",
// but the magic trick moves ids between positions, so callers must not
// derive suit or value from it.
type Card struct {
	Suit  Suit   `json:"suit"`
	Value Value  `json:"value"`
	ID    string `json:"id"`
}

// NewCard returns the card for (value, suit) with its canonical id
func NewCard(value Value, suit Suit) Card {
	return Card{Suit: suit, Value: value, ID: CardID(value, suit)}
}

// CardID builds the canonical id for a value and suit
func CardID(value Value, suit Suit) string {
	return string(value) + "-" + string(suit)
}

// MagicCard returns the 8 of clubs
func MagicCard() Card {
	return NewCard(Eight, Clubs)
}

// Symbol returns the suit glyph
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return ""
	}
}

// IsRed reports whether the suit is printed in red
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

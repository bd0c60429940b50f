package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultShuffleDelay is how long a shuffle stays in progress before the
// new order is dealt, long enough for the overlay animation to play
const DefaultShuffleDelay = 1500 * time.Millisecond

var (
	ErrShuffleInProgress = errors.New("shuffle in progress")
	ErrUnknownCard       = errors.New("unknown card")
	ErrTableClosed       = errors.New("table closed")
)

// TableState is a read-only snapshot of a table handed to views and clients
type TableState struct {
	ID          string    `json:"id"`
	Cards       []Card    `json:"cards"`
	SelectedID  string    `json:"selectedId,omitempty"`
	IsShuffling bool      `json:"isShuffling"`
	TrickArmed  bool      `json:"trickArmed"`
	Version     uint64    `json:"version"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Selected returns the card whose id is selected, if any
func (s TableState) Selected() (Card, bool) {
	if s.SelectedID == "" {
		return Card{}, false
	}
	if i := indexOf(s.Cards, s.SelectedID); i >= 0 {
		return s.Cards[i], true
	}
	return Card{}, false
}

// TableOptions configures a new table
type TableOptions struct {
	ShuffleDelay time.Duration
	Source       Source
	// OnChange is called with the new state after every change,
	// outside the table lock
	OnChange func(TableState)
}

// Table owns the deck and all view state for one viewer: the card order,
// the selected card, the shuffle flag and the magic trick flag
type Table struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	cards       []Card
	selectedID  string
	isShuffling bool
	trickArmed  bool
	version     uint64
	updatedAt   time.Time
	closed      bool

	// generation invalidates shuffle callbacks that fire after a newer
	// shuffle started or after Close
	generation uint64
	timer      *time.Timer

	delay    time.Duration
	src      Source
	onChange func(TableState)
}

// NewTable creates a new table with a freshly shuffled deck
func NewTable(id string, opts TableOptions) *Table {
	if id == "" {
		id = uuid.New().String()
	}
	if opts.ShuffleDelay <= 0 {
		opts.ShuffleDelay = DefaultShuffleDelay
	}
	if opts.Source == nil {
		opts.Source = NewSource()
	}

	now := time.Now()
	return &Table{
		ID:        id,
		CreatedAt: now,
		cards:     Shuffle(BuildOrderedDeck(), opts.Source),
		updatedAt: now,
		delay:     opts.ShuffleDelay,
		src:       opts.Source,
		onChange:  opts.OnChange,
	}
}

// Shuffle clears the selection and starts a shuffle. Once the shuffle delay
// elapses the deck is replaced by a shuffled fresh deck.
func (t *Table) Shuffle() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTableClosed
	}
	if t.isShuffling {
		t.mu.Unlock()
		return ErrShuffleInProgress
	}

	t.selectedID = ""
	t.isShuffling = true
	t.generation++
	gen := t.generation
	t.timer = time.AfterFunc(t.delay, func() { t.finishShuffle(gen) })
	state := t.touch()
	t.mu.Unlock()

	t.notify(state)
	return nil
}

func (t *Table) finishShuffle(gen uint64) {
	t.mu.Lock()
	if t.closed || gen != t.generation || !t.isShuffling {
		t.mu.Unlock()
		return
	}

	t.cards = Shuffle(BuildOrderedDeck(), t.src)
	t.isShuffling = false
	t.timer = nil
	state := t.touch()
	t.mu.Unlock()

	t.notify(state)
}

// SelectCard handles a click on the card holding id. With the trick armed the
// click swaps identities with the magic card and disarms the trick instead.
func (t *Table) SelectCard(id string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTableClosed
	}
	if t.isShuffling {
		t.mu.Unlock()
		return ErrShuffleInProgress
	}

	idx := indexOf(t.cards, id)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}

	if t.trickArmed {
		t.cards = swapIdentities(t.cards, idx)
		t.trickArmed = false
		t.selectedID = MagicCardID
	} else {
		t.selectedID = id
	}
	state := t.touch()
	t.mu.Unlock()

	t.notify(state)
	return nil
}

// swapIdentities returns a copy of cards where the card at clicked shows the
// magic card under the clicked id, and the position holding the magic id
// shows what the clicked card used to show.
//
// This is the one place where a card's id stops describing its face.
func swapIdentities(cards []Card, clicked int) []Card {
	magic := indexOf(cards, MagicCardID)
	if magic < 0 {
		panic("game: magic card id missing from deck")
	}

	picked := cards[clicked]
	out := make([]Card, len(cards))
	copy(out, cards)
	out[clicked] = Card{Suit: Clubs, Value: Eight, ID: picked.ID}
	out[magic] = Card{Suit: picked.Suit, Value: picked.Value, ID: MagicCardID}
	return out
}

// ClearSelection turns the selected card face down again
func (t *Table) ClearSelection() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTableClosed
	}

	t.selectedID = ""
	state := t.touch()
	t.mu.Unlock()

	t.notify(state)
	return nil
}

// ToggleTrick arms or disarms the magic trick and reports the new setting
func (t *Table) ToggleTrick() (bool, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false, ErrTableClosed
	}

	t.trickArmed = !t.trickArmed
	armed := t.trickArmed
	state := t.touch()
	t.mu.Unlock()

	t.notify(state)
	return armed, nil
}

// State returns a snapshot of the table
func (t *Table) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// LastActive returns when the table last changed
func (t *Table) LastActive() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updatedAt
}

// Close stops a pending shuffle. A shuffle callback that still fires
// afterwards does nothing. Close is idempotent.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// touch records a state change. Callers hold t.mu.
func (t *Table) touch() TableState {
	t.version++
	t.updatedAt = time.Now()
	return t.snapshot()
}

func (t *Table) snapshot() TableState {
	cards := make([]Card, len(t.cards))
	copy(cards, t.cards)
	return TableState{
		ID:          t.ID,
		Cards:       cards,
		SelectedID:  t.selectedID,
		IsShuffling: t.isShuffling,
		TrickArmed:  t.trickArmed,
		Version:     t.version,
		UpdatedAt:   t.updatedAt,
	}
}

func (t *Table) notify(state TableState) {
	if t.onChange != nil {
		t.onChange(state)
	}
}

package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRenderCardFaceDown(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	if err := r.RenderCard(&buf, CardView{Card: game.NewCard(game.King, game.Hearts)}); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "card-back") {
		t.Fatalf("expected card back, got %s", out)
	}
	if strings.Contains(out, "♥") {
		t.Fatalf("expected face-down card to hide its suit, got %s", out)
	}
}

func TestRenderCardFaceUp(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name  string
		view  CardView
		want  []string
		avoid []string
	}{
		{
			name:  "red small",
			view:  CardView{Card: game.NewCard(game.Queen, game.Diamonds), FaceUp: true},
			want:  []string{"card-front red", "♦", ">Q<"},
			avoid: []string{"card-large", "card-back"},
		},
		{
			name:  "black large",
			view:  CardView{Card: game.MagicCard(), FaceUp: true, Large: true},
			want:  []string{"card-front black", "♣", ">8<", "card-large"},
			avoid: []string{"card-back"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.RenderCard(&buf, tt.view); err != nil {
				t.Fatalf("render: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %s", w, out)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(out, a) {
					t.Errorf("did not expect %q in %s", a, out)
				}
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	state := game.TableState{
		ID:         "t1",
		Cards:      game.BuildOrderedDeck(),
		SelectedID: "K-hearts",
	}

	p := NewPage(state, "/table/t1", "/ws?tableId=t1")

	if len(p.Cards) != game.DeckSize {
		t.Fatalf("expected %d card views, got %d", game.DeckSize, len(p.Cards))
	}
	faceUp := 0
	for _, c := range p.Cards {
		if c.FaceUp {
			faceUp++
			if c.Card.ID != "K-hearts" {
				t.Fatalf("expected K-hearts face up, got %s", c.Card.ID)
			}
		}
	}
	if faceUp != 1 {
		t.Fatalf("expected one face-up card, got %d", faceUp)
	}
	if p.Selected == nil || !p.Selected.Large || p.Selected.Card.Value != game.King {
		t.Fatalf("expected large selected king, got %+v", p.Selected)
	}
}

func TestRenderTable(t *testing.T) {
	r := newTestRenderer(t)
	state := game.TableState{ID: "t1", Cards: game.BuildOrderedDeck(), Version: 7}

	var buf bytes.Buffer
	if err := r.RenderTable(&buf, NewPage(state, "/table/t1", "/ws?tableId=t1")); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, `name="cardId"`); got != game.DeckSize {
		t.Fatalf("expected %d card forms, got %d", game.DeckSize, got)
	}
	for _, want := range []string{
		`action="/table/t1/shuffle"`,
		`action="/table/t1/select"`,
		`action="/table/t1/trick"`,
		`data-version="7"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in page", want)
		}
	}
	for _, avoid := range []string{"overlay shuffling", "overlay selected", " disabled"} {
		if strings.Contains(out, avoid) {
			t.Errorf("did not expect %q in idle page", avoid)
		}
	}
}

func TestRenderTableShufflingAndSelected(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	shuffling := game.TableState{ID: "t1", Cards: game.BuildOrderedDeck(), IsShuffling: true}
	if err := r.RenderTable(&buf, NewPage(shuffling, "/table/t1", "/ws")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "overlay shuffling") || !strings.Contains(buf.String(), " disabled") {
		t.Fatal("expected shuffle overlay and disabled button")
	}

	buf.Reset()
	selected := game.TableState{ID: "t1", Cards: game.BuildOrderedDeck(), SelectedID: game.MagicCardID}
	if err := r.RenderTable(&buf, NewPage(selected, "/table/t1", "/ws")); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "overlay selected") || !strings.Contains(out, `action="/table/t1/dismiss"`) {
		t.Fatal("expected selected overlay with dismiss backdrop")
	}
	if !strings.Contains(out, "card-large") {
		t.Fatal("expected large card in overlay")
	}
}

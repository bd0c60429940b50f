// Package view renders a table as an HTML page. Rendering is a pure
// function of the table state; nothing here mutates it.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
)

//go:embed templates/*.html
var templateFS embed.FS

// CardView is what the card template needs to draw one card
type CardView struct {
	Card   game.Card
	FaceUp bool
	Large  bool
}

// Symbol returns the suit glyph of the card
func (v CardView) Symbol() string {
	return v.Card.Suit.Symbol()
}

// ColorClass returns the text colour class for the card face
func (v CardView) ColorClass() string {
	if v.Card.Suit.IsRed() {
		return "red"
	}
	return "black"
}

// Page is the data handed to the page template
type Page struct {
	State    game.TableState
	Cards    []CardView
	Selected *CardView
	// BasePath prefixes the form actions, e.g. /table/{id}
	BasePath string
	// SocketPath is the websocket endpoint the page subscribes to
	SocketPath string
}

// Stack returns the placeholder cards drawn in the shuffle animation
func (p Page) Stack() []int {
	return []int{0, 1, 2, 3, 4}
}

// Renderer renders pages from the embedded templates
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewPage builds the page data for a table state
func NewPage(state game.TableState, basePath, socketPath string) Page {
	p := Page{
		State:      state,
		Cards:      make([]CardView, len(state.Cards)),
		BasePath:   basePath,
		SocketPath: socketPath,
	}
	for i, c := range state.Cards {
		p.Cards[i] = CardView{Card: c, FaceUp: c.ID == state.SelectedID}
	}
	if selected, ok := state.Selected(); ok {
		p.Selected = &CardView{Card: selected, FaceUp: true, Large: true}
	}
	return p
}

// RenderTable writes the full page for a table
func (r *Renderer) RenderTable(w io.Writer, p Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html", p); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// RenderCard writes a single card
func (r *Renderer) RenderCard(w io.Writer, v CardView) error {
	if err := r.tmpl.ExecuteTemplate(w, "card", v); err != nil {
		return fmt.Errorf("render card: %w", err)
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
	"github.com/calvinwijaya/eight-of-clubs/internal/store"
	"github.com/calvinwijaya/eight-of-clubs/internal/view"
	"github.com/gorilla/mux"
)

// Handlers contains all the page and API handlers
type Handlers struct {
	store        store.Store
	hub          *Hub
	renderer     *view.Renderer
	shuffleDelay time.Duration
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(store store.Store, hub *Hub, renderer *view.Renderer, shuffleDelay time.Duration) *Handlers {
	return &Handlers{
		store:        store,
		hub:          hub,
		renderer:     renderer,
		shuffleDelay: shuffleDelay,
	}
}

// RegisterRoutes registers all routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Page endpoints
	r.HandleFunc("/", h.NewTablePage).Methods("GET")
	r.HandleFunc("/table/{id}", h.TablePage).Methods("GET")
	r.HandleFunc("/table/{id}/shuffle", h.pageAction(shuffleTable)).Methods("POST")
	r.HandleFunc("/table/{id}/select", h.pageAction(selectFormCard)).Methods("POST")
	r.HandleFunc("/table/{id}/dismiss", h.pageAction(dismissCard)).Methods("POST")
	r.HandleFunc("/table/{id}/trick", h.pageAction(toggleTrick)).Methods("POST")

	// Table API endpoints
	r.HandleFunc("/api/table", h.CreateTable).Methods("POST")
	r.HandleFunc("/api/table/{id}", h.GetTable).Methods("GET")
	r.HandleFunc("/api/table/{id}", h.DeleteTable).Methods("DELETE")
	r.HandleFunc("/api/table/{id}/shuffle", h.Shuffle).Methods("POST")
	r.HandleFunc("/api/table/{id}/select", h.SelectCard).Methods("POST")
	r.HandleFunc("/api/table/{id}/dismiss", h.apiAction(dismissCard)).Methods("POST")
	r.HandleFunc("/api/table/{id}/trick", h.apiAction(toggleTrick)).Methods("POST")

	// WebSocket endpoint
	r.HandleFunc("/ws", h.WebSocket)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnknownCard):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrShuffleInProgress):
		return http.StatusConflict
	case errors.Is(err, game.ErrTableClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// newTable creates and stores a table whose changes are pushed to the hub
func (h *Handlers) newTable() (*game.Table, error) {
	t := game.NewTable("", game.TableOptions{
		ShuffleDelay: h.shuffleDelay,
		OnChange:     h.hub.BroadcastTableUpdate,
	})
	if err := h.store.SaveTable(t); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (h *Handlers) table(r *http.Request) (*game.Table, error) {
	return h.store.GetTable(mux.Vars(r)["id"])
}

// tableAction is a controller operation triggered by a request
type tableAction func(t *game.Table, r *http.Request) error

func shuffleTable(t *game.Table, _ *http.Request) error {
	return t.Shuffle()
}

func dismissCard(t *game.Table, _ *http.Request) error {
	return t.ClearSelection()
}

func toggleTrick(t *game.Table, _ *http.Request) error {
	_, err := t.ToggleTrick()
	return err
}

func selectFormCard(t *game.Table, r *http.Request) error {
	return t.SelectCard(r.FormValue("cardId"))
}

func tablePath(id string) string {
	return "/table/" + url.PathEscape(id)
}

// NewTablePage deals a new table and sends the browser to it
func (h *Handlers) NewTablePage(w http.ResponseWriter, r *http.Request) {
	t, err := h.newTable()
	if err != nil {
		http.Error(w, "Failed to create table", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, tablePath(t.ID), http.StatusSeeOther)
}

// TablePage renders the deck page for a table
func (h *Handlers) TablePage(w http.ResponseWriter, r *http.Request) {
	t, err := h.table(r)
	if err != nil {
		// Evicted or unknown tables start over with a fresh deck
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := view.NewPage(t.State(), tablePath(t.ID), "/ws?tableId="+url.QueryEscape(t.ID))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.RenderTable(w, page); err != nil {
		log.Printf("Error rendering table %s: %v", t.ID, err)
	}
}

// pageAction runs an action from a page form and redirects back to the page
func (h *Handlers) pageAction(action tableAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.table(r)
		if err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		err = action(t, r)
		switch {
		case err == nil, errors.Is(err, game.ErrShuffleInProgress):
			// The page already shows the shuffle in progress
		case errors.Is(err, game.ErrTableClosed):
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		default:
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		http.Redirect(w, r, tablePath(t.ID), http.StatusSeeOther)
	}
}

// apiAction runs an action and responds with the resulting state
func (h *Handlers) apiAction(action tableAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.table(r)
		if err != nil {
			errorResponse(w, http.StatusNotFound, "Table not found")
			return
		}
		if err := action(t, r); err != nil {
			errorResponse(w, statusFor(err), err.Error())
			return
		}
		response(w, http.StatusOK, t.State())
	}
}

// CreateTable deals a new table
func (h *Handlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.newTable()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to create table")
		return
	}
	response(w, http.StatusCreated, t.State())
}

// GetTable returns the current state of a table
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.table(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Table not found")
		return
	}
	response(w, http.StatusOK, t.State())
}

// DeleteTable removes a table and cancels any shuffle in flight
func (h *Handlers) DeleteTable(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTable(mux.Vars(r)["id"]); err != nil {
		errorResponse(w, statusFor(err), "Table not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Shuffle starts a shuffle. The new order arrives over the websocket once
// the shuffle finishes.
func (h *Handlers) Shuffle(w http.ResponseWriter, r *http.Request) {
	t, err := h.table(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Table not found")
		return
	}
	if err := t.Shuffle(); err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}
	response(w, http.StatusAccepted, t.State())
}

// SelectCard handles a click on a card
func (h *Handlers) SelectCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"cardId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CardID == "" {
		errorResponse(w, http.StatusBadRequest, "cardId is required")
		return
	}

	t, err := h.table(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Table not found")
		return
	}
	if err := t.SelectCard(req.CardID); err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}
	response(w, http.StatusOK, t.State())
}

// WebSocket subscribes a connection to a table's updates
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTable(r.URL.Query().Get("tableId"))
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Table not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	h.hub.serve(conn, t.ID, t.State)
}

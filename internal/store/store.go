package store

import (
	"errors"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
)

var ErrTableNotFound = errors.New("table not found")

// Store defines the interface for table storage
type Store interface {
	// SaveTable saves a table to the store
	SaveTable(t *game.Table) error

	// GetTable retrieves a table by ID
	GetTable(id string) (*game.Table, error)

	// DeleteTable removes a table from the store and closes it
	DeleteTable(id string) error

	// AllTables returns all tables in the store
	AllTables() ([]*game.Table, error)
}

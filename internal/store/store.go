// Package store persists items behind a narrow interface so the HTTP layer
// does not depend on a concrete backend.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an item ID does not exist.
var ErrNotFound = errors.New("item not found")

// Item is a stored item. Timestamps are UTC.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the item persistence contract.
type Store interface {
	List(ctx context.Context, limit int) ([]Item, error)
	Create(ctx context.Context, item Item) error
	Get(ctx context.Context, id string) (Item, error)
	Delete(ctx context.Context, id string) error
}

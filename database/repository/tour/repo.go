package tourRepo

import (
	"context"
	"errors"

	"tourbook/models"
)

// ErrNotFound is returned for unknown tour IDs.
var ErrNotFound = errors.New("tour not found")

// Repository is the read-only tour catalog. Tours are loaded at startup
// and never mutated afterwards.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	List(ctx context.Context) ([]models.Tour, error)
}

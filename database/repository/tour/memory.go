package tourRepo

import (
	"context"

	"tourbook/models"
)

// MemoryTourRepo serves a fixed catalog from memory. Used in tests and
// when no Mongo catalog is configured.
type MemoryTourRepo struct {
	tours map[string]models.Tour
	order []string
}

func NewMemoryTourRepo(tours []models.Tour) *MemoryTourRepo {
	repo := &MemoryTourRepo{tours: make(map[string]models.Tour, len(tours))}
	for _, t := range tours {
		repo.tours[t.ID] = t
		repo.order = append(repo.order, t.ID)
	}
	return repo
}

func (r *MemoryTourRepo) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	tour, ok := r.tours[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &tour, nil
}

func (r *MemoryTourRepo) List(ctx context.Context) ([]models.Tour, error) {
	tours := make([]models.Tour, 0, len(r.order))
	for _, id := range r.order {
		tours = append(tours, r.tours[id])
	}
	return tours, nil
}

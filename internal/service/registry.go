package service

import (
	"context"

	"github.com/atinyakov/WargaKeeper/internal/models"
)

// ResidentRepository defines the persistence operations needed by the RegistryService.
type ResidentRepository interface {
	// Create stores a resident and returns its id.
	Create(ctx context.Context, r models.Resident) (int64, error)
	// List returns every resident, newest first.
	List(ctx context.Context) ([]models.Resident, error)
	// GetByID returns models.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id int64) (models.Resident, error)
	// Update overwrites the fields present in patch.
	Update(ctx context.Context, id int64, patch models.ResidentPatch) error
	// Delete removes a resident permanently.
	Delete(ctx context.Context, id int64) error
}

// RegistryService implements the resident registry operations.
type RegistryService struct {
	// repo is the underlying persistence repository.
	repo ResidentRepository
}

// NewRegistryService constructs a RegistryService with the provided ResidentRepository.
func NewRegistryService(repo ResidentRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

// Create validates r and stores it. Mandatory fields are trimmed first.
func (s *RegistryService) Create(ctx context.Context, r models.Resident) (int64, error) {
	r = r.Normalize()
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, r)
}

// List returns every resident, most recently created first.
func (s *RegistryService) List(ctx context.Context) ([]models.Resident, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves a single resident.
func (s *RegistryService) GetByID(ctx context.Context, id int64) (models.Resident, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies patch to the resident with the given id.
func (s *RegistryService) Update(ctx context.Context, id int64, patch models.ResidentPatch) error {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the resident with the given id.
func (s *RegistryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// internal/services/read_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/repository"
	"github.com/enescucu1/auto/internal/utils"
)

type ReadService struct {
	repo repository.AutoRepository
}

func NewReadService(repo repository.AutoRepository) *ReadService {
	return &ReadService{repo: repo}
}

// FindByID fetches one Auto with its Modell (and Abbildungen if
// requested). An unknown id fails with ErrNotFound.
func (s *ReadService) FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error) {
	auto, err := s.repo.FindByID(ctx, id, withAbbildungen)
	if err != nil {
		return nil, err
	}
	if auto == nil {
		return nil, fmt.Errorf("auto with id %d: %w", id, ErrNotFound)
	}

	auto.NormalizeSchlagwoerter()
	return auto, nil
}

// FindFileByAutoID fetches the attached binary blob for an Auto id.
// Absence of a file is not an error; found reports whether one exists.
func (s *ReadService) FindFileByAutoID(ctx context.Context, id uint) (*models.AutoFile, bool, error) {
	file, err := s.repo.FindFileByAutoID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return file, file != nil, nil
}

// Find executes a paginated, optionally filtered search. An empty filter
// is an unfiltered listing. A filter containing a non-whitelisted key, or
// an invalid kategorie value, fails with ErrNotFound. An empty result
// page also fails with ErrNotFound.
func (s *ReadService) Find(ctx context.Context, filter map[string]any, pageable utils.Pageable) ([]models.Auto, int64, error) {
	if len(filter) > 0 {
		if err := validateFilter(filter); err != nil {
			return nil, 0, err
		}
	}

	spec := BuildSearchSpec(filter)

	autos, err := s.repo.FindMany(ctx, spec, pageable.Offset(), pageable.Size)
	if err != nil {
		return nil, 0, err
	}

	if len(autos) == 0 {
		return nil, 0, fmt.Errorf("no autos for filter %v on page %d: %w", filter, pageable.Page, ErrNotFound)
	}

	total, err := s.repo.Count(ctx, spec)
	if err != nil {
		return nil, 0, err
	}

	for i := range autos {
		autos[i].NormalizeSchlagwoerter()
	}

	logrus.WithFields(logrus.Fields{
		"filter": filter,
		"page":   pageable.Page,
		"size":   pageable.Size,
		"total":  total,
	}).Debug("Autos found")

	return autos, total, nil
}

// Count returns the total entity count, no filter.
func (s *ReadService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, repository.SearchSpec{})
}

// validateFilter rejects unknown keys and invalid kategorie values.
// Invalid search parameters surface as "nothing found", not as a
// client-input error.
func validateFilter(filter map[string]any) error {
	for key := range filter {
		if !filterWhitelist[key] {
			return fmt.Errorf("invalid filter key %q: %w", key, ErrNotFound)
		}
	}

	if v, ok := filter[FilterKategorie]; ok {
		if s := asString(v); !models.IsValidKategorie(s) {
			return fmt.Errorf("invalid kategorie %q: %w", s, ErrNotFound)
		}
	}

	return nil
}

// internal/services/fake_repository_test.go
package services

import (
	"context"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/repository"
)

// fakeRepository is an in-memory stand-in for the persistence port.
type fakeRepository struct {
	autos  map[uint]*models.Auto
	files  map[uint]*models.AutoFile
	nextID uint

	findManyResult []models.Auto
	countResult    int64
	lastSpec       repository.SearchSpec
	findByIDCalls  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		autos:  make(map[uint]*models.Auto),
		files:  make(map[uint]*models.AutoFile),
		nextID: 1,
	}
}

func (f *fakeRepository) put(auto models.Auto) *models.Auto {
	if auto.ID == 0 {
		auto.ID = f.nextID
	}
	if auto.ID >= f.nextID {
		f.nextID = auto.ID + 1
	}
	stored := auto
	f.autos[stored.ID] = &stored
	return &stored
}

func (f *fakeRepository) FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error) {
	f.findByIDCalls++
	auto, ok := f.autos[id]
	if !ok {
		return nil, nil
	}
	copied := *auto
	return &copied, nil
}

func (f *fakeRepository) FindMany(ctx context.Context, spec repository.SearchSpec, offset, limit int) ([]models.Auto, error) {
	f.lastSpec = spec
	if offset >= len(f.findManyResult) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.findManyResult) {
		end = len(f.findManyResult)
	}
	return f.findManyResult[offset:end], nil
}

func (f *fakeRepository) Count(ctx context.Context, spec repository.SearchSpec) (int64, error) {
	return f.countResult, nil
}

func (f *fakeRepository) CountByFahrgestellnummer(ctx context.Context, fahrgestellnummer string) (int64, error) {
	var count int64
	for _, auto := range f.autos {
		if auto.Fahrgestellnummer == fahrgestellnummer {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) Insert(ctx context.Context, auto *models.Auto) error {
	stored := f.put(*auto)
	auto.ID = stored.ID
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, auto *models.Auto) error {
	copied := *auto
	f.autos[auto.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, auto *models.Auto) error {
	delete(f.autos, auto.ID)
	delete(f.files, auto.ID)
	return nil
}

func (f *fakeRepository) FindFileByAutoID(ctx context.Context, autoID uint) (*models.AutoFile, error) {
	file, ok := f.files[autoID]
	if !ok {
		return nil, nil
	}
	copied := *file
	return &copied, nil
}

func (f *fakeRepository) DeleteFileByAutoID(ctx context.Context, autoID uint) error {
	delete(f.files, autoID)
	return nil
}

func (f *fakeRepository) InsertFile(ctx context.Context, file *models.AutoFile) error {
	copied := *file
	f.files[file.AutoID] = &copied
	return nil
}

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repository.AutoRepository) error) error {
	return fn(f)
}

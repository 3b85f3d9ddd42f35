// internal/repository/auto_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/enescucu1/auto/internal/models"
)

// AutoRepository is the narrow persistence port the services depend on.
// Lookups return (nil, nil) when no row matches; "not found" semantics
// live in the service layer.
type AutoRepository interface {
	FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error)
	FindMany(ctx context.Context, spec SearchSpec, offset, limit int) ([]models.Auto, error)
	Count(ctx context.Context, spec SearchSpec) (int64, error)
	CountByFahrgestellnummer(ctx context.Context, fahrgestellnummer string) (int64, error)
	Insert(ctx context.Context, auto *models.Auto) error
	Update(ctx context.Context, auto *models.Auto) error
	Delete(ctx context.Context, auto *models.Auto) error

	FindFileByAutoID(ctx context.Context, autoID uint) (*models.AutoFile, error)
	DeleteFileByAutoID(ctx context.Context, autoID uint) error
	InsertFile(ctx context.Context, file *models.AutoFile) error

	// WithTransaction runs fn against a repository bound to a single
	// database transaction; fn returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(AutoRepository) error) error
}

type gormAutoRepository struct {
	db *gorm.DB
}

func NewAutoRepository(db *gorm.DB) AutoRepository {
	return &gormAutoRepository{db: db}
}

func (r *gormAutoRepository) FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error) {
	query := r.db.WithContext(ctx).Preload("Modell")
	if withAbbildungen {
		query = query.Preload("Abbildungen")
	}

	var auto models.Auto
	if err := query.First(&auto, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &auto, nil
}

func (r *gormAutoRepository) FindMany(ctx context.Context, spec SearchSpec, offset, limit int) ([]models.Auto, error) {
	query := r.applySpec(r.db.WithContext(ctx).Model(&models.Auto{}).Preload("Modell"), spec)

	var autos []models.Auto
	if err := query.Order("autos.id").Offset(offset).Limit(limit).Find(&autos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch autos: %w", err)
	}
	return autos, nil
}

func (r *gormAutoRepository) Count(ctx context.Context, spec SearchSpec) (int64, error) {
	query := r.applySpec(r.db.WithContext(ctx).Model(&models.Auto{}), spec)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count autos: %w", err)
	}
	return total, nil
}

func (r *gormAutoRepository) CountByFahrgestellnummer(ctx context.Context, fahrgestellnummer string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Auto{}).
		Where("fahrgestellnummer = ?", fahrgestellnummer).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count by fahrgestellnummer: %w", err)
	}
	return count, nil
}

func (r *gormAutoRepository) Insert(ctx context.Context, auto *models.Auto) error {
	if err := r.db.WithContext(ctx).Create(auto).Error; err != nil {
		return fmt.Errorf("failed to create auto: %w", err)
	}
	return nil
}

func (r *gormAutoRepository) Update(ctx context.Context, auto *models.Auto) error {
	err := r.db.WithContext(ctx).Model(auto).
		Select("Version", "Fahrgestellnummer", "Kategorie", "Preis", "Rabatt", "Lieferbar", "Datum", "Schlagwoerter").
		Updates(auto).Error
	if err != nil {
		return fmt.Errorf("failed to update auto: %w", err)
	}
	return nil
}

func (r *gormAutoRepository) Delete(ctx context.Context, auto *models.Auto) error {
	if err := r.db.WithContext(ctx).Delete(auto).Error; err != nil {
		return fmt.Errorf("failed to delete auto: %w", err)
	}
	return nil
}

func (r *gormAutoRepository) FindFileByAutoID(ctx context.Context, autoID uint) (*models.AutoFile, error) {
	var file models.AutoFile
	err := r.db.WithContext(ctx).Where("auto_id = ?", autoID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &file, nil
}

func (r *gormAutoRepository) DeleteFileByAutoID(ctx context.Context, autoID uint) error {
	err := r.db.WithContext(ctx).Where("auto_id = ?", autoID).Delete(&models.AutoFile{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete auto file: %w", err)
	}
	return nil
}

func (r *gormAutoRepository) InsertFile(ctx context.Context, file *models.AutoFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to create auto file: %w", err)
	}
	return nil
}

func (r *gormAutoRepository) WithTransaction(ctx context.Context, fn func(AutoRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormAutoRepository{db: tx})
	})
}

// applySpec translates the SearchSpec into WHERE clauses. The modell
// predicate needs a join against the modelle table.
func (r *gormAutoRepository) applySpec(query *gorm.DB, spec SearchSpec) *gorm.DB {
	if spec.Fahrgestellnummer != nil {
		query = query.Where("fahrgestellnummer LIKE ?", *spec.Fahrgestellnummer+"%")
	}

	if spec.Kategorie != nil {
		query = query.Where("kategorie = ?", *spec.Kategorie)
	}

	if spec.PreisMax != nil {
		query = query.Where("preis <= ?", *spec.PreisMax)
	}

	if spec.RabattMin != nil {
		query = query.Where("rabatt >= ?", *spec.RabattMin)
	}

	if spec.Lieferbar != nil {
		query = query.Where("lieferbar = ?", *spec.Lieferbar)
	}

	if spec.DatumAb != nil {
		query = query.Where("datum >= ?", *spec.DatumAb)
	}

	if spec.Modell != nil {
		searchTerm := "%" + strings.ToLower(*spec.Modell) + "%"
		query = query.
			Joins("JOIN modelle ON modelle.auto_id = autos.id").
			Where("LOWER(modelle.modell) LIKE ?", searchTerm)
	}

	if spec.Schlagwort != nil {
		query = query.Where("? = ANY(schlagwoerter)", *spec.Schlagwort)
	}

	return query
}

// internal/handlers/dto.go
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/utils"
)

// AutoReader is the read-side port the handlers call through.
type AutoReader interface {
	FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error)
	FindFileByAutoID(ctx context.Context, id uint) (*models.AutoFile, bool, error)
	Find(ctx context.Context, filter map[string]any, pageable utils.Pageable) ([]models.Auto, int64, error)
	Count(ctx context.Context) (int64, error)
}

// AutoWriter is the write-side port the handlers call through.
type AutoWriter interface {
	Create(ctx context.Context, auto *models.Auto) (uint, error)
	AddFile(ctx context.Context, autoID uint, data []byte, filename string) (*models.AutoFile, error)
	Update(ctx context.Context, id uint, auto *models.Auto, versionToken string) (int, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type ModellDTO struct {
	Modell string `json:"modell" validate:"required,min=2,max=40"`
}

type AbbildungDTO struct {
	Beschriftung string `json:"beschriftung" validate:"required,max=64"`
	ContentType  string `json:"content_type" validate:"required,max=64"`
}

// AutoDTO carries the plain attributes of an Auto. Any version value a
// client might send is deliberately absent: versions are managed by the
// service alone.
type AutoDTO struct {
	Fahrgestellnummer string          `json:"fahrgestellnummer" validate:"required,fahrgestellnummer"`
	Kategorie         string          `json:"kategorie" validate:"required,oneof=SUV LIMOUSINE KOMBI COUPE"`
	Preis             decimal.Decimal `json:"preis"`
	Rabatt            decimal.Decimal `json:"rabatt"`
	Lieferbar         bool            `json:"lieferbar"`
	Datum             *string         `json:"datum,omitempty"`
	Schlagwoerter     []string        `json:"schlagwoerter,omitempty"`
}

// AutoCreateDTO adds the owned sub-resources created together with the
// Auto. Update never touches them.
type AutoCreateDTO struct {
	AutoDTO
	Modell      *ModellDTO     `json:"modell" validate:"required"`
	Abbildungen []AbbildungDTO `json:"abbildungen,omitempty" validate:"dive"`
}

var (
	errPreisNegative  = errors.New("preis must not be negative")
	errRabattRange    = errors.New("rabatt must be between 0 and 100")
	errDatumMalformed = errors.New("datum must be an ISO date")
)

// toModel normalizes the multi-shape boundary input into the strongly
// typed domain record. Range checks on the exact decimals live here
// because struct-tag validation cannot see into decimal.Decimal.
func (d *AutoDTO) toModel() (*models.Auto, error) {
	if d.Preis.IsNegative() {
		return nil, errPreisNegative
	}
	if d.Rabatt.IsNegative() || d.Rabatt.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errRabattRange
	}

	var datum *time.Time
	if d.Datum != nil && *d.Datum != "" {
		parsed, err := time.Parse("2006-01-02", *d.Datum)
		if err != nil {
			return nil, errDatumMalformed
		}
		datum = &parsed
	}

	schlagwoerter := pq.StringArray{}
	if d.Schlagwoerter != nil {
		schlagwoerter = pq.StringArray(d.Schlagwoerter)
	}

	return &models.Auto{
		Fahrgestellnummer: d.Fahrgestellnummer,
		Kategorie:         models.Kategorie(d.Kategorie),
		Preis:             d.Preis,
		Rabatt:            d.Rabatt,
		Lieferbar:         d.Lieferbar,
		Datum:             datum,
		Schlagwoerter:     schlagwoerter,
	}, nil
}

func (d *AutoCreateDTO) toModel() (*models.Auto, error) {
	auto, err := d.AutoDTO.toModel()
	if err != nil {
		return nil, err
	}

	auto.Modell = &models.Modell{Modell: d.Modell.Modell}
	for _, a := range d.Abbildungen {
		auto.Abbildungen = append(auto.Abbildungen, models.Abbildung{
			Beschriftung: a.Beschriftung,
			ContentType:  a.ContentType,
		})
	}
	return auto, nil
}

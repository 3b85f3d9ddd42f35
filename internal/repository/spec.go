// internal/repository/spec.go
package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/enescucu1/auto/internal/models"
)

// SearchSpec is the explicit query specification consumed by the
// persistence layer. Each field is an optional predicate; nil means
// "no constraint on this column".
type SearchSpec struct {
	// Prefix match on the chassis number, exact case.
	Fahrgestellnummer *string
	// Exact category match.
	Kategorie *models.Kategorie
	// Upper price bound (preis <= PreisMax).
	PreisMax *decimal.Decimal
	// Lower discount bound (rabatt >= RabattMin).
	RabattMin *decimal.Decimal
	// Exact availability match.
	Lieferbar *bool
	// Lower date bound (datum >= DatumAb).
	DatumAb *time.Time
	// Case-insensitive substring match on the related model name.
	Modell *string
	// Array containment of a single upper-cased tag.
	Schlagwort *string
}

// IsZero reports whether no predicate is set.
func (s SearchSpec) IsZero() bool {
	return s.Fahrgestellnummer == nil &&
		s.Kategorie == nil &&
		s.PreisMax == nil &&
		s.RabattMin == nil &&
		s.Lieferbar == nil &&
		s.DatumAb == nil &&
		s.Modell == nil &&
		s.Schlagwort == nil
}

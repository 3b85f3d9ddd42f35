// internal/services/where.go
package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/repository"
)

// Filter keys accepted by Find. Any other key invalidates the whole
// filter.
const (
	FilterFahrgestellnummer = "fahrgestellnummer"
	FilterKategorie         = "kategorie"
	FilterPreis             = "preis"
	FilterRabatt            = "rabatt"
	FilterLieferbar         = "lieferbar"
	FilterDatum             = "datum"
	FilterModell            = "modell"
	FilterSchlagwort        = "schlagwort"
)

var filterWhitelist = map[string]bool{
	FilterFahrgestellnummer: true,
	FilterKategorie:         true,
	FilterPreis:             true,
	FilterRabatt:            true,
	FilterLieferbar:         true,
	FilterDatum:             true,
	FilterModell:            true,
	FilterSchlagwort:        true,
}

// BuildSearchSpec translates a loosely-typed filter record into the
// persistence-layer SearchSpec. Unknown keys are ignored here; whitelist
// validation is the caller's responsibility. Malformed numeric or date
// values silently drop that one predicate rather than failing the query.
func BuildSearchSpec(filter map[string]any) repository.SearchSpec {
	var spec repository.SearchSpec

	if v, ok := filter[FilterModell]; ok {
		if s := asString(v); s != "" {
			spec.Modell = &s
		}
	}

	if v, ok := filter[FilterFahrgestellnummer]; ok {
		if s := asString(v); s != "" {
			spec.Fahrgestellnummer = &s
		}
	}

	if v, ok := filter[FilterPreis]; ok {
		if preis, parsed := asDecimal(v); parsed {
			spec.PreisMax = &preis
		}
	}

	if v, ok := filter[FilterRabatt]; ok {
		if rabatt, parsed := asIntDecimal(v); parsed {
			spec.RabattMin = &rabatt
		}
	}

	if v, ok := filter[FilterKategorie]; ok {
		if s := asString(v); s != "" {
			kategorie := models.Kategorie(s)
			spec.Kategorie = &kategorie
		}
	}

	if v, ok := filter[FilterLieferbar]; ok {
		lieferbar := asBool(v)
		spec.Lieferbar = &lieferbar
	}

	if v, ok := filter[FilterDatum]; ok {
		if datum, parsed := asDate(v); parsed {
			spec.DatumAb = &datum
		}
	}

	if v, ok := filter[FilterSchlagwort]; ok {
		if s := strings.TrimSpace(asString(v)); s != "" {
			schlagwort := strings.ToUpper(s)
			spec.Schlagwort = &schlagwort
		}
	}

	return spec
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return ""
	}
}

// asDecimal parses a price value arriving as string or number. A string
// that is not a valid floating-point number is reported as not parsed.
func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}

// asIntDecimal parses a discount value as an integer.
func asIntDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(int64(i)), true
	case float64:
		return decimal.NewFromInt(int64(n)), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Decimal{}, false
	}
}

// asBool coerces an availability value: the string "true" in any casing
// means true, any other string means false; a bool passes through.
func asBool(v any) bool {
	switch b := v.(type) {
	case string:
		return strings.EqualFold(b, "true")
	case bool:
		return b
	default:
		return false
	}
}

func asDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case string:
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
		return time.Time{}, false
	case time.Time:
		return d, true
	default:
		return time.Time{}, false
	}
}

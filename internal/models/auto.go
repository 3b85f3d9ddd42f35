// internal/models/auto.go
package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Kategorie is the fixed set of vehicle categories.
type Kategorie string

const (
	KategorieSUV       Kategorie = "SUV"
	KategorieLimousine Kategorie = "LIMOUSINE"
	KategorieKombi     Kategorie = "KOMBI"
	KategorieCoupe     Kategorie = "COUPE"
)

// Kategorien lists all valid category values.
var Kategorien = []Kategorie{KategorieSUV, KategorieLimousine, KategorieKombi, KategorieCoupe}

// IsValidKategorie reports whether k is one of the fixed category values.
func IsValidKategorie(k string) bool {
	for _, valid := range Kategorien {
		if string(valid) == k {
			return true
		}
	}
	return false
}

// Auto is the primary vehicle record. Version is the optimistic-lock
// counter: it starts at 0, is incremented by exactly 1 per update and is
// never set directly by a client.
type Auto struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	Version           int             `json:"version" gorm:"not null;default:0"`
	Fahrgestellnummer string          `json:"fahrgestellnummer" gorm:"size:17;uniqueIndex;not null"`
	Kategorie         Kategorie       `json:"kategorie" gorm:"type:varchar(12);not null;index"`
	Preis             decimal.Decimal `json:"preis" gorm:"type:decimal(10,2);not null"`
	Rabatt            decimal.Decimal `json:"rabatt" gorm:"type:decimal(4,2);check:rabatt >= 0 AND rabatt <= 100"`
	Lieferbar         bool            `json:"lieferbar"`
	Datum             *time.Time      `json:"datum,omitempty"`
	Schlagwoerter     pq.StringArray  `json:"schlagwoerter" gorm:"type:text[]"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relationships; all cascade-deleted with the Auto row.
	Modell      *Modell     `json:"modell,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Abbildungen []Abbildung `json:"abbildungen,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	File        *AutoFile   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Auto) TableName() string { return "autos" }

// NormalizeSchlagwoerter guarantees an empty slice instead of a null tags
// column at every read boundary.
func (a *Auto) NormalizeSchlagwoerter() {
	if a.Schlagwoerter == nil {
		a.Schlagwoerter = pq.StringArray{}
	}
}

// Modell is the 1:1 sub-resource naming the vehicle's model line.
type Modell struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	AutoID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	Modell    string    `json:"modell" gorm:"size:40;not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Modell) TableName() string { return "modelle" }

// Abbildung is a captioned image reference owned by an Auto.
type Abbildung struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	AutoID       uint      `json:"-" gorm:"index;not null"`
	Beschriftung string    `json:"beschriftung" gorm:"size:64;not null"`
	ContentType  string    `json:"content_type" gorm:"size:64;not null"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (Abbildung) TableName() string { return "abbildungen" }

// AutoFile is the single optional binary blob attached to an Auto. A new
// upload replaces any prior row wholesale.
type AutoFile struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	AutoID      uint      `json:"-" gorm:"uniqueIndex;not null"`
	Filename    string    `json:"filename" gorm:"size:255;not null"`
	Data        []byte    `json:"-" gorm:"type:bytea;not null"`
	ContentType string    `json:"content_type" gorm:"size:64;not null"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (AutoFile) TableName() string { return "auto_files" }

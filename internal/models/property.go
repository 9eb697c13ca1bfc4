// Package models defines the property record persisted by the crawler and
// the sparse overlay type the extraction stages emit.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Property is one row per physical parcel. parcel_id is the natural key the
// source site assigns; id is generated once at creation and never derived
// from it. Nullable columns use pointers so a stored NULL is distinguishable
// from a zero value.
type Property struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ParcelID string `gorm:"type:varchar(32);not null;uniqueIndex" json:"parcel_id"`

	Address       string `gorm:"type:text" json:"address,omitempty"`
	City          string `gorm:"type:text" json:"city,omitempty"`
	Zip           string `gorm:"type:varchar(16)" json:"zip,omitempty"` // may carry leading zeroes
	PropertyClass string `gorm:"type:text" json:"property_class,omitempty"`

	Price      *int     `gorm:"type:int" json:"price,omitempty"`
	SquareFeet *int     `gorm:"type:int" json:"square_feet,omitempty"`
	Bedrooms   *int     `gorm:"type:int" json:"bedrooms,omitempty"`
	Bathrooms  *int     `gorm:"type:int" json:"bathrooms,omitempty"`
	Stories    *int     `gorm:"type:int" json:"stories,omitempty"`
	YearBuilt  *string  `gorm:"type:text" json:"year_built,omitempty"` // site text, not always numeric
	LotSize    *float64 `gorm:"type:decimal(10,3)" json:"lot_size,omitempty"`
	Garage     *string  `gorm:"type:text" json:"garage,omitempty"`

	Features FeatureSet   `gorm:"type:text" json:"features,omitempty"`
	Featured bool         `gorm:"not null;default:false" json:"featured"`
	Coords   *Coordinates `gorm:"type:text" json:"coords,omitempty"`
	Images   ImageList    `gorm:"type:text" json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name the original schema uses.
func (Property) TableName() string {
	return "properties"
}

// Coordinates is a latitude/longitude pair stored as a JSON column. A NULL
// column means the record has not been geocoded or had no address match;
// the two states are not distinguished and both are retried on the next
// enrichment visit.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Value implements driver.Valuer.
func (c Coordinates) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *Coordinates) Scan(src any) error {
	return scanJSON(src, c)
}

// FeatureSet maps free-text detail lines that matched no known field pattern
// to a presence flag. Stored as a JSON column; nil means "not collected",
// which merge treats as absent.
type FeatureSet map[string]bool

// Value implements driver.Valuer.
func (f FeatureSet) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (f *FeatureSet) Scan(src any) error {
	return scanJSON(src, f)
}

// ImageList is an ordered sequence of absolute image URLs, stored as a JSON
// column. Order is collection order; duplicates across the two collection
// sources are kept.
type ImageList []string

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}

package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Category is the kind of animal a sighting is classified as
type Category string

// The closed set of categories a report may use.
const (
	CategoryRat     Category = "rat"
	CategoryRaccoon Category = "raccoon"
	CategoryFox     Category = "fox"
	CategoryBunny   Category = "bunny"
)

var (
	// ErrUnknownCategory is returned for animal types outside the fixed set
	ErrUnknownCategory = errors.New("unknown animal type")
	// ErrInvalidLocation is returned for coordinates outside decimal degree range
	ErrInvalidLocation = errors.New("invalid location")
)

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	switch c {
	case CategoryRat, CategoryRaccoon, CategoryFox, CategoryBunny:
		return true
	}
	return false
}

// ParseCategory normalizes s and checks it against the fixed set
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Location is a point in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinates are real and in range
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) ||
		l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidLocation, l.Latitude, l.Longitude)
	}
	return nil
}

// WildlifeReport is a sighting authored by a client, before the store has seen it
type WildlifeReport struct {
	AnimalType Category  `bson:"animalType" json:"animalType"`
	Latitude   float64   `bson:"latitude" json:"latitude"`
	Longitude  float64   `bson:"longitude" json:"longitude"`
	ReportTime time.Time `bson:"reportTime" json:"reportTime"`
}

// Location returns the report's coordinates
func (w WildlifeReport) Location() Location {
	return Location{Latitude: w.Latitude, Longitude: w.Longitude}
}

// Validate applies the constraints every stored report must satisfy
func (w WildlifeReport) Validate() error {
	if !w.AnimalType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, w.AnimalType)
	}
	if err := w.Location().Validate(); err != nil {
		return err
	}
	if w.ReportTime.IsZero() {
		return errors.New("report time is required")
	}
	return nil
}

// Report is a sighting as persisted in the wildlife_reports collection. ID is
// assigned by the store and never changes.
type Report struct {
	ID         int64     `bson:"_id" json:"id"`
	AnimalType Category  `bson:"animalType" json:"animalType"`
	Latitude   float64   `bson:"latitude" json:"latitude"`
	Longitude  float64   `bson:"longitude" json:"longitude"`
	ReportTime time.Time `bson:"reportTime" json:"reportTime"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Location returns the report's coordinates
func (r Report) Location() Location {
	return Location{Latitude: r.Latitude, Longitude: r.Longitude}
}

// ChangeType names a mutation delivered by the change feed
type ChangeType string

// Change feed operations.
const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent is one committed mutation of the reports collection. Report is
// nil for deletes, which only carry the ID.
type ChangeEvent struct {
	Type   ChangeType `json:"type"`
	ID     int64      `json:"id"`
	Report *Report    `json:"report,omitempty"`
}

package reporting

import (
	"errors"
	"time"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

var (
	// ErrIncompleteReport is returned when submit is attempted without both a
	// category and a location.
	ErrIncompleteReport = errors.New("select an animal type and a location before submitting")
	// ErrSubmissionInFlight is returned when a submit arrives while one is pending
	ErrSubmissionInFlight = errors.New("a report is already being submitted")
	// ErrFormLocked is returned for selections made while a submit is pending
	ErrFormLocked = errors.New("form is locked while submitting")
)

// Phase is where the report form is in its submission lifecycle
type Phase int

// Form phases.
const (
	PhaseIdle Phase = iota
	PhasePartial
	PhaseReady
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePartial:
		return "partial"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	}
	return "unknown"
}

// MarshalText renders the phase by name in JSON
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Form is the pending report a user is composing. The zero value is Idle.
type Form struct {
	category   models.Category
	location   *models.Location
	submitting bool
}

// Category returns the selected category, or "" when unset
func (f *Form) Category() models.Category {
	return f.category
}

// Location returns the selected location, or nil when unset
func (f *Form) Location() *models.Location {
	if f.location == nil {
		return nil
	}
	loc := *f.location
	return &loc
}

// SetCategory selects or overwrites the category
func (f *Form) SetCategory(c models.Category) error {
	if f.submitting {
		return ErrFormLocked
	}
	if !c.Valid() {
		return models.ErrUnknownCategory
	}
	f.category = c
	return nil
}

// SetLocation selects or overwrites the location
func (f *Form) SetLocation(loc models.Location) error {
	if f.submitting {
		return ErrFormLocked
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	f.location = &loc
	return nil
}

// Phase derives the lifecycle phase from the current selections
func (f *Form) Phase() Phase {
	switch {
	case f.submitting:
		return PhaseSubmitting
	case f.category != "" && f.location != nil:
		return PhaseReady
	case f.category != "" || f.location != nil:
		return PhasePartial
	}
	return PhaseIdle
}

// CanSubmit is true only in PhaseReady
func (f *Form) CanSubmit() bool {
	return f.Phase() == PhaseReady
}

// Begin moves a Ready form to Submitting and returns the report to insert,
// stamped with now.
func (f *Form) Begin(now time.Time) (models.WildlifeReport, error) {
	if f.submitting {
		return models.WildlifeReport{}, ErrSubmissionInFlight
	}
	if f.category == "" || f.location == nil {
		return models.WildlifeReport{}, ErrIncompleteReport
	}
	f.submitting = true
	return models.WildlifeReport{
		AnimalType: f.category,
		Latitude:   f.location.Latitude,
		Longitude:  f.location.Longitude,
		ReportTime: now,
	}, nil
}

// Succeed resets the form to Idle after a stored insert
func (f *Form) Succeed() {
	*f = Form{}
}

// Fail returns the form to Ready with its selections intact
func (f *Form) Fail() {
	f.submitting = false
}

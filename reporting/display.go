package reporting

import (
	"fmt"
	"time"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

// MarkerKind distinguishes the pin the user is placing from existing sightings
type MarkerKind string

// Marker kinds.
const (
	MarkerSelected MarkerKind = "selected"
	MarkerReported MarkerKind = "reported"
)

// Marker is one pin on the map
type Marker struct {
	Kind      MarkerKind      `json:"kind"`
	ReportID  int64           `json:"reportId,omitempty"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Category  models.Category `json:"category,omitempty"`
	Icon      string          `json:"icon"`
	Title     string          `json:"title"`
}

const selectedIcon = "📍"

// FormatReportTime renders t relative to now for the recent list. Anything
// older than a day gets an absolute date.
func FormatReportTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < 2*time.Minute:
		return "1 minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d/time.Minute))
	case d < 2*time.Hour:
		return "1 hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d/time.Hour))
	}
	return t.In(now.Location()).Format("Jan 2, 2006 3:04 PM")
}

// CategoryLabel is the human name for c, falling back to the raw value
func CategoryLabel(c models.Category) string {
	if info, ok := models.LookupCategory(c); ok {
		return info.Label
	}
	return string(c)
}

// CategoryIcon is the map icon for c
func CategoryIcon(c models.Category) string {
	if info, ok := models.LookupCategory(c); ok {
		return info.Icon
	}
	return "❓"
}

// Markers lays out the map pins for a view: every listed report, then the
// pending selection if there is one.
func Markers(state ViewState) []Marker {
	markers := make([]Marker, 0, len(state.Reports)+1)
	for _, r := range state.Reports {
		markers = append(markers, Marker{
			Kind:      MarkerReported,
			ReportID:  r.ID,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Category:  r.AnimalType,
			Icon:      r.Icon,
			Title:     r.Label + " · " + r.Reported,
		})
	}
	if state.Location != nil {
		title := "New report"
		if state.Category != "" {
			title = "New " + CategoryLabel(state.Category) + " report"
		}
		markers = append(markers, Marker{
			Kind:      MarkerSelected,
			Latitude:  state.Location.Latitude,
			Longitude: state.Location.Longitude,
			Category:  state.Category,
			Icon:      selectedIcon,
			Title:     title,
		})
	}
	return markers
}

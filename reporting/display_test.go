package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

func TestFormatReportTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds", now.Add(-20 * time.Second), "just now"},
		{"future clock skew", now.Add(time.Minute), "just now"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes", now.Add(-14 * time.Minute), "14 minutes ago"},
		{"one hour", now.Add(-61 * time.Minute), "1 hour ago"},
		{"hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"days", time.Date(2024, 5, 28, 9, 5, 0, 0, time.UTC), "May 28, 2024 9:05 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReportTime(tt.at, now))
		})
	}
}

func TestCategoryLabelAndIcon(t *testing.T) {
	assert.Equal(t, "Fox", CategoryLabel(models.CategoryFox))
	assert.Equal(t, "🦊", CategoryIcon(models.CategoryFox))
	assert.Equal(t, "bear", CategoryLabel("bear"))
	assert.Equal(t, "❓", CategoryIcon("bear"))
}

func TestMarkers(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	state := ViewState{
		Category: models.CategoryRat,
		Location: &models.Location{Latitude: 1, Longitude: 2},
		Reports: reportItems([]models.Report{
			{ID: 3, AnimalType: models.CategoryFox, Latitude: 42.36, Longitude: -71.06, ReportTime: now},
		}, now),
	}

	markers := Markers(state)

	assert.Equal(t, []Marker{
		{Kind: MarkerReported, ReportID: 3, Latitude: 42.36, Longitude: -71.06, Category: models.CategoryFox, Icon: "🦊", Title: "Fox · just now"},
		{Kind: MarkerSelected, Latitude: 1, Longitude: 2, Category: models.CategoryRat, Icon: selectedIcon, Title: "New Rat report"},
	}, markers)
}

func TestMarkersWithoutSelection(t *testing.T) {
	markers := Markers(ViewState{})
	assert.NotNil(t, markers)
	assert.Empty(t, markers)
}

package reporting

import (
	"time"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

// ReportItem is a listed report with its display fields filled in
type ReportItem struct {
	models.Report
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Reported string `json:"reported"`
}

// ViewState is an immutable snapshot of everything a reporting view renders
type ViewState struct {
	Category    models.Category  `json:"category,omitempty"`
	Location    *models.Location `json:"location,omitempty"`
	Phase       Phase            `json:"phase"`
	CanSubmit   bool             `json:"canSubmit"`
	Submitting  bool             `json:"submitting"`
	Success     bool             `json:"success"`
	SubmitError string           `json:"submitError,omitempty"`
	Alert       string           `json:"alert,omitempty"`
	Loading     bool             `json:"loading"`
	LoadError   string           `json:"loadError,omitempty"`
	Live        bool             `json:"live"`
	Reports     []ReportItem     `json:"reports"`
	Markers     []Marker         `json:"markers"`
	Now         time.Time        `json:"now"`
}

// ReportIDs lists the ids of the displayed reports in order
func (s ViewState) ReportIDs() []int64 {
	ids := make([]int64, len(s.Reports))
	for i, r := range s.Reports {
		ids[i] = r.ID
	}
	return ids
}

func reportItems(reports []models.Report, now time.Time) []ReportItem {
	items := make([]ReportItem, len(reports))
	for i, r := range reports {
		items[i] = ReportItem{
			Report:   r,
			Label:    CategoryLabel(r.AnimalType),
			Icon:     CategoryIcon(r.AnimalType),
			Reported: FormatReportTime(r.ReportTime, now),
		}
	}
	return items
}

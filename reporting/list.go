package reporting

import "github.com/linesmerrill/wildlife-watch-api/models"

// RecentList is the recency window of reports shown by a view, most recent
// first and never longer than its window.
type RecentList struct {
	window int
	items  []models.Report
}

// NewRecentList creates an empty list holding at most window reports
func NewRecentList(window int) *RecentList {
	if window < 1 {
		window = 1
	}
	return &RecentList{window: window, items: []models.Report{}}
}

// Replace discards the list and substitutes reports, truncated to the window
func (l *RecentList) Replace(reports []models.Report) {
	n := min(len(reports), l.window)
	l.items = make([]models.Report, n)
	copy(l.items, reports[:n])
}

// Insert prepends r, evicting the oldest entries past the window
func (l *RecentList) Insert(r models.Report) {
	n := min(len(l.items)+1, l.window)
	items := make([]models.Report, 0, n)
	items = append(items, r)
	items = append(items, l.items[:n-1]...)
	l.items = items
}

// Update replaces the entry with r's id in place. It reports whether one matched.
func (l *RecentList) Update(r models.Report) bool {
	i := l.indexOf(r.ID)
	if i < 0 {
		return false
	}
	l.items[i] = r
	return true
}

// Delete removes the entry with id. It reports whether one matched.
func (l *RecentList) Delete(id int64) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// Contains reports whether id is in the list
func (l *RecentList) Contains(id int64) bool {
	return l.indexOf(id) >= 0
}

// Items returns a copy of the list
func (l *RecentList) Items() []models.Report {
	out := make([]models.Report, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of reports held
func (l *RecentList) Len() int {
	return len(l.items)
}

func (l *RecentList) indexOf(id int64) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

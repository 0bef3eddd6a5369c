package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

// DigestSubject is the subject line of the daily sightings digest
func DigestSubject(until time.Time) string {
	return "Wildlife sightings for " + until.UTC().Format("Jan 2, 2006")
}

// RenderDigestEmail builds the html and plain text bodies of the daily digest.
// Categories are listed in catalog order, including those with no sightings.
func RenderDigestEmail(counts map[models.Category]int64, since, until time.Time, baseURL string) (htmlContent, plainText string) {
	var b strings.Builder
	var total int64
	for _, info := range models.Categories() {
		n := counts[info.Value]
		total += n
		fmt.Fprintf(&b, "%s %s: %d\n", info.Icon, info.Label, n)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%d sightings were reported between %s and %s (UTC).\n\n",
		total, since.UTC().Format("Jan 2 15:04"), until.UTC().Format("Jan 2 15:04"))
	body.WriteString(b.String())
	if baseURL != "" {
		fmt.Fprintf(&body, "\nSee every report at %s/dump\n", strings.TrimRight(baseURL, "/"))
	}

	plainText = body.String()
	return RenderGenericEmail(DigestSubject(until), plainText, baseURL), plainText
}

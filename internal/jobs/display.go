package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/jonathan/nextstep/internal/db"
)

// FormatCents renders an amount of cents as dollars, e.g. 123456 -> "1,234.56".
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign, c = "-", -c
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(c/100), c%100)
}

// HourlyRateDisplay renders a pay band like "$20.00" or "$20.00-25.00".
func HourlyRateDisplay(minCents, maxCents int64) string {
	if minCents == maxCents {
		return "$" + FormatCents(minCents)
	}
	return "$" + FormatCents(minCents) + "-" + FormatCents(maxCents)
}

// PostedDisplay renders how long ago a job was posted relative to now.
func PostedDisplay(posted, now time.Time) string {
	return humanize.RelTime(posted, now, "ago", "from now")
}

// DescriptionText flattens an HTML job description to plain text, one block per line.
// Plain-text input passes through with its whitespace normalized.
func DescriptionText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse description: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Find("body").Text()), nil
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// View is a job with its display fields filled in.
type View struct {
	db.Job
	HourlyRateDisplay string `json:"hourly_rate_display"`
	PostedDisplay     string `json:"posted_date_display"`
}

// NewView formats job for API output as of now.
func NewView(job db.Job, now time.Time) View {
	return View{
		Job:               job,
		HourlyRateDisplay: HourlyRateDisplay(job.HourlyRateMinCents, job.HourlyRateMaxCents),
		PostedDisplay:     PostedDisplay(job.PostedAt, now),
	}
}

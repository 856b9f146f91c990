package jobs

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/jonathan/nextstep/internal/db"
)

// Job types
var JobTypes = []string{"part-time", "full-time", "seasonal", "gig", "internship"}

// Schedules
var Schedules = []string{"part-time", "full-time", "flexible", "weekends", "evenings", "summer"}

// Application statuses, in pipeline order.
var ApplicationStatuses = []string{
	"submitted", "under_review", "interview_scheduled", "interviewed", "hired", "rejected",
}

// StatusSubmitted is the status of a new application.
const StatusSubmitted = "submitted"

const (
	defaultLimit = 20
	maxLimit     = 100
)

type payRange struct {
	from, to *int64
}

func cents(v int64) *int64 { return &v }

// payRanges bucket hourly_rate_min. Bounds are inclusive.
var payRanges = map[string]payRange{
	"under_10": {to: cents(999)},
	"10_15":    {from: cents(1000), to: cents(1500)},
	"15_20":    {from: cents(1500), to: cents(2000)},
	"20_plus":  {from: cents(2000)},
}

// orderings maps the public ordering keys to SQL.
var orderings = map[string]string{
	"posted_at":       "posted_at",
	"posted_date":     "posted_at",
	"hourly_rate_min": "hourly_rate_min_cents",
	"rating":          "rating",
}

// ParseFilters reads listing filters from a query string.
// Unknown enum values, pay ranges and ordering keys are validation errors.
func ParseFilters(q url.Values) (db.JobFilters, error) {
	f := db.JobFilters{
		Location: strings.TrimSpace(q.Get("location")),
		Search:   strings.TrimSpace(q.Get("search")),
		OrderBy:  "posted_at DESC",
		Limit:    defaultLimit,
	}

	if v := q.Get("job_type"); v != "" {
		if !slices.Contains(JobTypes, v) {
			return f, &ValidationError{Field: "job_type", Message: "unknown job type " + strconv.Quote(v)}
		}
		f.JobType = v
	}

	if v := q.Get("schedule"); v != "" {
		if !slices.Contains(Schedules, v) {
			return f, &ValidationError{Field: "schedule", Message: "unknown schedule " + strconv.Quote(v)}
		}
		f.Schedule = v
	}

	if v := q.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, &ValidationError{Field: "featured", Message: "must be true or false"}
		}
		f.Featured = &b
	}

	if v := q.Get("pay_range"); v != "" {
		r, ok := payRanges[v]
		if !ok {
			return f, &ValidationError{Field: "pay_range", Message: "must be one of under_10, 10_15, 15_20, 20_plus"}
		}
		f.MinRateFromCts, f.MinRateToCts = r.from, r.to
	}

	if v := q.Get("ordering"); v != "" {
		key, dir := v, "ASC"
		if strings.HasPrefix(v, "-") {
			key, dir = v[1:], "DESC"
		}
		col, ok := orderings[key]
		if !ok {
			return f, &ValidationError{Field: "ordering", Message: "unknown ordering " + strconv.Quote(v)}
		}
		f.OrderBy = col + " " + dir
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			return f, &ValidationError{Field: "limit", Message: "must be between 1 and 100"}
		}
		f.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, &ValidationError{Field: "offset", Message: "must be a non-negative integer"}
		}
		f.Offset = n
	}

	return f, nil
}

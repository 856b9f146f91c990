// Package seed loads demo accounts, resumes, dashboards and job listings from
// a JSON fixture.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jonathan/nextstep/internal/schemas"
	nsschemas "github.com/jonathan/nextstep/schemas"
)

//go:embed demo.json
var demoFixture []byte

// Fixture is the document layout described by schemas/seed.schema.json.
type Fixture struct {
	Users []User `json:"users"`
	Jobs  []Job  `json:"jobs"`
}

// User is an account with everything hanging off it. An empty Password
// creates an account that cannot log in.
type User struct {
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Resume       *Resume       `json:"resume"`
	Achievements []Achievement `json:"achievements"`
	FinanceGoals []FinanceGoal `json:"finance_goals"`
	AppliedJobs  []AppliedJob  `json:"applied_jobs"`
}

type Resume struct {
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	LinkedIn   string       `json:"linkedin"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Skills     []Skill      `json:"skills"`
}

type Education struct {
	SchoolName   string   `json:"school_name"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"field_of_study"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	GPA          *float64 `json:"gpa"`
}

type Experience struct {
	JobName            string `json:"job_name"`
	Company            string `json:"company"`
	Location           string `json:"location"`
	Start              string `json:"start"`
	End                string `json:"end"`
	IsWorkingCurrently bool   `json:"is_working_currently"`
	Description        string `json:"description"`
}

type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Achievement defaults to db.DefaultTaskXP when TaskXP is omitted.
type Achievement struct {
	Title  string `json:"title"`
	TaskXP *int   `json:"task_xp"`
}

type FinanceGoal struct {
	Title              string `json:"title"`
	CurrentAmountCents int64  `json:"current_amount_cents"`
	GoalAmountCents    int64  `json:"goal_amount_cents"`
	DueDate            string `json:"due_date"`
}

type AppliedJob struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	AppliedOn string `json:"applied_on"`
}

// Job is a listing posted by the account whose email is Employer.
type Job struct {
	Employer           string   `json:"employer"`
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Location           string   `json:"location"`
	HourlyRateMinCents int64    `json:"hourly_rate_min_cents"`
	HourlyRateMaxCents int64    `json:"hourly_rate_max_cents"`
	JobType            string   `json:"job_type"`
	Schedule           string   `json:"schedule"`
	Description        string   `json:"description"`
	Requirements       []string `json:"requirements"`
	Tags               []string `json:"tags"`
	Rating             *float64 `json:"rating"`
	ReviewCount        int      `json:"review_count"`
	Featured           bool     `json:"featured"`
}

// Demo returns the bundled demo fixture.
func Demo() (*Fixture, error) {
	return Parse(demoFixture)
}

// Parse validates data against the seed schema and decodes it.
func Parse(data []byte) (*Fixture, error) {
	if err := schemas.Validate(nsschemas.Seed, data); err != nil {
		return nil, fmt.Errorf("invalid seed fixture: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed fixture: %w", err)
	}

	for i, j := range f.Jobs {
		if j.HourlyRateMaxCents < j.HourlyRateMinCents {
			return nil, fmt.Errorf("invalid seed fixture: jobs[%d] %q: hourly_rate_max_cents below hourly_rate_min_cents", i, j.Title)
		}
	}
	return &f, nil
}

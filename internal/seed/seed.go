package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/nextstep/internal/config"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/leveling"
)

// DefaultJobRating is stored for listings whose fixture entry has no rating.
const DefaultJobRating = 4.0

// Report counts what a run created and what it left alone.
type Report struct {
	UsersCreated int
	UsersSkipped int
	JobsCreated  int
	JobsSkipped  int
}

func (r Report) String() string {
	return fmt.Sprintf("users: %d created, %d skipped; jobs: %d created, %d skipped",
		r.UsersCreated, r.UsersSkipped, r.JobsCreated, r.JobsSkipped)
}

// Seeder writes a Fixture. Accounts that already exist by email and jobs that
// already exist by title and company are skipped, so runs can be repeated.
type Seeder struct {
	store       Store
	passwords   *config.PasswordConfig
	levels      *leveling.Table
	logger      *slog.Logger
	concurrency int
}

// NewSeeder creates a Seeder. A nil table means leveling.Default().
func NewSeeder(store Store, passwords *config.PasswordConfig, levels *leveling.Table, logger *slog.Logger) *Seeder {
	if levels == nil {
		levels = leveling.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, passwords: passwords, levels: levels, logger: logger, concurrency: 4}
}

// Run seeds every user, then every job. Each user is written in its own
// transaction; a failure stops the run but keeps users already committed.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (Report, error) {
	var (
		usersCreated, usersSkipped atomic.Int32
		jobsCreated, jobsSkipped   atomic.Int32
	)
	report := func() Report {
		return Report{
			UsersCreated: int(usersCreated.Load()),
			UsersSkipped: int(usersSkipped.Load()),
			JobsCreated:  int(jobsCreated.Load()),
			JobsSkipped:  int(jobsSkipped.Load()),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, u := range f.Users {
		g.Go(func() error {
			created, err := s.seedUser(gctx, u)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
			if created {
				usersCreated.Add(1)
			} else {
				usersSkipped.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report(), err
	}

	// Jobs reference employers by email, so they run once every user exists.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, j := range f.Jobs {
		g.Go(func() error {
			created, err := s.seedJob(gctx, j)
			if err != nil {
				return fmt.Errorf("job %q at %s: %w", j.Title, j.Company, err)
			}
			if created {
				jobsCreated.Add(1)
			} else {
				jobsSkipped.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	r := report()
	s.logger.Info("seed finished",
		"users_created", r.UsersCreated, "users_skipped", r.UsersSkipped,
		"jobs_created", r.JobsCreated, "jobs_skipped", r.JobsSkipped)
	return r, err
}

func (s *Seeder) seedUser(ctx context.Context, u User) (bool, error) {
	existing, err := s.store.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.logger.Debug("user exists, skipping", "email", existing.Email)
		return false, nil
	}

	hash := ""
	if u.Password != "" {
		if hash, err = s.passwords.HashPassword(u.Password); err != nil {
			return false, err
		}
	}

	var userID uuid.UUID
	err = s.store.InTx(ctx, func(tx Store) error {
		id, err := tx.CreateUser(ctx, u.Email, u.FirstName, u.LastName, hash)
		if err != nil {
			return err
		}
		userID = id

		if err := tx.EnsureProfile(ctx, id); err != nil {
			return err
		}
		if err := seedResume(ctx, tx, id, u.Resume); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		return s.seedDashboard(ctx, tx, id, u)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("seeded user", "email", strings.ToLower(u.Email), "user_id", userID)
	return true, nil
}

func seedResume(ctx context.Context, tx Store, userID uuid.UUID, r *Resume) error {
	resume, err := tx.EnsureResume(ctx, userID)
	if err != nil {
		return err
	}
	if r == nil {
		return nil
	}

	resume.Phone, resume.Location, resume.LinkedIn = r.Phone, r.Location, r.LinkedIn
	if err := tx.UpdateResume(ctx, resume); err != nil {
		return err
	}

	for _, e := range r.Education {
		start, err := optionalDate(e.Start)
		if err != nil {
			return err
		}
		end, err := optionalDate(e.End)
		if err != nil {
			return err
		}
		if _, err := tx.CreateEducation(ctx, &db.Education{
			ResumeID:     resume.ID,
			SchoolName:   e.SchoolName,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Start:        start,
			End:          end,
			GPA:          e.GPA,
		}); err != nil {
			return err
		}
	}

	for _, e := range r.Experience {
		start, err := optionalDate(e.Start)
		if err != nil {
			return err
		}
		end, err := optionalDate(e.End)
		if err != nil {
			return err
		}
		if _, err := tx.CreateExperience(ctx, &db.Experience{
			ResumeID:           resume.ID,
			JobName:            e.JobName,
			Company:            e.Company,
			Location:           e.Location,
			Start:              start,
			End:                end,
			IsWorkingCurrently: e.IsWorkingCurrently,
			Description:        e.Description,
		}); err != nil {
			return err
		}
	}

	for _, sk := range r.Skills {
		if _, err := tx.CreateSkill(ctx, &db.Skill{
			ResumeID:    resume.ID,
			Name:        sk.Name,
			Proficiency: sk.Proficiency,
		}); err != nil {
			return err
		}
	}
	return nil
}

// seedDashboard creates the dashboard and its entries, then derives the
// cached XP and level from the achievements just written.
func (s *Seeder) seedDashboard(ctx context.Context, tx Store, userID uuid.UUID, u User) error {
	d, err := tx.CreateDashboard(ctx, userID, 0, 1)
	if err != nil {
		return err
	}

	for _, a := range u.Achievements {
		xp := db.DefaultTaskXP
		if a.TaskXP != nil {
			xp = *a.TaskXP
		}
		if _, err := tx.CreateAchievement(ctx, d.ID, a.Title, xp); err != nil {
			return err
		}
	}

	xps, err := tx.ListAchievementXP(ctx, d.ID)
	if err != nil {
		return err
	}
	state := s.levels.Recompute(xps)
	if state.TotalXP > db.MaxXP {
		return fmt.Errorf("achievement xp total %d exceeds %d", state.TotalXP, db.MaxXP)
	}
	if err := tx.SaveDashboardState(ctx, d.ID, state.TotalXP, state.Level); err != nil {
		return err
	}

	for _, fg := range u.FinanceGoals {
		due, err := optionalDate(fg.DueDate)
		if err != nil {
			return err
		}
		if _, err := tx.CreateFinanceGoal(ctx, &db.FinanceGoal{
			DashboardID:        d.ID,
			Title:              fg.Title,
			CurrentAmountCents: fg.CurrentAmountCents,
			GoalAmountCents:    fg.GoalAmountCents,
			DueDate:            due,
		}); err != nil {
			return err
		}
	}

	for _, aj := range u.AppliedJobs {
		applied, err := optionalDate(aj.AppliedOn)
		if err != nil {
			return err
		}
		j := &db.AppliedJob{
			DashboardID: d.ID,
			Title:       aj.Title,
			Company:     aj.Company,
			Location:    aj.Location,
			Status:      aj.Status,
		}
		if j.Status == "" {
			j.Status = db.AppliedStatusApplied
		}
		if applied != nil {
			j.AppliedOn = *applied
		}
		if _, err := tx.CreateAppliedJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedJob(ctx context.Context, j Job) (bool, error) {
	exists, err := s.store.JobExistsByTitleCompany(ctx, j.Title, j.Company)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	employer, err := s.store.GetUserByEmail(ctx, j.Employer)
	if err != nil {
		return false, err
	}
	if employer == nil {
		return false, fmt.Errorf("employer %s not found", j.Employer)
	}

	rating := DefaultJobRating
	if j.Rating != nil {
		rating = *j.Rating
	}
	created, err := s.store.CreateJob(ctx, &db.Job{
		EmployerID:         employer.ID,
		Title:              j.Title,
		Company:            j.Company,
		Location:           j.Location,
		HourlyRateMinCents: j.HourlyRateMinCents,
		HourlyRateMaxCents: j.HourlyRateMaxCents,
		JobType:            j.JobType,
		Schedule:           j.Schedule,
		Description:        j.Description,
		Requirements:       j.Requirements,
		Tags:               j.Tags,
		Rating:             rating,
		ReviewCount:        j.ReviewCount,
		Featured:           j.Featured,
		IsActive:           true,
	})
	if err != nil {
		return false, err
	}
	s.logger.Debug("seeded job", "job_id", created.ID, "title", created.Title)
	return true, nil
}

func optionalDate(s string) (*db.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := db.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &d, nil
}

package gamification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/leveling"
	"golang.org/x/sync/errgroup"
)

// Summary is everything the dashboard page renders.
type Summary struct {
	Dashboard    *db.Dashboard     `json:"dashboard"`
	Progress     leveling.Progress `json:"progress"`
	Achievements []db.Achievement  `json:"achievements"`
	FinanceGoals []FinanceGoalView `json:"finance_goals"`
	AppliedJobs  []db.AppliedJob   `json:"applied_jobs"`
}

// Summary loads the dashboard and its child collections concurrently.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Dashboard: d,
		Progress:  s.table.Progress(d.TotalXP),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		achievements, err := s.store.ListAchievements(gctx, d.ID)
		if err != nil {
			return err
		}
		out.Achievements = achievements
		return nil
	})

	g.Go(func() error {
		goals, err := s.store.ListFinanceGoals(gctx, d.ID)
		if err != nil {
			return err
		}
		views := make([]FinanceGoalView, 0, len(goals))
		for _, goal := range goals {
			views = append(views, financeGoalView(goal))
		}
		out.FinanceGoals = views
		return nil
	})

	g.Go(func() error {
		jobs, err := s.store.ListAppliedJobs(gctx, d.ID)
		if err != nil {
			return err
		}
		out.AppliedJobs = jobs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/leveling"
	"github.com/jonathan/nextstep/internal/types"
)

// Service owns every write to a dashboard's cached (total_xp, level) pair.
type Service struct {
	store  Store
	table  *leveling.Table
	logger *slog.Logger
}

// NewService creates a Service. A nil table means leveling.Default().
func NewService(store Store, table *leveling.Table, logger *slog.Logger) *Service {
	if table == nil {
		table = leveling.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, table: table, logger: logger}
}

// Table returns the threshold table the service levels against.
func (s *Service) Table() *leveling.Table {
	return s.table
}

// EditResult is the persisted dashboard after a direct edit and the branch taken.
type EditResult struct {
	Dashboard *db.Dashboard    `json:"dashboard"`
	Outcome   leveling.Outcome `json:"outcome"`
}

// AchievementResult is an achievement change together with the re-derived dashboard.
type AchievementResult struct {
	Achievement *db.Achievement `json:"achievement,omitempty"`
	Dashboard   *db.Dashboard   `json:"dashboard"`
}

// GetOrCreate returns the user's dashboard, creating it at level 1 on first access.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error) {
	d, err := s.store.GetDashboardByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d, nil
	}
	return s.create(ctx, s.store, userID, leveling.State{})
}

func (s *Service) create(ctx context.Context, st Store, userID uuid.UUID, proposed leveling.State) (*db.Dashboard, error) {
	state, _ := s.table.Reconcile(nil, proposed)
	d, err := st.CreateDashboard(ctx, userID, state.TotalXP, state.Level)
	if err != nil {
		return nil, err
	}
	s.logger.Info("dashboard created", "user_id", userID, "total_xp", d.TotalXP, "level", d.Level)
	return d, nil
}

// lockOrCreate takes the row lock on the user's dashboard, creating it first if needed.
func (s *Service) lockOrCreate(ctx context.Context, tx Store, userID uuid.UUID) (*db.Dashboard, error) {
	d, err := tx.LockDashboardByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d, nil
	}
	if _, err := s.create(ctx, tx, userID, leveling.State{}); err != nil {
		return nil, err
	}
	return tx.LockDashboardByUser(ctx, userID)
}

// Edit applies a direct edit of total_xp and/or level and reconciles the pair.
// When both fields change at once the values are stored as given; a warning is
// logged if the stored pair is not consistent.
func (s *Service) Edit(ctx context.Context, userID uuid.UUID, req types.DashboardEditRequest) (*EditResult, error) {
	if req.TotalXP != nil && *req.TotalXP < 0 {
		return nil, &ValidationError{Field: "total_xp", Message: "must not be negative"}
	}
	if req.TotalXP != nil && *req.TotalXP > db.MaxXP {
		return nil, &ValidationError{Field: "total_xp", Message: fmt.Sprintf("must not exceed %d", db.MaxXP)}
	}
	if req.Level != nil && (*req.Level < 1 || *req.Level > s.table.MaxLevel()) {
		return nil, &ValidationError{Field: "level", Message: fmt.Sprintf("must be between 1 and %d", s.table.MaxLevel())}
	}

	var result EditResult
	err := s.store.InTx(ctx, func(tx Store) error {
		d, err := tx.LockDashboardByUser(ctx, userID)
		if err != nil {
			return err
		}

		if d == nil {
			proposed := leveling.State{}
			if req.TotalXP != nil {
				proposed.TotalXP = *req.TotalXP
			}
			created, err := s.create(ctx, tx, userID, proposed)
			if err != nil {
				return err
			}
			result = EditResult{Dashboard: created, Outcome: leveling.Created}
			return nil
		}

		old := leveling.State{TotalXP: d.TotalXP, Level: d.Level}
		proposed := old
		if req.TotalXP != nil {
			proposed.TotalXP = *req.TotalXP
		}
		if req.Level != nil {
			proposed.Level = *req.Level
		}

		next, outcome := s.table.Reconcile(&old, proposed)
		if outcome == leveling.Conflict && !s.table.Consistent(next) {
			s.logger.Warn("dashboard xp and level edited together; stored as given",
				"user_id", userID, "total_xp", next.TotalXP, "level", next.Level,
				"derived_level", s.table.LevelFromXP(next.TotalXP))
		}
		if outcome != leveling.Unchanged {
			if err := tx.SaveDashboardState(ctx, d.ID, next.TotalXP, next.Level); err != nil {
				return err
			}
			d.TotalXP, d.Level = next.TotalXP, next.Level
		}
		result = EditResult{Dashboard: d, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard edited", "user_id", userID, "outcome", result.Outcome.String())
	return &result, nil
}

// onAchievementsChanged re-derives the cached state from the dashboard's achievements.
// Callers must hold the dashboard row lock in tx.
func (s *Service) onAchievementsChanged(ctx context.Context, tx Store, d *db.Dashboard) error {
	xps, err := tx.ListAchievementXP(ctx, d.ID)
	if err != nil {
		return err
	}
	next := s.table.Recompute(xps)
	if next.TotalXP > db.MaxXP {
		return &ValidationError{Field: "task_xp", Message: fmt.Sprintf("dashboard total would exceed %d", db.MaxXP)}
	}
	if next.TotalXP == d.TotalXP && next.Level == d.Level {
		return nil
	}
	if err := tx.SaveDashboardState(ctx, d.ID, next.TotalXP, next.Level); err != nil {
		return err
	}
	if next.Level > d.Level {
		s.logger.Info("level up", "dashboard_id", d.ID, "from", d.Level, "to", next.Level)
	}
	d.TotalXP, d.Level = next.TotalXP, next.Level
	return nil
}

// AddAchievement records an achievement and recomputes the dashboard from all of them.
func (s *Service) AddAchievement(ctx context.Context, userID uuid.UUID, req types.AchievementRequest) (*AchievementResult, error) {
	taskXP := db.DefaultTaskXP
	if req.TaskXP != nil {
		taskXP = *req.TaskXP
	}
	if taskXP < 0 {
		return nil, &ValidationError{Field: "task_xp", Message: "must not be negative"}
	}
	if taskXP > db.MaxXP {
		return nil, &ValidationError{Field: "task_xp", Message: fmt.Sprintf("must not exceed %d", db.MaxXP)}
	}
	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}

	var result AchievementResult
	err := s.store.InTx(ctx, func(tx Store) error {
		d, err := s.lockOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}
		a, err := tx.CreateAchievement(ctx, d.ID, req.Title, taskXP)
		if err != nil {
			return err
		}
		if err := s.onAchievementsChanged(ctx, tx, d); err != nil {
			return err
		}
		result = AchievementResult{Achievement: a, Dashboard: d}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveAchievement deletes one of the user's achievements and recomputes the dashboard.
func (s *Service) RemoveAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*db.Dashboard, error) {
	var out *db.Dashboard
	err := s.store.InTx(ctx, func(tx Store) error {
		d, err := tx.LockDashboardByUser(ctx, userID)
		if err != nil {
			return err
		}
		if d == nil {
			return &NotFoundError{Resource: "achievement", ID: achievementID}
		}
		if err := tx.DeleteAchievement(ctx, d.ID, achievementID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return &NotFoundError{Resource: "achievement", ID: achievementID}
			}
			return err
		}
		if err := s.onAchievementsChanged(ctx, tx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Recalculate re-derives the dashboard from its achievements on demand.
func (s *Service) Recalculate(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error) {
	var out *db.Dashboard
	err := s.store.InTx(ctx, func(tx Store) error {
		d, err := s.lockOrCreate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := s.onAchievementsChanged(ctx, tx, d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAchievements returns the user's achievements, newest first.
func (s *Service) ListAchievements(ctx context.Context, userID uuid.UUID) ([]db.Achievement, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListAchievements(ctx, d.ID)
}

package gamification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
)

// FinanceGoalView is a goal with its derived completion flag.
type FinanceGoalView struct {
	db.FinanceGoal
	Completed bool `json:"completed"`
}

func financeGoalView(g db.FinanceGoal) FinanceGoalView {
	return FinanceGoalView{FinanceGoal: g, Completed: g.Completed()}
}

func parseOptionalDate(field, value string) (*db.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := db.ParseDate(value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return &d, nil
}

func (s *Service) financeGoalFromRequest(dashboardID uuid.UUID, req types.FinanceGoalRequest) (*db.FinanceGoal, error) {
	if req.GoalAmountCents <= 0 {
		return nil, &ValidationError{Field: "goal_amount_cents", Message: "must be positive"}
	}
	if req.CurrentAmountCents < 0 {
		return nil, &ValidationError{Field: "current_amount_cents", Message: "must not be negative"}
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	return &db.FinanceGoal{
		DashboardID:        dashboardID,
		Title:              req.Title,
		CurrentAmountCents: req.CurrentAmountCents,
		GoalAmountCents:    req.GoalAmountCents,
		DueDate:            due,
	}, nil
}

// ListFinanceGoals returns the user's savings goals.
func (s *Service) ListFinanceGoals(ctx context.Context, userID uuid.UUID) ([]FinanceGoalView, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.store.ListFinanceGoals(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	out := make([]FinanceGoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, financeGoalView(g))
	}
	return out, nil
}

// CreateFinanceGoal adds a savings goal to the user's dashboard.
func (s *Service) CreateFinanceGoal(ctx context.Context, userID uuid.UUID, req types.FinanceGoalRequest) (*FinanceGoalView, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	g, err := s.financeGoalFromRequest(d.ID, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateFinanceGoal(ctx, g)
	if err != nil {
		return nil, err
	}
	view := financeGoalView(*created)
	return &view, nil
}

// UpdateFinanceGoal replaces one of the user's savings goals.
func (s *Service) UpdateFinanceGoal(ctx context.Context, userID, goalID uuid.UUID, req types.FinanceGoalRequest) (*FinanceGoalView, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	g, err := s.financeGoalFromRequest(d.ID, req)
	if err != nil {
		return nil, err
	}
	g.ID = goalID
	if err := s.store.UpdateFinanceGoal(ctx, g); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &NotFoundError{Resource: "finance goal", ID: goalID}
		}
		return nil, err
	}
	view := financeGoalView(*g)
	return &view, nil
}

// DeleteFinanceGoal removes one of the user's savings goals.
func (s *Service) DeleteFinanceGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteFinanceGoal(ctx, d.ID, goalID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "finance goal", ID: goalID}
		}
		return err
	}
	return nil
}

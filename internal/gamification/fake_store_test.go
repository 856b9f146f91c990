package gamification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
)

type fakeState struct {
	dashboards   map[uuid.UUID]db.Dashboard // by user
	achievements map[uuid.UUID]db.Achievement
	goals        map[uuid.UUID]db.FinanceGoal
	applied      map[uuid.UUID]db.AppliedJob
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		dashboards:   make(map[uuid.UUID]db.Dashboard, len(s.dashboards)),
		achievements: make(map[uuid.UUID]db.Achievement, len(s.achievements)),
		goals:        make(map[uuid.UUID]db.FinanceGoal, len(s.goals)),
		applied:      make(map[uuid.UUID]db.AppliedJob, len(s.applied)),
	}
	for k, v := range s.dashboards {
		out.dashboards[k] = v
	}
	for k, v := range s.achievements {
		out.achievements[k] = v
	}
	for k, v := range s.goals {
		out.goals[k] = v
	}
	for k, v := range s.applied {
		out.applied[k] = v
	}
	return out
}

// fakeStore is an in-memory Store. InTx serializes transactions and restores
// the previous state when fn fails.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   fakeState

	saves   int
	failOn  string
	inTx    bool
	lockHit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: fakeState{}.clone()}
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return fmt.Errorf("%s: injected failure", op)
	}
	return nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := f.st.clone()
	f.inTx = true
	f.mu.Unlock()

	err := fn(f)

	f.mu.Lock()
	f.inTx = false
	if err != nil {
		f.st = snapshot
	}
	f.mu.Unlock()
	return err
}

func (f *fakeStore) CreateDashboard(_ context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateDashboard"); err != nil {
		return nil, err
	}
	if d, ok := f.st.dashboards[userID]; ok {
		return &d, nil
	}
	now := time.Now()
	d := db.Dashboard{ID: uuid.New(), UserID: userID, TotalXP: totalXP, Level: level, CreatedAt: now, UpdatedAt: now}
	f.st.dashboards[userID] = d
	return &d, nil
}

func (f *fakeStore) GetDashboardByUser(_ context.Context, userID uuid.UUID) (*db.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.st.dashboards[userID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeStore) LockDashboardByUser(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error) {
	f.mu.Lock()
	if !f.inTx {
		f.mu.Unlock()
		return nil, fmt.Errorf("LockDashboardByUser called outside a transaction")
	}
	f.lockHit++
	f.mu.Unlock()
	return f.GetDashboardByUser(ctx, userID)
}

func (f *fakeStore) dashboardByID(id uuid.UUID) (uuid.UUID, db.Dashboard, bool) {
	for userID, d := range f.st.dashboards {
		if d.ID == id {
			return userID, d, true
		}
	}
	return uuid.Nil, db.Dashboard{}, false
}

func (f *fakeStore) SaveDashboardState(_ context.Context, id uuid.UUID, totalXP, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SaveDashboardState"); err != nil {
		return err
	}
	userID, d, ok := f.dashboardByID(id)
	if !ok {
		return fmt.Errorf("dashboard %s: %w", id, db.ErrNotFound)
	}
	d.TotalXP, d.Level, d.UpdatedAt = totalXP, level, time.Now()
	f.st.dashboards[userID] = d
	f.saves++
	return nil
}

func (f *fakeStore) CreateAchievement(_ context.Context, dashboardID uuid.UUID, title string, taskXP int) (*db.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateAchievement"); err != nil {
		return nil, err
	}
	a := db.Achievement{ID: uuid.New(), DashboardID: dashboardID, Title: title, TaskXP: taskXP, AwardedAt: time.Now()}
	f.st.achievements[a.ID] = a
	return &a, nil
}

func (f *fakeStore) DeleteAchievement(_ context.Context, dashboardID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.st.achievements[id]
	if !ok || a.DashboardID != dashboardID {
		return fmt.Errorf("achievement %s: %w", id, db.ErrNotFound)
	}
	delete(f.st.achievements, id)
	return nil
}

func (f *fakeStore) ListAchievements(_ context.Context, dashboardID uuid.UUID) ([]db.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Achievement
	for _, a := range f.st.achievements {
		if a.DashboardID == dashboardID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.After(out[j].AwardedAt) })
	return out, nil
}

func (f *fakeStore) ListAchievementXP(ctx context.Context, dashboardID uuid.UUID) ([]int, error) {
	achievements, err := f.ListAchievements(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	xps := make([]int, 0, len(achievements))
	for _, a := range achievements {
		xps = append(xps, a.TaskXP)
	}
	return xps, nil
}

func (f *fakeStore) CreateFinanceGoal(_ context.Context, g *db.FinanceGoal) (*db.FinanceGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *g
	out.ID = uuid.New()
	f.st.goals[out.ID] = out
	return &out, nil
}

func (f *fakeStore) UpdateFinanceGoal(_ context.Context, g *db.FinanceGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.st.goals[g.ID]
	if !ok || existing.DashboardID != g.DashboardID {
		return fmt.Errorf("finance goal %s: %w", g.ID, db.ErrNotFound)
	}
	f.st.goals[g.ID] = *g
	return nil
}

func (f *fakeStore) DeleteFinanceGoal(_ context.Context, dashboardID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.st.goals[id]
	if !ok || existing.DashboardID != dashboardID {
		return fmt.Errorf("finance goal %s: %w", id, db.ErrNotFound)
	}
	delete(f.st.goals, id)
	return nil
}

func (f *fakeStore) ListFinanceGoals(_ context.Context, dashboardID uuid.UUID) ([]db.FinanceGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListFinanceGoals"); err != nil {
		return nil, err
	}
	var out []db.FinanceGoal
	for _, g := range f.st.goals {
		if g.DashboardID == dashboardID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeStore) CreateAppliedJob(_ context.Context, j *db.AppliedJob) (*db.AppliedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *j
	out.ID = uuid.New()
	if out.AppliedOn.IsZero() {
		out.AppliedOn = db.NewDate(time.Now())
	}
	f.st.applied[out.ID] = out
	return &out, nil
}

func (f *fakeStore) UpdateAppliedJob(_ context.Context, j *db.AppliedJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.st.applied[j.ID]
	if !ok || existing.DashboardID != j.DashboardID {
		return fmt.Errorf("applied job %s: %w", j.ID, db.ErrNotFound)
	}
	next := *j
	if next.AppliedOn.IsZero() {
		next.AppliedOn = existing.AppliedOn
	}
	f.st.applied[j.ID] = next
	return nil
}

func (f *fakeStore) DeleteAppliedJob(_ context.Context, dashboardID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.st.applied[id]
	if !ok || existing.DashboardID != dashboardID {
		return fmt.Errorf("applied job %s: %w", id, db.ErrNotFound)
	}
	delete(f.st.applied, id)
	return nil
}

func (f *fakeStore) ListAppliedJobs(_ context.Context, dashboardID uuid.UUID) ([]db.AppliedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.AppliedJob
	for _, j := range f.st.applied {
		if j.DashboardID == dashboardID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out, nil
}

package seed

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/nextstep/internal/db"
)

type fakeState struct {
	users        map[string]db.User // by lowercased email
	profiles     map[uuid.UUID]bool
	resumes      map[uuid.UUID]db.Resume // by user
	educations   []db.Education
	experiences  []db.Experience
	skills       []db.Skill
	dashboards   map[uuid.UUID]db.Dashboard // by user
	achievements []db.Achievement
	goals        []db.FinanceGoal
	applied      []db.AppliedJob
	jobs         []db.Job
}

func (s fakeState) clone() fakeState {
	return fakeState{
		users:        maps.Clone(s.users),
		profiles:     maps.Clone(s.profiles),
		resumes:      maps.Clone(s.resumes),
		educations:   slices.Clone(s.educations),
		experiences:  slices.Clone(s.experiences),
		skills:       slices.Clone(s.skills),
		dashboards:   maps.Clone(s.dashboards),
		achievements: slices.Clone(s.achievements),
		goals:        slices.Clone(s.goals),
		applied:      slices.Clone(s.applied),
		jobs:         slices.Clone(s.jobs),
	}
}

// fakeStore is an in-memory Store. InTx serializes transactions and restores
// the previous state when fn fails.
type fakeStore struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	st     fakeState
	failOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: fakeState{
		users:      map[string]db.User{},
		profiles:   map[uuid.UUID]bool{},
		resumes:    map[uuid.UUID]db.Resume{},
		dashboards: map[uuid.UUID]db.Dashboard{},
	}}
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
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.st = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.st.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, email, firstName, lastName, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := f.st.users[email]; ok {
		return uuid.Nil, db.ErrDuplicate
	}
	u := db.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		PasswordSet:  passwordHash != "",
	}
	f.st.users[email] = u
	return u.ID, nil
}

func (f *fakeStore) EnsureProfile(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.profiles[userID] = true
	return nil
}

func (f *fakeStore) EnsureResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.st.resumes[userID]
	if !ok {
		r = db.Resume{ID: uuid.New(), UserID: userID}
		f.st.resumes[userID] = r
	}
	return &r, nil
}

func (f *fakeStore) UpdateResume(_ context.Context, r *db.Resume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.resumes[r.UserID] = *r
	return nil
}

func (f *fakeStore) CreateEducation(_ context.Context, e *db.Education) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	f.st.educations = append(f.st.educations, *e)
	return e.ID, nil
}

func (f *fakeStore) CreateExperience(_ context.Context, e *db.Experience) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	f.st.experiences = append(f.st.experiences, *e)
	return e.ID, nil
}

func (f *fakeStore) CreateSkill(_ context.Context, s *db.Skill) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	f.st.skills = append(f.st.skills, *s)
	return s.ID, nil
}

func (f *fakeStore) CreateDashboard(_ context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.st.dashboards[userID]; ok {
		return &d, nil
	}
	d := db.Dashboard{ID: uuid.New(), UserID: userID, TotalXP: totalXP, Level: level}
	f.st.dashboards[userID] = d
	return &d, nil
}

func (f *fakeStore) SaveDashboardState(_ context.Context, id uuid.UUID, totalXP, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, d := range f.st.dashboards {
		if d.ID == id {
			d.TotalXP, d.Level = totalXP, level
			f.st.dashboards[userID] = d
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeStore) CreateAchievement(_ context.Context, dashboardID uuid.UUID, title string, taskXP int) (*db.Achievement, error) {
	if err := f.fail("CreateAchievement"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := db.Achievement{ID: uuid.New(), DashboardID: dashboardID, Title: title, TaskXP: taskXP}
	f.st.achievements = append(f.st.achievements, a)
	return &a, nil
}

func (f *fakeStore) ListAchievementXP(_ context.Context, dashboardID uuid.UUID) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var xps []int
	for _, a := range f.st.achievements {
		if a.DashboardID == dashboardID {
			xps = append(xps, a.TaskXP)
		}
	}
	return xps, nil
}

func (f *fakeStore) CreateFinanceGoal(_ context.Context, g *db.FinanceGoal) (*db.FinanceGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *g
	out.ID = uuid.New()
	f.st.goals = append(f.st.goals, out)
	return &out, nil
}

func (f *fakeStore) CreateAppliedJob(_ context.Context, j *db.AppliedJob) (*db.AppliedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *j
	out.ID = uuid.New()
	f.st.applied = append(f.st.applied, out)
	return &out, nil
}

func (f *fakeStore) JobExistsByTitleCompany(_ context.Context, title, company string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.st.jobs, func(j db.Job) bool {
		return j.Title == title && j.Company == company
	}), nil
}

func (f *fakeStore) CreateJob(_ context.Context, j *db.Job) (*db.Job, error) {
	if err := f.fail("CreateJob"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := *j
	out.ID = uuid.New()
	f.st.jobs = append(f.st.jobs, out)
	return &out, nil
}

func (f *fakeStore) dashboardFor(email string) db.Dashboard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.dashboards[f.st.users[email].ID]
}

package resume

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	resumes     map[uuid.UUID]db.Resume // by user
	educations  map[uuid.UUID]db.Education
	experiences map[uuid.UUID]db.Experience
	skills      map[uuid.UUID]db.Skill
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		resumes:     map[uuid.UUID]db.Resume{},
		educations:  map[uuid.UUID]db.Education{},
		experiences: map[uuid.UUID]db.Experience{},
		skills:      map[uuid.UUID]db.Skill{},
	}
}

func (f *fakeStore) EnsureResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	r, ok := f.resumes[userID]
	if !ok {
		r = db.Resume{ID: uuid.New(), UserID: userID}
		f.resumes[userID] = r
	}
	return &r, nil
}

func (f *fakeStore) GetResumeDetails(_ context.Context, userID uuid.UUID) (*db.ResumeDetails, error) {
	r, ok := f.resumes[userID]
	if !ok {
		return nil, nil
	}
	d := &db.ResumeDetails{Resume: r}
	for _, e := range f.educations {
		if e.ResumeID == r.ID {
			d.Educations = append(d.Educations, e)
		}
	}
	for _, e := range f.experiences {
		if e.ResumeID == r.ID {
			d.Experiences = append(d.Experiences, e)
		}
	}
	for _, s := range f.skills {
		if s.ResumeID == r.ID {
			d.Skills = append(d.Skills, s)
		}
	}
	return d, nil
}

func (f *fakeStore) UpdateResume(_ context.Context, r *db.Resume) error {
	f.resumes[r.UserID] = *r
	return nil
}

func (f *fakeStore) CreateEducation(_ context.Context, e *db.Education) (uuid.UUID, error) {
	id := uuid.New()
	stored := *e
	stored.ID = id
	f.educations[id] = stored
	return id, nil
}

func (f *fakeStore) UpdateEducation(_ context.Context, e *db.Education) error {
	if old, ok := f.educations[e.ID]; !ok || old.ResumeID != e.ResumeID {
		return fmt.Errorf("education %s: %w", e.ID, db.ErrNotFound)
	}
	f.educations[e.ID] = *e
	return nil
}

func (f *fakeStore) DeleteEducation(_ context.Context, resumeID, id uuid.UUID) error {
	if old, ok := f.educations[id]; !ok || old.ResumeID != resumeID {
		return fmt.Errorf("education %s: %w", id, db.ErrNotFound)
	}
	delete(f.educations, id)
	return nil
}

func (f *fakeStore) CreateExperience(_ context.Context, e *db.Experience) (uuid.UUID, error) {
	id := uuid.New()
	stored := *e
	stored.ID = id
	f.experiences[id] = stored
	return id, nil
}

func (f *fakeStore) UpdateExperience(_ context.Context, e *db.Experience) error {
	if old, ok := f.experiences[e.ID]; !ok || old.ResumeID != e.ResumeID {
		return fmt.Errorf("experience %s: %w", e.ID, db.ErrNotFound)
	}
	f.experiences[e.ID] = *e
	return nil
}

func (f *fakeStore) DeleteExperience(_ context.Context, resumeID, id uuid.UUID) error {
	if old, ok := f.experiences[id]; !ok || old.ResumeID != resumeID {
		return fmt.Errorf("experience %s: %w", id, db.ErrNotFound)
	}
	delete(f.experiences, id)
	return nil
}

func (f *fakeStore) CreateSkill(_ context.Context, s *db.Skill) (uuid.UUID, error) {
	id := uuid.New()
	stored := *s
	stored.ID = id
	f.skills[id] = stored
	return id, nil
}

func (f *fakeStore) UpdateSkill(_ context.Context, s *db.Skill) error {
	if old, ok := f.skills[s.ID]; !ok || old.ResumeID != s.ResumeID {
		return fmt.Errorf("skill %s: %w", s.ID, db.ErrNotFound)
	}
	f.skills[s.ID] = *s
	return nil
}

func (f *fakeStore) DeleteSkill(_ context.Context, resumeID, id uuid.UUID) error {
	if old, ok := f.skills[id]; !ok || old.ResumeID != resumeID {
		return fmt.Errorf("skill %s: %w", id, db.ErrNotFound)
	}
	delete(f.skills, id)
	return nil
}

func TestCompletion(t *testing.T) {
	full := &db.ResumeDetails{
		Resume:      db.Resume{Phone: "555-0100", Location: "Toronto"},
		Educations:  []db.Education{{SchoolName: "York"}},
		Experiences: []db.Experience{{JobName: "Barista"}},
		Skills:      []db.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "Excel"}},
	}

	tests := []struct {
		name   string
		mutate func(d *db.ResumeDetails)
		want   int
	}{
		{name: "complete", mutate: func(*db.ResumeDetails) {}, want: 100},
		{name: "missing phone", mutate: func(d *db.ResumeDetails) { d.Phone = "" }, want: 75},
		{name: "two skills", mutate: func(d *db.ResumeDetails) { d.Skills = d.Skills[:2] }, want: 75},
		{name: "only contact", mutate: func(d *db.ResumeDetails) {
			d.Educations, d.Experiences, d.Skills = nil, nil, nil
		}, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := *full
			tt.mutate(&d)
			assert.Equal(t, tt.want, Completion(&d))
		})
	}

	assert.Equal(t, 0, Completion(nil))
	assert.Equal(t, 0, Completion(&db.ResumeDetails{}))
}

func TestService_BuildsResume(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	userID := uuid.New()

	d, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Completion)

	_, err = svc.UpdateContact(ctx, userID, types.ResumeRequest{Phone: "555-0100", Location: "Toronto"})
	require.NoError(t, err)
	gpa := 3.8
	_, err = svc.AddEducation(ctx, userID, types.EducationRequest{SchoolName: "York", Start: "2022-09-01", End: "2026-04-30", GPA: &gpa})
	require.NoError(t, err)
	exp, err := svc.AddExperience(ctx, userID, types.ExperienceRequest{JobName: "Barista", Start: "2023-05-01", End: "2024-01-01", IsWorkingCurrently: true})
	require.NoError(t, err)
	assert.Nil(t, exp.End)
	for _, name := range []string{"Go", "SQL", "Excel"} {
		_, err = svc.AddSkill(ctx, userID, types.SkillRequest{Name: name})
		require.NoError(t, err)
	}

	d, err = svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 100, d.Completion)
	assert.Len(t, d.Skills, 3)
}

func TestService_Validation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	var verr *ValidationError

	_, err := svc.AddEducation(ctx, uuid.New(), types.EducationRequest{SchoolName: "York", Start: "2024-01-01", End: "2023-01-01"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end", verr.Field)

	_, err = svc.AddExperience(ctx, uuid.New(), types.ExperienceRequest{JobName: "x", Start: "May 2023"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "start", verr.Field)
}

func TestService_ScopesEntriesToOwner(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	sk, err := svc.AddSkill(ctx, owner, types.SkillRequest{Name: "Go"})
	require.NoError(t, err)

	var nf *NotFoundError
	_, err = svc.UpdateSkill(ctx, other, sk.ID, types.SkillRequest{Name: "Rust"})
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, svc.DeleteSkill(ctx, other, sk.ID), &nf)

	updated, err := svc.UpdateSkill(ctx, owner, sk.ID, types.SkillRequest{Name: "Go", Proficiency: "advanced"})
	require.NoError(t, err)
	assert.Equal(t, "advanced", updated.Proficiency)
	require.NoError(t, svc.DeleteSkill(ctx, owner, sk.ID))
	require.ErrorAs(t, svc.DeleteEducation(ctx, owner, uuid.New()), &nf)
	require.ErrorAs(t, svc.DeleteExperience(ctx, owner, uuid.New()), &nf)
}

package ratings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]bool
	profiles map[uuid.UUID]db.Profile
	ratings  map[uuid.UUID]db.Rating
}

func newFakeStore(users ...uuid.UUID) *fakeStore {
	f := &fakeStore{
		users:    map[uuid.UUID]bool{},
		profiles: map[uuid.UUID]db.Profile{},
		ratings:  map[uuid.UUID]db.Rating{},
	}
	for _, u := range users {
		f.users[u] = true
	}
	return f
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	if !f.users[id] {
		return nil, nil
	}
	return &db.User{ID: id}, nil
}

func (f *fakeStore) EnsureProfile(_ context.Context, userID uuid.UUID) error {
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = db.Profile{UserID: userID}
	}
	return nil
}

func (f *fakeStore) LockProfile(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakeStore) GetProfile(_ context.Context, userID uuid.UUID) (*db.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) UpdateProfileRatings(_ context.Context, userID uuid.UUID, role string, avg *float64, count int) error {
	p, ok := f.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, db.ErrNotFound)
	}
	switch role {
	case db.RoleEmployer:
		p.EmployerRatingAvg, p.EmployerRatingCount = avg, count
	case db.RoleWorker:
		p.WorkerRatingAvg, p.WorkerRatingCount = avg, count
	}
	f.profiles[userID] = p
	return nil
}

func (f *fakeStore) CreateRating(_ context.Context, r *db.Rating) (*db.Rating, error) {
	out := *r
	out.ID = uuid.New()
	out.CreatedAt = time.Now()
	f.ratings[out.ID] = out
	return &out, nil
}

func (f *fakeStore) GetRating(_ context.Context, id uuid.UUID) (*db.Rating, error) {
	r, ok := f.ratings[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) DeleteRating(_ context.Context, id uuid.UUID) error {
	if _, ok := f.ratings[id]; !ok {
		return fmt.Errorf("rating %s: %w", id, db.ErrNotFound)
	}
	delete(f.ratings, id)
	return nil
}

func (f *fakeStore) ListRatingsForUser(_ context.Context, rateeID uuid.UUID) ([]db.Rating, error) {
	var out []db.Rating
	for _, r := range f.ratings {
		if r.RateeID == rateeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRatingScores(_ context.Context, rateeID uuid.UUID, role string) ([]int, error) {
	var out []int
	for _, r := range f.ratings {
		if r.RateeID == rateeID && r.ForRole == role {
			out = append(out, r.Score)
		}
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   *float64
		count  int
	}{
		{name: "no ratings", scores: nil, want: nil, count: 0},
		{name: "single", scores: []int{4}, want: ptr(4.0), count: 1},
		{name: "rounds to one decimal", scores: []int{5, 4, 4}, want: ptr(4.3), count: 3},
		{name: "exact half rounds to even", scores: []int{5, 4, 4, 4}, want: ptr(4.2), count: 4},
		{name: "exact half rounds up to even", scores: []int{5, 5, 5, 4}, want: ptr(4.8), count: 4},
		{name: "binary value below half rounds down", scores: repeat(map[int]int{5: 7, 4: 13}), want: ptr(4.3), count: 20},
		{name: "all ones", scores: []int{1, 1}, want: ptr(1.0), count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Summarize(tt.scores)
			assert.Equal(t, tt.count, agg.Count)
			if tt.want == nil {
				assert.Nil(t, agg.Average)
				return
			}
			require.NotNil(t, agg.Average)
			assert.InDelta(t, *tt.want, *agg.Average, 1e-9)
		})
	}
}

func ptr(v float64) *float64 { return &v }

func repeat(counts map[int]int) []int {
	var out []int
	for score, n := range counts {
		for range n {
			out = append(out, score)
		}
	}
	return out
}

func TestRate_UpdatesProfilePerRole(t *testing.T) {
	rater, ratee := uuid.New(), uuid.New()
	store := newFakeStore(rater, ratee)
	svc := NewService(store, discardLogger())
	ctx := context.Background()

	_, err := svc.Rate(ctx, rater, types.RatingRequest{RateeID: ratee.String(), ForRole: "worker", Score: 5})
	require.NoError(t, err)
	_, err = svc.Rate(ctx, rater, types.RatingRequest{RateeID: ratee.String(), ForRole: "worker", Score: 4})
	require.NoError(t, err)
	emp, err := svc.Rate(ctx, rater, types.RatingRequest{RateeID: ratee.String(), ForRole: "employer", Score: 2})
	require.NoError(t, err)

	p, err := svc.Profile(ctx, ratee)
	require.NoError(t, err)
	require.NotNil(t, p.WorkerRatingAvg)
	assert.InDelta(t, 4.5, *p.WorkerRatingAvg, 1e-9)
	assert.Equal(t, 2, p.WorkerRatingCount)
	require.NotNil(t, p.EmployerRatingAvg)
	assert.InDelta(t, 2.0, *p.EmployerRatingAvg, 1e-9)

	require.NoError(t, svc.Delete(ctx, rater, emp.ID))
	p, err = svc.Profile(ctx, ratee)
	require.NoError(t, err)
	assert.Nil(t, p.EmployerRatingAvg)
	assert.Equal(t, 0, p.EmployerRatingCount)
	assert.Equal(t, 2, p.WorkerRatingCount)
}

func TestRate_Validation(t *testing.T) {
	rater, ratee := uuid.New(), uuid.New()
	svc := NewService(newFakeStore(rater, ratee), discardLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		req   types.RatingRequest
		field string
	}{
		{name: "self rating", req: types.RatingRequest{RateeID: rater.String(), ForRole: "worker", Score: 3}, field: "ratee_id"},
		{name: "bad id", req: types.RatingRequest{RateeID: "x", ForRole: "worker", Score: 3}, field: "ratee_id"},
		{name: "bad role", req: types.RatingRequest{RateeID: ratee.String(), ForRole: "boss", Score: 3}, field: "for_role"},
		{name: "score too high", req: types.RatingRequest{RateeID: ratee.String(), ForRole: "worker", Score: 6}, field: "score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Rate(ctx, rater, tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRate_UnknownRatee(t *testing.T) {
	rater := uuid.New()
	svc := NewService(newFakeStore(rater), discardLogger())

	_, err := svc.Rate(context.Background(), rater, types.RatingRequest{RateeID: uuid.NewString(), ForRole: "worker", Score: 3})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
}

func TestDelete_OnlyAuthor(t *testing.T) {
	rater, ratee, other := uuid.New(), uuid.New(), uuid.New()
	svc := NewService(newFakeStore(rater, ratee, other), discardLogger())
	ctx := context.Background()

	r, err := svc.Rate(ctx, rater, types.RatingRequest{RateeID: ratee.String(), ForRole: "worker", Score: 3})
	require.NoError(t, err)

	var forbidden *ForbiddenError
	require.ErrorAs(t, svc.Delete(ctx, other, r.ID), &forbidden)

	var nf *NotFoundError
	require.ErrorAs(t, svc.Delete(ctx, rater, uuid.New()), &nf)
}

func TestRecalculate(t *testing.T) {
	rater, ratee := uuid.New(), uuid.New()
	store := newFakeStore(rater, ratee)
	svc := NewService(store, discardLogger())
	ctx := context.Background()

	store.ratings[uuid.New()] = db.Rating{RaterID: rater, RateeID: ratee, ForRole: "employer", Score: 3}
	store.ratings[uuid.New()] = db.Rating{RaterID: rater, RateeID: ratee, ForRole: "employer", Score: 4}

	p, err := svc.Recalculate(ctx, ratee)
	require.NoError(t, err)
	require.NotNil(t, p.EmployerRatingAvg)
	assert.InDelta(t, 3.5, *p.EmployerRatingAvg, 1e-9)
	assert.Nil(t, p.WorkerRatingAvg)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/nextstep/internal/config"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/leveling"
	"github.com/jonathan/nextstep/internal/server/ratelimit"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
}

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:     testSecret,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

// fakeUserDB is an in-memory DBClient. A failing dashboard insert rolls the
// whole registration back.
type fakeUserDB struct {
	mu              sync.Mutex
	users           map[uuid.UUID]*db.User
	profiles        map[uuid.UUID]bool
	resumes         map[uuid.UUID]*db.Resume
	dashboards      map[uuid.UUID]*db.Dashboard
	failDashboard   bool
	failEmailLookup bool
}

func newFakeUserDB() *fakeUserDB {
	return &fakeUserDB{
		users:      map[uuid.UUID]*db.User{},
		profiles:   map[uuid.UUID]bool{},
		resumes:    map[uuid.UUID]*db.Resume{},
		dashboards: map[uuid.UUID]*db.Dashboard{},
	}
}

func (f *fakeUserDB) byEmail(email string) *db.User {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeUserDB) CreateUser(_ context.Context, email, firstName, lastName, passwordHash string) (uuid.UUID, error) {
	if f.byEmail(email) != nil {
		return uuid.Nil, db.ErrDuplicate
	}
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		PasswordSet:  passwordHash != "",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserDB) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	if f.failEmailLookup {
		return nil, errors.New("connection refused")
	}
	u := f.byEmail(email)
	if u == nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	return f.byEmail(email) != nil, nil
}

func (f *fakeUserDB) UpdateUserNames(_ context.Context, id uuid.UUID, firstName, lastName string) error {
	u, ok := f.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.FirstName, u.LastName = firstName, lastName
	return nil
}

func (f *fakeUserDB) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (f *fakeUserDB) EnsureProfile(_ context.Context, userID uuid.UUID) error {
	f.profiles[userID] = true
	return nil
}

func (f *fakeUserDB) EnsureResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	r, ok := f.resumes[userID]
	if !ok {
		r = &db.Resume{ID: uuid.New(), UserID: userID}
		f.resumes[userID] = r
	}
	return r, nil
}

func (f *fakeUserDB) CreateDashboard(_ context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error) {
	if f.failDashboard {
		return nil, errors.New("dashboard insert failed")
	}
	d := &db.Dashboard{ID: uuid.New(), UserID: userID, TotalXP: totalXP, Level: level}
	f.dashboards[userID] = d
	return d, nil
}

// InTx snapshots the maps and restores them when fn fails.
func (f *fakeUserDB) InTx(_ context.Context, fn func(tx DBClient) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := cloneMap(f.users)
	profiles := cloneMap(f.profiles)
	resumes := cloneMap(f.resumes)
	dashboards := cloneMap(f.dashboards)

	if err := fn(f); err != nil {
		f.users, f.profiles, f.resumes, f.dashboards = users, profiles, resumes, dashboards
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// testEnv is a server backed by fakes.
type testEnv struct {
	server *Server
	users  *fakeUserDB
	jwt    *JWTService
}

type envOption func(*Config, *Services)

func withDashboards(d DashboardService) envOption {
	return func(_ *Config, s *Services) { s.Dashboards = d }
}

func withResumes(r ResumeService) envOption {
	return func(_ *Config, s *Services) { s.Resumes = r }
}

func withJobs(j JobService) envOption {
	return func(_ *Config, s *Services) { s.Jobs = j }
}

func withRatings(r RatingService) envOption {
	return func(_ *Config, s *Services) { s.Ratings = r }
}

func withRateLimit(rl *ratelimit.Config) envOption {
	return func(c *Config, _ *Services) { c.RateLimit = rl }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	users := newFakeUserDB()
	jwtSvc := testJWTService()
	services := Services{
		Users:      NewUserService(users, testPasswordConfig(), nil),
		JWT:        jwtSvc,
		Dashboards: &fakeDashboards{},
		Resumes:    &fakeResumes{},
		Jobs:       &fakeJobs{},
		Ratings:    &fakeRatings{},
	}
	cfg := Config{
		Addr:        ":0",
		CORSOrigins: []string{"http://localhost:3000"},
		RateLimit:   &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg, &services)
	}

	s := New(cfg, services, discardLogger())
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{server: s, users: users, jwt: jwtSvc}
}

// register creates an account through the API and returns its ID and access token.
func (e *testEnv) register(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":            email,
		"password":         "password123",
		"password_confirm": "password123",
		"first_name":       "Test",
		"last_name":        "User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Access
}

// token issues an access token without going through registration.
func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(userID, TokenTypeAccess)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// The fakes below embed their interface; calling a method a test did not
// override panics, which keeps each test explicit about what it touches.

type fakeDashboards struct {
	DashboardService
	table *leveling.Table
}

func (f *fakeDashboards) Table() *leveling.Table {
	if f.table != nil {
		return f.table
	}
	return leveling.Default()
}

type fakeResumes struct {
	ResumeService
}

type fakeJobs struct {
	JobService
}

type fakeRatings struct {
	RatingService
}

package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/gamification"
	"github.com/jonathan/nextstep/internal/jobs"
	"github.com/jonathan/nextstep/internal/leveling"
	"github.com/jonathan/nextstep/internal/resume"
	"github.com/jonathan/nextstep/internal/types"
)

// DashboardService is implemented by *gamification.Service.
type DashboardService interface {
	Table() *leveling.Table
	Summary(ctx context.Context, userID uuid.UUID) (*gamification.Summary, error)
	Edit(ctx context.Context, userID uuid.UUID, req types.DashboardEditRequest) (*gamification.EditResult, error)
	Recalculate(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error)

	ListAchievements(ctx context.Context, userID uuid.UUID) ([]db.Achievement, error)
	AddAchievement(ctx context.Context, userID uuid.UUID, req types.AchievementRequest) (*gamification.AchievementResult, error)
	RemoveAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*db.Dashboard, error)

	ListFinanceGoals(ctx context.Context, userID uuid.UUID) ([]gamification.FinanceGoalView, error)
	CreateFinanceGoal(ctx context.Context, userID uuid.UUID, req types.FinanceGoalRequest) (*gamification.FinanceGoalView, error)
	UpdateFinanceGoal(ctx context.Context, userID, goalID uuid.UUID, req types.FinanceGoalRequest) (*gamification.FinanceGoalView, error)
	DeleteFinanceGoal(ctx context.Context, userID, goalID uuid.UUID) error

	ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]db.AppliedJob, error)
	CreateAppliedJob(ctx context.Context, userID uuid.UUID, req types.AppliedJobRequest) (*db.AppliedJob, error)
	UpdateAppliedJob(ctx context.Context, userID, id uuid.UUID, req types.AppliedJobRequest) (*db.AppliedJob, error)
	DeleteAppliedJob(ctx context.Context, userID, id uuid.UUID) error
}

// ResumeService is implemented by *resume.Service.
type ResumeService interface {
	Get(ctx context.Context, userID uuid.UUID) (*resume.Details, error)
	UpdateContact(ctx context.Context, userID uuid.UUID, req types.ResumeRequest) (*db.Resume, error)

	AddEducation(ctx context.Context, userID uuid.UUID, req types.EducationRequest) (*db.Education, error)
	UpdateEducation(ctx context.Context, userID, id uuid.UUID, req types.EducationRequest) (*db.Education, error)
	DeleteEducation(ctx context.Context, userID, id uuid.UUID) error

	AddExperience(ctx context.Context, userID uuid.UUID, req types.ExperienceRequest) (*db.Experience, error)
	UpdateExperience(ctx context.Context, userID, id uuid.UUID, req types.ExperienceRequest) (*db.Experience, error)
	DeleteExperience(ctx context.Context, userID, id uuid.UUID) error

	AddSkill(ctx context.Context, userID uuid.UUID, req types.SkillRequest) (*db.Skill, error)
	UpdateSkill(ctx context.Context, userID, id uuid.UUID, req types.SkillRequest) (*db.Skill, error)
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error
}

// JobService is implemented by *jobs.Service.
type JobService interface {
	List(ctx context.Context, filters db.JobFilters) ([]jobs.View, error)
	Featured(ctx context.Context) ([]jobs.View, error)
	Recent(ctx context.Context) ([]jobs.View, error)
	Get(ctx context.Context, id uuid.UUID) (*jobs.View, error)
	Create(ctx context.Context, employerID uuid.UUID, req types.CreateJobRequest) (*jobs.View, error)
	Deactivate(ctx context.Context, employerID, jobID uuid.UUID) error

	Apply(ctx context.Context, applicantID, jobID uuid.UUID, req types.ApplyRequest) (*db.JobApplication, error)
	ListApplications(ctx context.Context, applicantID uuid.UUID, status string) ([]db.JobApplication, error)
	GetApplication(ctx context.Context, applicantID, id uuid.UUID) (*db.JobApplication, error)
	WithdrawApplication(ctx context.Context, applicantID, id uuid.UUID) error
	UpdateApplicationStatus(ctx context.Context, employerID, id uuid.UUID, status string) (*db.JobApplication, error)
}

// RatingService is implemented by *ratings.Service.
type RatingService interface {
	Rate(ctx context.Context, raterID uuid.UUID, req types.RatingRequest) (*db.Rating, error)
	Delete(ctx context.Context, raterID, ratingID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]db.Rating, error)
}

// Services bundles everything the routes dispatch to.
type Services struct {
	Users      *UserService
	JWT        *JWTService
	Dashboards DashboardService
	Resumes    ResumeService
	Jobs       JobService
	Ratings    RatingService
}

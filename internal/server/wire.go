package server

import (
	"fmt"
	"log/slog"

	"github.com/jonathan/nextstep/internal/config"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/gamification"
	"github.com/jonathan/nextstep/internal/jobs"
	"github.com/jonathan/nextstep/internal/leveling"
	"github.com/jonathan/nextstep/internal/ratings"
	"github.com/jonathan/nextstep/internal/resume"
)

// NewServices builds the Postgres-backed services. JWT and password settings
// are read from the environment.
func NewServices(database *db.DB, levels *leveling.Table, logger *slog.Logger) (Services, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return Services{}, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return Services{}, fmt.Errorf("failed to create JWT config: %w", err)
	}

	return Services{
		Users:      NewUserService(NewDBClient(database), passwordConfig, levels),
		JWT:        NewJWTService(jwtConfig),
		Dashboards: gamification.NewService(gamification.NewPostgresStore(database), levels, logger),
		Resumes:    resume.NewService(database),
		Jobs:       jobs.NewService(database, logger),
		Ratings:    ratings.NewService(ratings.NewPostgresStore(database), logger),
	}, nil
}

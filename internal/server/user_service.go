package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/nextstep/internal/config"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/leveling"
	"github.com/jonathan/nextstep/internal/types"
)

// DBClient is the account storage used by UserService.
type DBClient interface {
	CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	EnsureProfile(ctx context.Context, userID uuid.UUID) error
	EnsureResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	CreateDashboard(ctx context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error)
	InTx(ctx context.Context, fn func(tx DBClient) error) error
}

type postgresClient struct {
	*db.DB
}

// NewDBClient adapts a database handle to DBClient.
func NewDBClient(database *db.DB) DBClient {
	return &postgresClient{DB: database}
}

func (p *postgresClient) InTx(ctx context.Context, fn func(tx DBClient) error) error {
	return p.DB.InTx(ctx, func(tx *db.DB) error {
		return fn(&postgresClient{DB: tx})
	})
}

// UserService provides business logic for user authentication operations
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
	levels         *leveling.Table
}

// NewUserService creates a new UserService. A nil table uses the default thresholds.
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig, levels *leveling.Table) *UserService {
	if levels == nil {
		levels = leveling.Default()
	}
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
		levels:         levels,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Email:       dbUser.Email,
		FirstName:   dbUser.FirstName,
		LastName:    dbUser.LastName,
		PasswordSet: dbUser.PasswordSet,
		IsStaff:     dbUser.IsStaff,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Register creates the account together with its profile, empty resume and
// starting dashboard, all in one transaction.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	start, _ := s.levels.Reconcile(nil, leveling.State{})

	var created *db.User
	err = s.db.InTx(ctx, func(tx DBClient) error {
		userID, err := tx.CreateUser(ctx, req.Email, req.FirstName, req.LastName, passwordHash)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				return &ErrEmailAlreadyExists{Email: req.Email}
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.EnsureProfile(ctx, userID); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		if _, err := tx.EnsureResume(ctx, userID); err != nil {
			return fmt.Errorf("failed to create resume: %w", err)
		}
		if _, err := tx.CreateDashboard(ctx, userID, start.TotalXP, start.Level); err != nil {
			return fmt.Errorf("failed to create dashboard: %w", err)
		}

		created, err = tx.GetUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve created user: %w", err)
		}
		if created == nil {
			return fmt.Errorf("created user not found: %s", userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return convertDBUserToTypesUser(created), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if dbUser == nil || !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Get returns the account for userID.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUserToTypesUser(dbUser), nil
}

// UpdateProfile changes the account's first and last name.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	if err := s.db.UpdateUserNames(ctx, userID, req.FirstName, req.LastName); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &ErrUserNotFound{UserID: userID}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.Get(ctx, userID)
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, dbUser.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

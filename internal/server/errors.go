// Package server provides the HTTP REST API for NextStep.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/nextstep/internal/gamification"
	"github.com/jonathan/nextstep/internal/jobs"
	"github.com/jonathan/nextstep/internal/ratings"
	"github.com/jonathan/nextstep/internal/resume"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Domain errors are matched through any %w wrapping.
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		userMissing  *ErrUserNotFound
		invalid      *ErrValidation
		dashInvalid  *gamification.ValidationError
		dashMissing  *gamification.NotFoundError
		jobInvalid   *jobs.ValidationError
		jobMissing   *jobs.NotFoundError
		jobConflict  *jobs.ConflictError
		jobForbidden *jobs.ForbiddenError
		rateInvalid  *ratings.ValidationError
		rateMissing  *ratings.NotFoundError
		rateDenied   *ratings.ForbiddenError
		cvInvalid    *resume.ValidationError
		cvMissing    *resume.NotFoundError
	)

	switch {
	case errors.As(err, &emailTaken), errors.As(err, &jobConflict):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &jobForbidden), errors.As(err, &rateDenied):
		return http.StatusForbidden
	case errors.As(err, &userMissing), errors.As(err, &dashMissing), errors.As(err, &jobMissing),
		errors.As(err, &rateMissing), errors.As(err, &cvMissing):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &dashInvalid), errors.As(err, &jobInvalid),
		errors.As(err, &rateInvalid), errors.As(err, &cvInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

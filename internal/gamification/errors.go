// Package gamification keeps a student's dashboard (XP, level, achievements,
// savings goals and tracked applications) and re-derives the cached XP state
// whenever its achievements change.
package gamification

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports an input the dashboard rules reject
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError reports a missing dashboard record owned by the caller
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/nutrition"
	"github.com/aharui/backend/internal/repository"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = repository.ErrNotFound
	ErrNoMealsForPeriod   = errors.New("No meals found for the selected period. Please generate a meal plan first.")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptyResponse      = errors.New("empty response from API")
	ErrExportUnavailable  = errors.New("data export is not configured")
)

// OperationError wraps a persistence or infrastructure failure inside a use case
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// wrapOp leaves domain errors untouched and wraps everything else
func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}

	var missing *nutrition.MissingInputError
	var aiErr *AIError
	var opErr *OperationError
	switch {
	case errors.As(err, &missing), errors.As(err, &aiErr), errors.As(err, &opErr):
		return err
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNoMealsForPeriod),
		errors.Is(err, mealplan.ErrSchemaMismatch),
		errors.Is(err, mealplan.ErrMalformedResponse):
		return err
	}
	return &OperationError{Op: op, Err: err}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Clock returns the current time. Services use it to decide what "today" is.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func dateOf(t time.Time) string {
	return t.Format(models.DateLayout)
}

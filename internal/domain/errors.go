package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects a single action. The game state is left untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	// ErrMissingTeamName is returned when a team name is empty after trimming.
	ErrMissingTeamName = &ValidationError{Reason: "missing team name"}
	// ErrNoAnswerSelected is returned when an answer is submitted without a selection.
	ErrNoAnswerSelected = &ValidationError{Reason: "no answer selected"}
	// ErrInvalidCategory indicates the category key is not in the catalog.
	ErrInvalidCategory = &ValidationError{Reason: "invalid category key"}
	// ErrInvalidTeam indicates a team index outside {1,2}.
	ErrInvalidTeam = &ValidationError{Reason: "invalid team index"}
	// ErrInvalidOption indicates the selection is not one of the question's options.
	ErrInvalidOption = &ValidationError{Reason: "invalid option"}
	// ErrInvalidPoints indicates a negative award.
	ErrInvalidPoints = &ValidationError{Reason: "points must not be negative"}
	// ErrNotRevealed is returned when progression or scoring requires a revealed answer.
	ErrNotRevealed = &ValidationError{Reason: "answer not revealed"}
	// ErrAlreadyRevealed is returned when the current answer is already shown.
	ErrAlreadyRevealed = &ValidationError{Reason: "answer already revealed"}
	// ErrWrongScreen is returned when an action is not available on the current screen.
	ErrWrongScreen = &ValidationError{Reason: "action not available on this screen"}
	// ErrWrongMode is returned when an action does not match the question's grading mode.
	ErrWrongMode = &ValidationError{Reason: "action does not match grading mode"}
	// ErrCatalogNotLoaded is returned while the session still waits for its catalog.
	ErrCatalogNotLoaded = &ValidationError{Reason: "catalog not loaded"}
	// ErrNoActiveQuestion is returned when the quiz screen has no question to act on.
	ErrNoActiveQuestion = &ValidationError{Reason: "no active question"}
	// ErrUnknownAction is returned for unsupported action types.
	ErrUnknownAction = &ValidationError{Reason: "unknown action"}
)

var (
	// ErrSessionNotFound is returned when a game session does not exist.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrCatalogNotFound indicates the catalog could not be located by its ID.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrMalformedCatalog indicates the catalog document failed to decode or validate.
	ErrMalformedCatalog = errors.New("malformed catalog")
	// ErrCatalogAlreadyLoaded is returned when a session tries to swap its catalog.
	ErrCatalogAlreadyLoaded = errors.New("catalog already loaded")
)

// DataLoadError wraps a failed catalog fetch. It is terminal for the session.
type DataLoadError struct {
	CatalogID string
	Err       error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load catalog %q: %v", e.CatalogID, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a rejected action.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

package engine

import (
	"errors"
	"fmt"
)

// FailureCode categorizes engine and controller failures.
type FailureCode string

const (
	// CodeValidation marks bad input rejected before any state mutation:
	// roster size/duplicates/blank names, invalid ball numbers, blank rename.
	CodeValidation FailureCode = "VALIDATION"

	// CodeRuleViolation marks a rule-level rejection with state unchanged:
	// strict-mode edits, below-minimum active players, undo unavailable.
	CodeRuleViolation FailureCode = "RULE_VIOLATION"

	// CodePersistence marks a repository read/write failure. The in-memory
	// transition already succeeded; the caller should assume the write did
	// not durably land.
	CodePersistence FailureCode = "PERSISTENCE"
)

// Failure is the error type surfaced for every rejected intent.
// Nothing in this engine is fatal: a Failure always leaves the previous
// valid state intact.
type Failure struct {
	Code     FailureCode
	Message  string
	PlayerID string
	Err      error
}

func (f *Failure) Error() string {
	if f.PlayerID != "" {
		return fmt.Sprintf("%s: %s (player=%s)", f.Code, f.Message, f.PlayerID)
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewValidationError creates a Failure for input rejected before mutation.
func NewValidationError(format string, args ...any) *Failure {
	return &Failure{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewRuleError creates a Failure for a rule-level rejection.
func NewRuleError(playerID, format string, args ...any) *Failure {
	return &Failure{Code: CodeRuleViolation, Message: fmt.Sprintf(format, args...), PlayerID: playerID}
}

// NewPersistenceError wraps a repository failure.
func NewPersistenceError(message string, err error) *Failure {
	return &Failure{Code: CodePersistence, Message: message, Err: err}
}

// IsValidation reports whether err is a validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeValidation
}

// IsRuleViolation reports whether err is a rule-level rejection.
func IsRuleViolation(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeRuleViolation
}

// IsPersistence reports whether err is a repository failure.
func IsPersistence(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodePersistence
}

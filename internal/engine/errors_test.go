package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureClassifiers(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsRuleViolation(NewRuleError("p-1", "not allowed")))
	assert.True(t, IsPersistence(NewPersistenceError("write", errors.New("disk"))))

	assert.False(t, IsValidation(NewRuleError("", "nope")))
	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestFailureClassifiers_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewRuleError("p-2", "strict mode"))
	assert.True(t, IsRuleViolation(err))
}

func TestFailureError(t *testing.T) {
	assert.Equal(t, "VALIDATION: bad input", NewValidationError("bad input").Error())
	assert.Equal(t, "RULE_VIOLATION: not allowed (player=p-1)", NewRuleError("p-1", "not allowed").Error())

	cause := errors.New("disk full")
	perr := NewPersistenceError("save session", cause)
	assert.Equal(t, "PERSISTENCE: save session: disk full", perr.Error())
	assert.ErrorIs(t, perr, cause)
}

package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewValidationError("sheet width must be positive")
	assert.Equal(t, "sheet width must be positive", err.Error())
	assert.Equal(t, CodeValidation, err.Code)

	wrapped := WrapDomainError(CodeNotFound, "PDF not found", errors.New("open x.pdf: no such file"))
	assert.Equal(t, "PDF not found: open x.pdf: no such file", wrapped.Error())
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("opening file: %w", NewNotFoundError("GPO-COT_12345.pdf"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(errors.New("plain"), ErrNotFound))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapDomainError(CodeConflict, "cannot store", cause)
	assert.ErrorIs(t, err, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(fmt.Errorf("x: %w", NewValidationError("bad"))))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

type coded struct{ code string }

func (c coded) Error() string      { return "coded " + c.code }
func (c coded) DomainCode() string { return c.code }

func TestCodeOf_ForeignCodedError(t *testing.T) {
	err := fmt.Errorf("convert: %w", coded{CodeConversion})

	assert.Equal(t, CodeConversion, CodeOf(err))
	assert.False(t, errors.Is(err, ErrConversion))
	assert.True(t, ErrConversion.Is(err))
}

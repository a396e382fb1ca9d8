package story

import (
	"errors"
	"fmt"
)

// ValidationError marks caller mistakes: unknown genre, language, difficulty
// or engine. The façade maps it to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with fmt semantics.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks lookups of things that do not exist, such as the
// vocabulary table for an unknown language. Mapped to HTTP 404.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NotFoundf builds a NotFoundError with fmt semantics.
func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError marks invalid static data discovered at load time, such
// as a template placeholder with no backing vocabulary category.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// Configurationf builds a ConfigurationError with fmt semantics.
func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// Model lifecycle and routing failures. These are matched with errors.Is so
// they survive wrapping with context.
var (
	ErrModelNotConfigured    = errors.New("no model path configured")
	ErrModelFileNotFound     = errors.New("model file not found")
	ErrCapabilityUnavailable = errors.New("inference capability unavailable")
	ErrModelNotLoaded        = errors.New("model not loaded")
	ErrEngineUnavailable     = errors.New("requested engine is not available")
	ErrGenerationTimeout     = errors.New("generation timed out")
)

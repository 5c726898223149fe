package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse        = "CONFIG_PARSE"
	ErrCodeWorkingDirNotFound = "WORKING_DIR_NOT_FOUND"
	ErrCodeCredentialsInvalid = "CREDENTIALS_INVALID"
	ErrCodeLoginFailed        = "LOGIN_FAILED"
	ErrCodePlanFailed         = "PLAN_FAILED"
	ErrCodePrecondition       = "PRECONDITION"
	ErrCodeInstallFailed      = "INSTALL_FAILED"
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "CONFIG_INVALID")
	Message    string // User-friendly error message
	Context    string // Input name, file path, or other location context
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder

	b.WriteString(e.Message)

	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}

	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}

	return b.String()
}

// NewUserError creates a new UserError with the given code and message.
func NewUserError(code, message string) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
	}
}

// WithContext returns a new UserError with context set.
func (e *UserError) WithContext(ctx string) *UserError {
	return &UserError{
		Code:       e.Code,
		Message:    e.Message,
		Context:    ctx,
		Suggestion: e.Suggestion,
		Underlying: e.Underlying,
	}
}

// WithSuggestion returns a new UserError with a suggestion set.
func (e *UserError) WithSuggestion(suggestion string) *UserError {
	return &UserError{
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: suggestion,
		Underlying: e.Underlying,
	}
}

// WithUnderlying returns a new UserError wrapping the given error.
func (e *UserError) WithUnderlying(err error) *UserError {
	return &UserError{
		Code:       e.Code,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
		Underlying: err,
	}
}

// NewInvalidInputError creates a configuration error for a bad input value.
func NewInvalidInputError(input, value, allowed string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    fmt.Sprintf("invalid %s: %q", input, value),
		Context:    input,
		Suggestion: fmt.Sprintf("must be one of: %s", allowed),
	}
}

// NewMissingInputError creates a configuration error for a missing input.
func NewMissingInputError(input string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    fmt.Sprintf("%s is required", input),
		Context:    input,
		Suggestion: fmt.Sprintf("set the %s input on the action step", input),
	}
}

// NewWorkingDirError creates an error for an unresolvable working directory.
func NewWorkingDirError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeWorkingDirNotFound,
		Message:    fmt.Sprintf("working directory does not exist: %s", path),
		Context:    path,
		Suggestion: "check that tf_path points inside the checked-out workspace",
	}
}

// NewConfigParseError creates an error for an unparseable config file.
func NewConfigParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    fmt.Sprintf("failed to parse config file: %s", path),
		Context:    path,
		Suggestion: "check the YAML syntax",
		Underlying: err,
	}
}

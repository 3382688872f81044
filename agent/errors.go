package agent

import (
	"errors"
	"fmt"

	"github.com/hupe1980/greenmesh/catalog"
	"github.com/hupe1980/greenmesh/model"
	"github.com/hupe1980/greenmesh/tool"
)

// Error codes carried by Response.Error. They form the failure taxonomy of
// the runtime: caller errors, configuration errors and transient collaborator
// failures that were recovered locally.
const (
	CodeInvalidParameters     = "INVALID_PARAMETERS"
	CodeCapabilityNotFound    = "CAPABILITY_NOT_FOUND"
	CodeToolNotFound          = "TOOL_NOT_FOUND"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeModelUnavailable      = "MODEL_UNAVAILABLE"
	CodeDataUnavailable       = "DATA_UNAVAILABLE"
	CodeUnresolvedReference   = "UNRESOLVED_REFERENCE"
	CodeExecutionError        = "EXECUTION_ERROR"
	CodeValidationError       = "VALIDATION_ERROR"
)

// Error is a coded agent error. Handlers may return one to control the code
// the dispatch boundary reports; anything else maps to EXECUTION_ERROR.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("agent error [%s]: %s", e.Code, e.Message)
}

// NewError creates a coded agent error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewInvalidParametersError names the missing or malformed field, per the
// capability contract.
func NewInvalidParametersError(field, reason string) *Error {
	return &Error{
		Code:    CodeInvalidParameters,
		Message: fmt.Sprintf("invalid parameter '%s': %s", field, reason),
	}
}

// errorCode maps an arbitrary handler failure to its taxonomy code.
func errorCode(err error) string {
	var agentErr *Error
	if errors.As(err, &agentErr) {
		return agentErr.Code
	}

	var toolErr *tool.ToolError
	if errors.As(err, &toolErr) && toolErr.Code != "" {
		return toolErr.Code
	}

	var validationErr *tool.ValidationError
	if errors.As(err, &validationErr) {
		return CodeInvalidParameters
	}

	switch {
	case errors.Is(err, model.ErrModelUnavailable):
		return CodeModelUnavailable
	case errors.Is(err, catalog.ErrDataUnavailable):
		return CodeDataUnavailable
	}

	return CodeExecutionError
}

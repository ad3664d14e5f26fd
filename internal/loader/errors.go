package loader

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error code constants - unified across all loading paths.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Pipeline validation errors
	ErrCodeNoSteps        = "E101" // Pipeline has no steps
	ErrCodeMissingCommand = "E102" // Step missing command
	ErrCodeInvalidWhen    = "E103" // Invalid when condition
	ErrCodeInvalidInput   = "E104" // Invalid step input
	ErrCodeInvalidOptions = "E105" // Invalid pipeline options
)

// LoadError represents an error that occurred during definition loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CompileError is a field-level compilation failure with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "steps":
		return ErrCodeNoSteps
	case "command", "steps.command":
		return ErrCodeMissingCommand
	case "when":
		return ErrCodeInvalidWhen
	case "input":
		return ErrCodeInvalidInput
	case "options":
		return ErrCodeInvalidOptions
	default:
		return ErrCodeGeneric
	}
}

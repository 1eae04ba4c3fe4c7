package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Bundle errors (BUNDLE-001 to BUNDLE-099)
	ErrCodeBundleNotFound     ErrorCode = "BUNDLE-001"
	ErrCodeBundleCorrupt      ErrorCode = "BUNDLE-002"
	ErrCodeBundleNoInputs     ErrorCode = "BUNDLE-003"
	ErrCodeBundleInputMissing ErrorCode = "BUNDLE-004"

	// Store errors (STORE-001 to STORE-099)
	ErrCodeStoreReadFailed  ErrorCode = "STORE-001"
	ErrCodeStoreWriteFailed ErrorCode = "STORE-002"
	ErrCodeStoreDirFailed   ErrorCode = "STORE-003"

	// Ledger errors (LEDGER-001 to LEDGER-099)
	ErrCodeLedgerVersionUnknown ErrorCode = "LEDGER-001"
	ErrCodeLedgerEmpty          ErrorCode = "LEDGER-002"

	// Parse errors (PARSE-001 to PARSE-099)
	ErrCodeParseNoPayload  ErrorCode = "PARSE-001"
	ErrCodeParseBadPayload ErrorCode = "PARSE-002"

	// Gateway errors (GATEWAY-001 to GATEWAY-099)
	ErrCodeGatewayTimeout     ErrorCode = "GATEWAY-001"
	ErrCodeGatewayRateLimited ErrorCode = "GATEWAY-002"
	ErrCodeGatewayServer      ErrorCode = "GATEWAY-003"
	ErrCodeGatewayNetwork     ErrorCode = "GATEWAY-004"
	ErrCodeGatewayConfig      ErrorCode = "GATEWAY-005"

	// Analysis errors (ANALYSIS-001 to ANALYSIS-099)
	ErrCodeAnalysisNothingToDo ErrorCode = "ANALYSIS-001"
	ErrCodeAnalysisBusy        ErrorCode = "ANALYSIS-002"

	// Persona errors (PERSONA-001 to PERSONA-099)
	ErrCodePersonaUnknown ErrorCode = "PERSONA-001"
	ErrCodePersonaCatalog ErrorCode = "PERSONA-002"
)

// PlanweaveError represents an enhanced error with code, suggestions, and documentation
type PlanweaveError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PlanweaveError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PlanweaveError) Unwrap() error {
	return e.Cause
}

// New creates a new PlanweaveError
func New(code ErrorCode, message string) *PlanweaveError {
	return &PlanweaveError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PlanweaveError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PlanweaveError {
	return &PlanweaveError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PlanweaveError) WithSuggestion(suggestion string) *PlanweaveError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PlanweaveError) WithSuggestions(suggestions ...string) *PlanweaveError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PlanweaveError) WithDocs(url string) *PlanweaveError {
	e.DocsURL = url
	return e
}

// CodeOf returns the error code of err if it is, or wraps, a
// PlanweaveError, or an empty code otherwise.
func CodeOf(err error) ErrorCode {
	var pe *PlanweaveError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Common error constructors for frequently used errors

// NewBundleNotFoundError creates a bundle not found error
func NewBundleNotFoundError(path string) *PlanweaveError {
	return New(ErrCodeBundleNotFound, fmt.Sprintf("project bundle not found: %s", path)).
		WithSuggestion("Run 'planweave new <name>' to create a new bundle").
		WithSuggestion("Check if the bundle path is correct")
}

// NewBundleCorruptError creates a bundle corruption error
func NewBundleCorruptError(path string, cause error) *PlanweaveError {
	return Wrap(ErrCodeBundleCorrupt, fmt.Sprintf("project bundle is corrupt: %s", path), cause).
		WithSuggestion("The metadata file could not be decoded").
		WithSuggestion("Restore the bundle from a backup if one exists")
}

// NewNoInputsError creates a validation error for an empty bundle
func NewNoInputsError() *PlanweaveError {
	return New(ErrCodeBundleNoInputs, "nothing to analyze: the bundle has no inputs and no goal text").
		WithSuggestion("Add at least one input with 'planweave input add'").
		WithSuggestion("Or set a goal with 'planweave goal'")
}

// NewParseError creates a response parse error
func NewParseError(detail string, cause error) *PlanweaveError {
	return Wrap(ErrCodeParseBadPayload, fmt.Sprintf("could not interpret AI response: %s", detail), cause).
		WithSuggestion("Re-run the analysis; generation is non-deterministic").
		WithSuggestion("Inspect the raw response in the error cause")
}

// NewGatewayError creates a terminal gateway failure error
func NewGatewayError(detail string, cause error) *PlanweaveError {
	return Wrap(ErrCodeGatewayServer, fmt.Sprintf("AI backend request failed: %s", detail), cause).
		WithSuggestion("Check network connectivity and backend status").
		WithSuggestion("Retry the analysis once the backend recovers")
}

// NewPersistenceError creates a store read/write error
func NewPersistenceError(op, path string, cause error) *PlanweaveError {
	code := ErrCodeStoreReadFailed
	if op == "write" {
		code = ErrCodeStoreWriteFailed
	}
	return Wrap(code, fmt.Sprintf("bundle %s failed: %s", op, path), cause).
		WithSuggestion("Check disk space and file permissions").
		WithSuggestion("In-memory ledger entries are preserved; save again once resolved")
}

// NewVersionUnknownError creates an error for a missing ledger version
func NewVersionUnknownError(version int) *PlanweaveError {
	return New(ErrCodeLedgerVersionUnknown, fmt.Sprintf("no snapshot with version %d in the ledger", version)).
		WithSuggestion("Run 'planweave versions' to list available versions")
}

// NewPersonaUnknownError creates an unknown persona error
func NewPersonaUnknownError(label string) *PlanweaveError {
	return New(ErrCodePersonaUnknown, fmt.Sprintf("unknown persona: %s", label)).
		WithSuggestion("Run 'planweave personas' to list available personas")
}

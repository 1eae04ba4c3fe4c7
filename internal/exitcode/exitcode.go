package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/planweave/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// NotFound indicates a missing project bundle or version
	NotFound = 3

	// CorruptBundle indicates a bundle that could not be read back
	CorruptBundle = 4

	// GatewayError indicates the AI backend request failed
	GatewayError = 5

	// ParseError indicates the AI response could not be interpreted
	ParseError = 6

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeBundleNotFound, errors.ErrCodeLedgerVersionUnknown,
		errors.ErrCodePersonaUnknown, errors.ErrCodeBundleInputMissing:
		return NotFound
	case errors.ErrCodeBundleCorrupt:
		return CorruptBundle
	case errors.ErrCodeGatewayTimeout, errors.ErrCodeGatewayRateLimited,
		errors.ErrCodeGatewayServer, errors.ErrCodeGatewayNetwork,
		errors.ErrCodeGatewayConfig:
		return GatewayError
	case errors.ErrCodeParseNoPayload, errors.ErrCodeParseBadPayload:
		return ParseError
	case errors.ErrCodeBundleNoInputs, errors.ErrCodeAnalysisNothingToDo:
		return UsageError
	}

	// Uncoded errors: fall back to message sniffing so wrapped
	// transport failures still map usefully.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "usage") || strings.Contains(msg, "unknown flag"):
		return UsageError
	case strings.Contains(msg, "not found"):
		return NotFound
	case strings.Contains(msg, "gateway"):
		return GatewayError
	}
	return GeneralError
}

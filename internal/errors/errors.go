package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the discovery and grouping pipeline.
var (
	ErrUsage              = errors.New("usage error")
	ErrDiscoveryTransport = errors.New("discovery failed")
	ErrUnknownZone        = errors.New("unknown zone")
	ErrJoinNotFound       = errors.New("zone not found on the network")
	ErrJoinTransport      = errors.New("join failed")
	ErrControlRejected    = errors.New("control action rejected by speaker")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// SyncError wraps an error with a user-friendly suggestion.
type SyncError struct {
	Err        error
	Suggestion string
}

func (e *SyncError) Error() string {
	return e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SyncError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ZoneError reports a failure tied to a named zone.
type ZoneError struct {
	Zone string
	Err  error
}

func (e *ZoneError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Zone)
}

func (e *ZoneError) Unwrap() error {
	return e.Err
}

// UnknownZone returns a ZoneError wrapping ErrUnknownZone.
func UnknownZone(zone string) error {
	return &ZoneError{Zone: zone, Err: ErrUnknownZone}
}

// Usage returns an error wrapping ErrUsage.
func Usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUsage(err):
		return 2
	default:
		return 1
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) && syncErr.Suggestion != "" {
		return syncErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrUsage) {
		return "Run 'sonosync --help' to see available commands"
	}

	if errors.Is(err, ErrUnknownZone) {
		return "Run 'sonosync list' to see zones on the network"
	}

	if errors.Is(err, ErrJoinNotFound) || errors.Is(err, ErrControlRejected) {
		return "The speaker may have left the network. Run 'sonosync list' and try again"
	}

	// Network errors
	if errors.Is(err, ErrDiscoveryTransport) || errors.Is(err, ErrJoinTransport) ||
		strings.Contains(errStr, "network is unreachable") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") {
		return "Check that this machine is on the same network as your speakers"
	}

	if errors.Is(err, ErrInvalidConfig) {
		return "Check ~/.sonosyncrc or the file passed with --config"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

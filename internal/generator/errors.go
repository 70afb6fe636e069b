package generator

import "fmt"

// ErrorKind is the closed set of terminal generation outcomes.
type ErrorKind string

const (
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindParseFailed         ErrorKind = "parse_failed"
	KindValidationFailed    ErrorKind = "validation_failed"
	KindCancelled           ErrorKind = "cancelled"
	KindUnknown             ErrorKind = "unknown"
)

// GenerationError is the single error type GenerateGame returns. Parser
// and validator failures are internal to an attempt; they surface only
// wrapped here once the simplified retry has also failed.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("generation failed (%s)", e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ParseError describes a parse cascade failure. Stage identifies how far
// the cascade got: "exhausted" when no stage produced valid JSON,
// "missing-fields" when JSON parsed but lacked a required top-level key.
type ParseError struct {
	Stage  string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed at %s: %s", e.Stage, e.Detail)
}

// ValidationKind identifies which structural invariant a response broke.
type ValidationKind string

const (
	ValidationCountMismatch        ValidationKind = "count_mismatch"
	ValidationDistributionMismatch ValidationKind = "distribution_mismatch"
	ValidationOrderMismatch        ValidationKind = "order_mismatch"
)

// ValidationError reports exactly which invariant failed.
type ValidationError struct {
	Kind   ValidationKind
	Entity string // "locations" or "puzzles"
	Order  int    // stop order for distribution failures
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s %s): %s", e.Kind, e.Entity, e.Detail)
}

// =============================================================================
// Challan Generator - Error Taxonomy
// =============================================================================
//
// Every failure that reaches the operator is an *AppError carrying a stable
// machine-readable code. The interactive surface renders Message (and, for
// validation failures, every Violation) as human-readable text.
//
// CODES:
//   FORMAT_ERROR        : Non-numeric or malformed amount handed to formatting
//   COLUMN_NOT_FOUND    : Requested period has no column in the data source
//   CONSUMER_NOT_FOUND  : No row matches the consumer number
//   VALIDATION_ERROR    : One or more input fields failed format rules
//   NO_PAYMENT_DUE      : Period resolved but the total is zero
//   RECORD_NOT_FOUND    : No ledger record with the given id
//   SESSION_STATE       : Operation not allowed in the current session state
//   RENDER_ERROR        : Template or document generation failed
//   IO_ERROR            : Data source or output file could not be read/written
//
// =============================================================================

package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes.
const (
	CodeFormat           = "FORMAT_ERROR"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeConsumerNotFound = "CONSUMER_NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNoPaymentDue     = "NO_PAYMENT_DUE"
	CodeRecordNotFound   = "RECORD_NOT_FOUND"
	CodeSessionState     = "SESSION_STATE"
	CodeRender           = "RENDER_ERROR"
	CodeIO               = "IO_ERROR"
)

// =============================================================================
// APP ERROR
// =============================================================================

// AppError is the standard error type of the application.
type AppError struct {
	// Code is a machine-readable error identifier.
	Code string

	// Message is a human-readable description suitable for the operator.
	Message string

	// Details contains additional context (consumer number, periods, ...).
	Details map[string]any

	// Violations lists every failing rule of a validation error.
	Violations []Violation

	// Err is the underlying error, if any.
	Err error
}

// Violation describes a single failed validation rule.
type Violation struct {
	// Field is the input field that failed (e.g. "instrument_number").
	Field string

	// Rule is the rule that was violated (e.g. "digits").
	Rule string

	// Value is the rejected input.
	Value string

	// Message is a human-readable explanation.
	Message string
}

// String renders the violation for display.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (value: '%s')", v.Field, v.Message, v.Value)
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Violations) > 0 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString("]")
	}

	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// =============================================================================
// FACTORY FUNCTIONS
// =============================================================================

// NewFormat creates a formatting error for a raw input that is not a number.
func NewFormat(input string, cause error) *AppError {
	return &AppError{
		Code:    CodeFormat,
		Message: fmt.Sprintf("'%s' is not a valid amount", input),
		Details: map[string]any{"input": input},
		Err:     cause,
	}
}

// NewColumnNotFound creates an error for periods with no matching column.
func NewColumnNotFound(periods ...string) *AppError {
	return &AppError{
		Code:    CodeColumnNotFound,
		Message: fmt.Sprintf("period not found: %s", strings.Join(periods, ", ")),
		Details: map[string]any{"periods": periods},
	}
}

// NewConsumerNotFound creates an error for an unknown consumer number.
func NewConsumerNotFound(consumerNumber string) *AppError {
	return &AppError{
		Code:    CodeConsumerNotFound,
		Message: fmt.Sprintf("consumer %s not found", consumerNumber),
		Details: map[string]any{"consumer_number": consumerNumber},
	}
}

// NewValidation creates a validation error carrying every failed rule.
func NewValidation(message string, violations ...Violation) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		Violations: violations,
	}
}

// NewNoPaymentDue creates an error for a period whose total is zero.
func NewNoPaymentDue(consumerNumber, period string) *AppError {
	return &AppError{
		Code:    CodeNoPaymentDue,
		Message: fmt.Sprintf("no payment due for consumer %s in %s", consumerNumber, period),
		Details: map[string]any{"consumer_number": consumerNumber, "period": period},
	}
}

// NewRecordNotFound creates an error for an unknown ledger record id.
func NewRecordNotFound(id string) *AppError {
	return &AppError{
		Code:    CodeRecordNotFound,
		Message: fmt.Sprintf("record %s not found", id),
		Details: map[string]any{"id": id},
	}
}

// NewSessionState creates an error for an operation attempted in the wrong state.
func NewSessionState(message string) *AppError {
	return &AppError{
		Code:    CodeSessionState,
		Message: message,
	}
}

// NewRender creates an error raised by a document renderer.
func NewRender(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeRender,
		Message: message,
		Err:     cause,
	}
}

// NewIO creates an error for file system failures.
func NewIO(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeIO,
		Message: message,
		Err:     cause,
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsFormat checks if error is CodeFormat.
func IsFormat(err error) bool { return HasCode(err, CodeFormat) }

// IsColumnNotFound checks if error is CodeColumnNotFound.
func IsColumnNotFound(err error) bool { return HasCode(err, CodeColumnNotFound) }

// IsConsumerNotFound checks if error is CodeConsumerNotFound.
func IsConsumerNotFound(err error) bool { return HasCode(err, CodeConsumerNotFound) }

// IsValidation checks if error is CodeValidation.
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsNoPaymentDue checks if error is CodeNoPaymentDue.
func IsNoPaymentDue(err error) bool { return HasCode(err, CodeNoPaymentDue) }

// IsRecordNotFound checks if error is CodeRecordNotFound.
func IsRecordNotFound(err error) bool { return HasCode(err, CodeRecordNotFound) }

// IsSessionState checks if error is CodeSessionState.
func IsSessionState(err error) bool { return HasCode(err, CodeSessionState) }

// ViolationsOf returns the violations carried by a validation error, if any.
func ViolationsOf(err error) []Violation {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Violations
	}
	return nil
}

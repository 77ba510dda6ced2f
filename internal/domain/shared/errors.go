package shared

// DomainError represents a domain-level error with a stable code and
// structured details the caller can render into an actionable message.
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithDetails creates a new domain error carrying structured details
func NewDomainErrorWithDetails(code, message string, details map[string]any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Error codes for hard failures of the accounting engine. Soft issues
// (identifier validation, direction heuristics, large-amount flags) are
// surfaced as warnings on the result, never as errors.
const (
	// CodeTotalMismatch: an invoice's declared total disagrees with the sum
	// of its tax lines beyond tolerance.
	CodeTotalMismatch = "TOTAL_MISMATCH"
	// CodePayrollMismatch: a payslip's gross/withholding/net figures do not
	// reconcile beyond tolerance.
	CodePayrollMismatch = "PAYROLL_MISMATCH"
	// CodeUnmappedAccount: the caller-supplied account map has no entry for
	// a required posting key.
	CodeUnmappedAccount = "UNMAPPED_ACCOUNT"
	// CodeBalanceError: a generated journal entry does not balance.
	CodeBalanceError = "BALANCE_ERROR"
	// CodeInvalidPeriod: a liquidation period string does not match the
	// regime's expected format.
	CodeInvalidPeriod = "INVALID_PERIOD"
	// CodeInvalidInput: malformed input that the algorithm cannot work on
	// (missing required fields, too few documents).
	CodeInvalidInput = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
)

// CodeOf extracts the stable error code from err, or "" when err is not a
// DomainError.
func CodeOf(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

package chat

import "strings"

// ValidationReason explains why a send request was rejected.
type ValidationReason string

const (
	ReasonEmptyInput    ValidationReason = "empty_input"
	ReasonAlreadyActive ValidationReason = "already_active"
)

// ValidationResult is the outcome of validating a send request.
type ValidationResult struct {
	OK     bool
	Reason ValidationReason
}

// ValidateTurn rejects a send request when the input is empty or a turn is
// already in flight. Input is empty when the trimmed text is blank and no
// attachments were supplied; that check runs before the busy check.
func ValidateTurn(text string, attachments []Attachment, turnActive bool) ValidationResult {
	if strings.TrimSpace(text) == "" && len(attachments) == 0 {
		return ValidationResult{Reason: ReasonEmptyInput}
	}
	if turnActive {
		return ValidationResult{Reason: ReasonAlreadyActive}
	}
	return ValidationResult{OK: true}
}

package utils

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Add appends a field error
func (e *FieldValidationErrors) Add(field, message string) {
	*e = append(*e, FieldValidationError{Field: field, Message: message})
}

// Err returns nil when there are no field errors.
func (e FieldValidationErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsFieldValidationErrors finds FieldValidationErrors in err's chain
func AsFieldValidationErrors(err error, target *FieldValidationErrors) bool {
	return errors.As(err, target)
}

var (
	pincodeRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`on\w+="[^"]*"`)
)

// SanitizeString removes potentially dangerous characters and HTML tags
func SanitizeString(input string) string {
	sanitized := htmlTagRegex.ReplaceAllString(input, "")
	sanitized = jsEventRegex.ReplaceAllString(sanitized, "")
	return html.EscapeString(strings.TrimSpace(sanitized))
}

// ValidatePincode checks a pincode or pincode prefix
func ValidatePincode(pincode string) (bool, string) {
	if len(pincode) > MaxPincodeLength {
		return false, fmt.Sprintf("must not exceed %d characters", MaxPincodeLength)
	}
	if !pincodeRegex.MatchString(pincode) {
		return false, "must contain only letters and digits"
	}
	return true, ""
}

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ParseAmount parses a monetary amount, rejecting negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("amount is required")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return amount, nil
}

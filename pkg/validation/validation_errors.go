package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Candidate fields
	"FirstName": "First name",
	"LastName":  "Last name",
	"Email":     "Email",
	"Phone":     "Phone",
	"Address":   "Address",

	// Education fields
	"Institution":  "Institution",
	"Degree":       "Degree",
	"FieldOfStudy": "Field of study",

	// Work experience fields
	"Company":  "Company",
	"Position": "Position",

	// Shared nested fields
	"StartDate":   "Start date",
	"EndDate":     "End date",
	"IsCurrent":   "Current flag",
	"Description": "Description",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s cannot exceed %s characters", label, param)
		}
		return fmt.Sprintf("%s cannot exceed %s", label, param)

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)

	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 characters and may contain digits, spaces, parentheses, hyphens and a leading +", label)

	case "valid_address":
		return fmt.Sprintf("%s may only contain letters, numbers, spaces and the signs: . , - # /", label)

	case "daterange":
		return fmt.Sprintf("%s cannot be earlier than the start date", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	// Return field name with spaces between camelCase words
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

package validation

import (
	"regexp"
	"time"

	"ats-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Phone: optional leading +, then digits, spaces, parentheses, hyphens,
	// 7-15 characters total
	phoneRegex = regexp.MustCompile(`^\+?[\d\s()\-]{7,15}$`)

	// Address: alphanumeric plus space and . , - # /
	addressRegex = regexp.MustCompile(`^[a-zA-Z0-9\s.,\-#/]+$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("valid_address", ValidAddress)
	v.RegisterStructValidation(EducationDateRange, domain.EducationInput{})
	v.RegisterStructValidation(ExperienceDateRange, domain.ExperienceInput{})
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// ValidAddress validates that an address uses only the allowed character set
func ValidAddress(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return addressRegex.MatchString(val)
}

// EducationDateRange rejects an education entry whose end date precedes its
// start date. Entries flagged is_current skip the check because the end date
// is cleared before persistence.
func EducationDateRange(sl validator.StructLevel) {
	edu := sl.Current().Interface().(domain.EducationInput)
	if edu.IsCurrent || edu.StartDate == nil || edu.EndDate == nil {
		return
	}
	if endBeforeStart(*edu.StartDate, *edu.EndDate) {
		sl.ReportError(edu.EndDate, "EndDate", "endDate", "daterange", "")
	}
}

// ExperienceDateRange applies the same rule to work experience entries.
func ExperienceDateRange(sl validator.StructLevel) {
	exp := sl.Current().Interface().(domain.ExperienceInput)
	if exp.IsCurrent || exp.StartDate == "" || exp.EndDate == nil {
		return
	}
	if endBeforeStart(exp.StartDate, *exp.EndDate) {
		sl.ReportError(exp.EndDate, "EndDate", "endDate", "daterange", "")
	}
}

func endBeforeStart(start, end string) bool {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return false // malformed dates are caught by the datetime tag
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return false
	}
	return e.Before(s)
}

package validation_test

import (
	"testing"

	"ats-backend/internal/domain"
	"ats-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestPhoneValidation(t *testing.T) {
	v := newValidator()

	type payload struct {
		Phone string `validate:"valid_phone"`
	}

	valid := []string{
		"+62 812 3456",
		"(021) 555-01",
		"08123456789",
		"+1-555-0123",
	}
	for _, phone := range valid {
		assert.NoError(t, v.Struct(payload{Phone: phone}), "expected %q to be valid", phone)
	}

	invalid := []string{
		"123456",              // too short
		"0812345678901234567", // too long
		"call-me@home",        // letters and symbols
		"++62812345",          // plus only allowed once, leading
	}
	for _, phone := range invalid {
		assert.Error(t, v.Struct(payload{Phone: phone}), "expected %q to be invalid", phone)
	}
}

func TestAddressValidation(t *testing.T) {
	v := newValidator()

	type payload struct {
		Address string `validate:"valid_address"`
	}

	assert.NoError(t, v.Struct(payload{Address: "Jl. Sudirman No. 10, Blok C-2 #5/A"}))
	assert.Error(t, v.Struct(payload{Address: "Straße 12"}))
	assert.Error(t, v.Struct(payload{Address: "10% discount street"}))
}

func TestEducationDateRange(t *testing.T) {
	v := newValidator()

	start := "2020-09-01"
	endBefore := "2019-06-30"
	endAfter := "2024-06-30"

	t.Run("Should reject end before start", func(t *testing.T) {
		err := v.Struct(domain.EducationInput{
			Institution: "State University",
			Degree:      "BSc",
			StartDate:   &start,
			EndDate:     &endBefore,
		})
		assert.Error(t, err)
		msgs := validation.FormatValidationErrors(err)
		assert.NotEmpty(t, msgs)
	})

	t.Run("Should accept end after start", func(t *testing.T) {
		err := v.Struct(domain.EducationInput{
			Institution: "State University",
			Degree:      "BSc",
			StartDate:   &start,
			EndDate:     &endAfter,
		})
		assert.NoError(t, err)
	})

	t.Run("Should skip the check for current entries", func(t *testing.T) {
		err := v.Struct(domain.EducationInput{
			Institution: "State University",
			Degree:      "BSc",
			StartDate:   &start,
			EndDate:     &endBefore,
			IsCurrent:   true,
		})
		assert.NoError(t, err)
	})
}

func TestExperienceDateRange(t *testing.T) {
	v := newValidator()

	end := "2020-01-01"
	err := v.Struct(domain.ExperienceInput{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: "2022-01-01",
		EndDate:   &end,
	})
	assert.Error(t, err)
}

func TestCreateCandidateInputValidation(t *testing.T) {
	v := newValidator()

	t.Run("Should pass a complete payload", func(t *testing.T) {
		err := v.Struct(domain.CreateCandidateInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "+62 812 3456",
			Address:   "Jl. Sudirman No. 10",
		})
		assert.NoError(t, err)
	})

	t.Run("Should collect field-level messages", func(t *testing.T) {
		err := v.Struct(domain.CreateCandidateInput{
			Email: "not-an-email",
			Phone: "abc",
		})
		assert.Error(t, err)
		msgs := validation.FormatValidationErrors(err)
		assert.GreaterOrEqual(t, len(msgs), 3)
	})
}

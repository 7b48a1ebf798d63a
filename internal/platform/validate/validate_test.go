// Copyright (c) 2026 FarmConnect. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/api/internal/platform/apperr"
	"github.com/farmconnect/api/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "FarmConnect", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Password verifies that every violated strength rule is reported
as its own field error.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		violations int
	}{
		// "short": lowercase present; misses length, uppercase, digit, symbol.
		{"short_lowercase", "short", 4},
		// "abc": lowercase present; misses length, uppercase, digit, symbol.
		{"abc", "abc", 4},
		{"missing_symbol_only", "Abcdefg1", 1},
		{"all_rules_met", "Abcdefg1!", 0},
		{"empty", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Password("password", tt.password).Err()

			if tt.violations == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Len(t, ae.Details, tt.violations)
			for _, detail := range ae.Details {
				assert.Equal(t, "password", detail.Field)
			}
		})
	}
}

/*
TestValidator_Name checks the letters-and-spaces display name rule.
*/
func TestValidator_Name(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"simple", "Alice Nguyen", true},
		{"digits", "Alice 2", false},
		{"punctuation", "O'Brien", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Name("name", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Phone checks the optional phone number rule.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"empty_is_ok", "", true},
		{"international", "+14155550133", true},
		{"leading_zero", "0123456", false},
		{"letters", "call-me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Alice").
		MinLen("email", "alice@farmconnect.dev", 5).
		MaxLen("email", "alice@farmconnect.dev", 254).
		Email("email", "alice@farmconnect.dev").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").           // Fails
		MinLen("email", "a@b", 5).      // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

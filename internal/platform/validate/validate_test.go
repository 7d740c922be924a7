// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/validate"
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
		{"valid_string", "name", "Wander", false},
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
TestValidator_Range tests the inclusive integer bounds rule.
*/
func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		isValid bool
	}{
		{"lower_bound", 1, true},
		{"upper_bound", 5, true},
		{"below", 0, false},
		{"above", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Range("rating", tt.value, 1, 5)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Positive checks the strictly-positive number rule.
*/
func TestValidator_Positive(t *testing.T) {
	v := &validate.Validator{}
	v.Positive("price", 497.0)
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.Positive("price", 0)
	assert.True(t, v.HasErrors())

	v = &validate.Validator{}
	v.Positive("price", -10)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_OneOf checks the enumerated-value rule.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("difficulty", "medium", "easy", "medium", "difficult")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.OneOf("difficulty", "extreme", "easy", "medium", "difficult")
	require.True(t, v.HasErrors())

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Contains(t, ae.Details[0].Message, "easy, medium, difficult")
}

/*
TestValidator_Custom checks the free-form condition rule.
*/
func TestValidator_Custom(t *testing.T) {
	price, discount := 497.0, 600.0

	v := &validate.Validator{}
	v.Custom("priceDiscount", discount >= price, "Discount price should be below regular price")

	require.True(t, v.HasErrors())
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "Discount price should be below regular price", ae.Details[0].Message)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "The Forest Hiker").
		MinLen("name", "The Forest Hiker", 10).
		MaxLen("name", "The Forest Hiker", 40).
		Email("email", "hiker@wander.app").
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
		MinLen("name", "a", 10).        // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

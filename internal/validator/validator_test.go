package validator

import (
	"reflect"
	"strings"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCodeRule(t *testing.T) {
	v := govalidator.New()
	require.NoError(t, v.RegisterValidation("testcode", validateTestCode))

	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{name: "valid uppercase", code: "ABCDEF23", valid: true},
		{name: "lowercase normalized", code: "abcdef23", valid: true},
		{name: "surrounding whitespace", code: " ABCDEF23 ", valid: true},
		{name: "too short", code: "ABCDEF2", valid: false},
		{name: "too long", code: "ABCDEF234", valid: false},
		{name: "ambiguous zero", code: "ABCDEF20", valid: false},
		{name: "ambiguous letter O", code: "ABCDEFO2", valid: false},
		{name: "ambiguous one", code: "ABCDEF21", valid: false},
		{name: "ambiguous letter I", code: "ABCDEFI2", valid: false},
		{name: "punctuation", code: "ABCDEF2!", valid: false},
		{name: "empty", code: "", valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Var(tc.code, "testcode")
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFailedRule(t *testing.T) {
	v := govalidator.New()
	v.SetTagName("binding")
	require.NoError(t, v.RegisterValidation("testcode", validateTestCode))
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	type payload struct {
		TestCode string `json:"test_code" binding:"required,testcode"`
	}

	assert.Equal(t, "required", FailedRule(v.Struct(payload{}), "test_code"))
	assert.Equal(t, "testcode", FailedRule(v.Struct(payload{TestCode: "ab"}), "test_code"))
	assert.Equal(t, "", FailedRule(v.Struct(payload{TestCode: "ab"}), "other_field"))
	assert.Equal(t, "", FailedRule(nil, "test_code"))
	assert.NoError(t, v.Struct(payload{TestCode: "ABCDEF23"}))
}

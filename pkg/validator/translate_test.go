package validator_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

func fakeTranslate(key string, values map[string]any) string {
	catalog := map[string]string{
		"validation.required":   "Query parameter {{field}} is missing.",
		"validation.max_length": "Query parameter {{field}} must be at most {{max}} characters.",
	}
	msg, ok := catalog[key]
	if !ok {
		return key
	}
	for k, v := range values {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", fmt.Sprint(v))
	}
	return msg
}

func TestValidationErrors_Translate(t *testing.T) {
	t.Parallel()

	t.Run("rewrites messages in place", func(t *testing.T) {
		t.Parallel()

		errs := validator.ValidationErrors{
			{Field: "foo", Message: "is required", TranslationKey: "validation.required", TranslationValues: map[string]any{"field": "foo"}},
			{Field: "name", Message: "is too long", TranslationKey: "validation.max_length", TranslationValues: map[string]any{"field": "name", "max": 3}},
		}
		errs.Translate(fakeTranslate)

		assert.Equal(t, "Query parameter foo is missing.", errs[0].Message)
		assert.Equal(t, "Query parameter name must be at most 3 characters.", errs[1].Message)
		assert.Equal(t, "validation.required", errs[0].TranslationKey)
	})

	t.Run("nil translator and empty key are left alone", func(t *testing.T) {
		t.Parallel()

		errs := validator.ValidationErrors{
			{Field: "hello", Message: "custom"},
			{Field: "foo", Message: "is required", TranslationKey: "validation.required"},
		}
		errs.Translate(nil)
		assert.Equal(t, "is required", errs[1].Message)

		errs.Translate(fakeTranslate)
		assert.Equal(t, "custom", errs[0].Message)
	})

	t.Run("works on schema errors", func(t *testing.T) {
		t.Parallel()

		schema := validator.NewSchema(validator.String("foo"))
		_, err := schema.Parse(search.Params{})
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.NotNil(t, ve)
		ve.Translate(fakeTranslate)
		assert.Equal(t, "Query parameter foo is missing.", ve[0].Message)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("username", ""),
			validator.MaxLenString("nickname", "abcdef", 3),
			validator.MinLenString("password", "secret", 4),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"username", "nickname"}, ve.Fields())
		assert.Equal(t, []string{"is required"}, ve.Get("username"))
	})

	t.Run("nil when all pass", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, validator.Apply(validator.RequiredString("username", "tanner")))
	})

	t.Run("wrapped errors are detected", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("navigate: %w", validator.Apply(validator.RequiredString("foo", "")))
		assert.True(t, validator.IsValidationError(err))
		assert.True(t, validator.ExtractValidationErrors(err).Has("foo"))
		assert.False(t, validator.IsValidationError(fmt.Errorf("plain")))
		assert.Nil(t, validator.ExtractValidationErrors(nil))
	})
}

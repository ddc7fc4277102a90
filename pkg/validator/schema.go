package validator

import (
	"github.com/dmitrymomot/routekit/pkg/search"
)

type kind int

const (
	kindString kind = iota
	kindObject
)

// Field describes one key of a search object.
type Field struct {
	name     string
	kind     kind
	optional bool
	def      any
	hasDef   bool
	schema   *Schema
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// Optional allows the key to be absent.
func Optional() FieldOption {
	return func(f *Field) {
		f.optional = true
	}
}

// Default fills the key with v when it is absent.
// A defaulted field is never reported as missing.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.def = v
		f.hasDef = true
	}
}

// String declares a string key. Required unless Optional or Default is set.
func String(name string, opts ...FieldOption) Field {
	f := Field{name: name, kind: kindString}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Object declares a nested object key validated by schema.
func Object(name string, schema *Schema, opts ...FieldOption) Field {
	f := Field{name: name, kind: kindObject, schema: schema}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Schema validates a search object. Keys it does not declare pass through.
type Schema struct {
	fields []Field
}

// NewSchema creates a schema from field declarations.
func NewSchema(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

// Parse validates p and returns a new search with defaults applied.
// p is not modified. Parsing a parsed value returns an equal value.
func (s *Schema) Parse(p search.Params) (search.Params, error) {
	out, errs := s.parse(p, "")
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (s *Schema) parse(p search.Params, prefix string) (search.Params, ValidationErrors) {
	out := p.Clone()
	var errs ValidationErrors
	for _, f := range s.fields {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}

		v, present := p[f.name]
		if !present {
			switch {
			case f.hasDef:
				out[f.name] = f.def
			case f.optional:
			default:
				errs = append(errs, requiredError(path))
			}
			continue
		}

		switch f.kind {
		case kindString:
			if _, ok := v.(string); !ok {
				errs = append(errs, typeError(path, "string"))
			}
		case kindObject:
			nested, ok := search.AsParams(v)
			if !ok {
				errs = append(errs, typeError(path, "object"))
				continue
			}
			if f.schema == nil {
				continue
			}
			parsed, nestedErrs := f.schema.parse(nested, path)
			errs = append(errs, nestedErrs...)
			out[f.name] = parsed
		}
	}
	return out, errs
}

func requiredError(field string) ValidationError {
	return ValidationError{
		Field:             field,
		Message:           "is required",
		TranslationKey:    "validation.required",
		TranslationValues: map[string]any{"field": field},
	}
}

func typeError(field, expected string) ValidationError {
	return ValidationError{
		Field:             field,
		Message:           "must be a " + expected,
		TranslationKey:    "validation." + expected,
		TranslationValues: map[string]any{"field": field},
	}
}

package app

import (
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

// PreSetValue is forced into every search reaching the test route.
const PreSetValue = "preSearchFilters"

// TestSearch validates the test route's search:
// foo required, hello optional, name defaulting to "Sean", preSet required
// and filters an optional {nested} object.
var TestSearch = validator.NewSchema(
	validator.String("foo"),
	validator.String("hello", validator.Optional()),
	validator.String("name", validator.Default("Sean")),
	validator.String("preSet"),
	validator.Object("filters", validator.NewSchema(
		validator.String("nested"),
	), validator.Optional()),
)

// PreSetFilter overwrites preSet regardless of what the caller sent.
var PreSetFilter = search.Force("preSet", PreSetValue)

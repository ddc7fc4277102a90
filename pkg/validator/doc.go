// Package validator validates search params and reports structured errors.
//
// Two layers are provided. Rules are small checks combined with Apply:
//
//	err := validator.Apply(
//		validator.RequiredString("username", username),
//		validator.MaxLenString("username", username, 64),
//	)
//
// Schemas describe the shape of a search object and are used as route
// search validators:
//
//	schema := validator.NewSchema(
//		validator.String("foo"),
//		validator.String("name", validator.Default("Sean")),
//		validator.Object("filters", validator.NewSchema(
//			validator.String("nested"),
//		), validator.Optional()),
//	)
//	validated, err := schema.Parse(params)
//
// Both return ValidationErrors, which carry a translation key and values
// so callers may localize messages with Translate.
package validator

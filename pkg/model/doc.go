// Package model defines the form definition consumed by the validator, the
// state controller and the widgets. A FormDefinition is an ordered list of
// uniquely named fields; each field carries a kind, a required flag, an
// optional default, allowed options and a table of validation rules
// (min/max, minLength/maxLength, pattern) with string parameters so bounds,
// exclusivity flags and expressions survive JSON and YAML round trips.
//
// Definitions are either declared in code with NewDefinition or derived from
// OpenAPI object schemas with NewBuilder. Schema extensions under the
// `x-formflow` namespace steer the builder (kind, widget, label, placeholder,
// uiOnly) and everything else lands in Field.Metadata.
package model

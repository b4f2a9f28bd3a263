// Package openapi converts an OpenAPI component schema into a form
// definition. Documents are parsed with kin-openapi; each property becomes a
// form-group holding a label and the control that fits its type.
//
// The x-formgen-widget extension set to "radio" renders a string enum as a
// radio group instead of a select. x-formgen-label overrides the label and
// x-formgen-order sorts properties, which otherwise appear by name.
package openapi

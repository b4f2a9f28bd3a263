// Package dom is a small in-memory element tree that stands in for the
// browser document. Form components render into it, read native constraint
// validity from it and move focus within it.
//
// Elements are safe for concurrent use. Tree walks copy the child list of
// each node before descending, so no two element locks are ever held at once.
//
// Constraint validation follows the HTML model for the attributes form
// controls use: required, pattern, minlength, maxlength, min, max, step and
// the email, url and number input types. Values are always evaluated; the
// dirty value flag browsers use for length checks is not modelled.
//
// Rendering to HTML goes through templ so trees can be embedded in templ
// pages or written directly.
package dom

// Package definition declares forms as YAML or JSON documents and builds
// them into mounted form components.
//
// A document lists nodes by kind:
//
//	children:
//	  - kind: form-group
//	    required: true
//	    children:
//	      - kind: label
//	        text: Email
//	      - kind: text-input
//	        name: email
//	        type: email
//
// Build mounts the tree under a form.Form and returns a Bound. Values are
// pushed with Bound.Fill or Bound.FillJSON, simulated user input goes
// through Control.Apply, and Bound.Submit runs the form's validation.
package definition

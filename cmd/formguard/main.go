// Command formguard builds forms from YAML or JSON definitions and runs the
// validation components against them.
//
// Usage:
//
//	# Validate a set of values and print a report
//	formguard validate --definition signup.yaml --values values.json
//
//	# Render the form markup, with validation state
//	formguard render --definition signup.yaml --values values.json --validate
//
//	# Fill the form interactively
//	formguard fill --definition signup.yaml
//
//	# Re-validate whenever the definition or the values change
//	formguard watch --definition signup.yaml --values values.json --metrics-addr :9090
//
//	# Turn an OpenAPI schema into a definition
//	formguard import-openapi --source petstore.yaml --schema Pet
package main

func main() {
	Execute()
}

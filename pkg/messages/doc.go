// Package messages turns validation violations into human readable text.
//
// A Catalog holds one pongo2 template per violation. Templates see the
// variables label, violation, minimum, maximum, minlength, maxlength and
// pattern. The English defaults can be replaced entry by entry, either in
// code with WithTemplates or from a YAML file with LoadYAML.
package messages

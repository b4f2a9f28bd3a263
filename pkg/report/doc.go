// Package report summarises a submit of a built definition and encodes the
// summary as text, JSON, YAML or MessagePack.
package report

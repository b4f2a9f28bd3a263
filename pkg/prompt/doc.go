// Package prompt fills a built definition interactively. Each control is
// asked for through a Driver, the form is submitted, and controls that fail
// are asked for again until the form passes or the user aborts.
package prompt

// Package validity defines the validation protocol shared by every form
// component: the results a check can produce, the violations a failed check
// reports, the status each component derives from its latest result, and the
// ordered registry an ancestor uses to collect the checks of its descendants.
//
// The package holds no component logic. Leaves and groups in package form
// implement Action and talk to their ancestors through Manager and Reporter.
package validity

// Package check holds executable properties of the raw primitives. Each
// check runs a primitive against a reference built from the standard
// library and returns a *Violation with a diff when they disagree.
//
// The checks are shared by the package tests and the stress command.
package check

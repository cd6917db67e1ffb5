// Package render walks the segments of a scanned document and draws each one
// onto a surface, running code cells through an evaluator when the document
// is rendered in executable mode.
package render

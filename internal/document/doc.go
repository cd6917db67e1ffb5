// Package document partitions lesson Markdown into typed segments (prose,
// images, alert callouts and fenced code) with a single-pass line scanner, and
// derives the navigation data (table of contents, tab labels, previews) the
// portal needs from the raw text.
package document

// Package portal composes the tutorial site: landing page, sidebar, section
// tabs with previews and executable documents.
package portal

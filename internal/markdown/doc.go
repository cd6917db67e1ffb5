// Package markdown converts lesson prose into HTML with goldmark and strips
// optional YAML frontmatter from lesson sources. Heading anchors follow the
// same slug rules as the document table of contents so TOC links resolve.
package markdown

package interfaces

// MarkdownParser converts prose Markdown into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour. Option names stay
// readable so they can be decoded straight from configuration files.
type ParseOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions"`
	Sanitize   bool     `yaml:"sanitize" json:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode" json:"safe_mode"`
}

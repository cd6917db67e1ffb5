package interfaces

import (
	"context"
	"time"
)

// Asset is a document or auxiliary file resolved from the localized docs tree.
type Asset struct {
	// Path is the slash separated location relative to the docs root.
	Path     string
	Language string
	Content  []byte
	Size     int64
	Modified time.Time
}

// AssetResolver looks up files following the directory-per-language layout.
// Implementations report a missing file with an error wrapping
// assets.ErrAssetNotFound, never with empty content.
type AssetResolver interface {
	Resolve(ctx context.Context, language, folder, filename string) (*Asset, error)
}

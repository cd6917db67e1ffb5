package assets

import (
	"errors"
	"fmt"
)

// ErrAssetNotFound reports a path that does not resolve to a file. An empty
// file is not an error.
var ErrAssetNotFound = errors.New("assets: asset not found")

// NotFoundError carries the language and path that failed to resolve.
type NotFoundError struct {
	Language string
	Path     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("File not found for language: %s. Check the file path. (%s)", e.Language, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrAssetNotFound
}

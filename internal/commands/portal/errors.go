package portalcmd

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/portal"
)

const (
	codeSectionNotFound  = "SECTION_NOT_FOUND"
	codeDocumentNotFound = "DOCUMENT_NOT_FOUND"
	codeAssetNotFound    = "ASSET_NOT_FOUND"
	codeUnknownLanguage  = "UNKNOWN_LANGUAGE"
	codeInvalidCell      = "INVALID_CELL"
)

// categorize tags portal errors with go-errors categories so transports can
// map them without knowing the portal sentinels.
func categorize(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, portal.ErrSectionNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "section not found").WithTextCode(codeSectionNotFound)
	case errors.Is(err, portal.ErrDocumentNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "document not found").WithTextCode(codeDocumentNotFound)
	case errors.Is(err, assets.ErrAssetNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).WithTextCode(codeAssetNotFound)
	case errors.Is(err, i18n.ErrUnknownLanguage):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unknown language").WithTextCode(codeUnknownLanguage)
	case errors.Is(err, portal.ErrInvalidCell):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid cell").WithTextCode(codeInvalidCell)
	}
	return err
}

package portalcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	selectLanguageMessageType = "lessons.portal.select_language"
	resetLanguageMessageType  = "lessons.portal.reset_language"
	toggleDocumentMessageType = "lessons.portal.toggle_document"
	runCellMessageType        = "lessons.portal.run_cell"
	renderDocumentMessageType = "lessons.portal.render_document"
)

func requiredSession(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("lessons.portal.session_required", "session id is required")
	}
	return nil
}

func notBlank(code, message string) validation.Rule {
	return validation.By(func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	})
}

// SelectLanguageCommand completes the landing page for a session.
type SelectLanguageCommand struct {
	SessionID uuid.UUID `json:"session_id"`
	// Language is an English language name or a BCP 47 tag.
	Language string `json:"language"`
}

// Type implements command.Message.
func (SelectLanguageCommand) Type() string { return selectLanguageMessageType }

// Validate ensures the session and language are present.
func (cmd SelectLanguageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SessionID, validation.By(requiredSession)),
		validation.Field(&cmd.Language, validation.Required,
			notBlank("lessons.portal.select_language.language_required", "language is required")),
	)
}

// ResetLanguageCommand sends a session back to the landing page.
type ResetLanguageCommand struct {
	SessionID uuid.UUID `json:"session_id"`
}

// Type implements command.Message.
func (ResetLanguageCommand) Type() string { return resetLanguageMessageType }

// Validate ensures the session is present.
func (cmd ResetLanguageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SessionID, validation.By(requiredSession)),
	)
}

// ToggleDocumentCommand expands or collapses a document tab.
type ToggleDocumentCommand struct {
	SessionID uuid.UUID `json:"session_id"`
	Section   string    `json:"section"`
	Document  string    `json:"document"`
	Expanded  bool      `json:"expanded"`
}

// Type implements command.Message.
func (ToggleDocumentCommand) Type() string { return toggleDocumentMessageType }

// Validate ensures the document address is complete.
func (cmd ToggleDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SessionID, validation.By(requiredSession)),
		validation.Field(&cmd.Section, validation.Required),
		validation.Field(&cmd.Document, validation.Required),
	)
}

// RunCellCommand stores the edited source of a code cell for the next render.
type RunCellCommand struct {
	SessionID uuid.UUID `json:"session_id"`
	Section   string    `json:"section"`
	Document  string    `json:"document"`
	Cell      int       `json:"cell"`
	Source    string    `json:"source"`
}

// Type implements command.Message.
func (RunCellCommand) Type() string { return runCellMessageType }

// Validate ensures the cell address is complete. An empty source is allowed.
func (cmd RunCellCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SessionID, validation.By(requiredSession)),
		validation.Field(&cmd.Section, validation.Required),
		validation.Field(&cmd.Document, validation.Required),
		validation.Field(&cmd.Cell, validation.Min(0)),
	)
}

var errSurfaceRequired = validation.NewError("lessons.portal.render_document.surface_required", "surface is required")

// RenderDocumentCommand draws one document onto Surface outside of any
// session, e.g. from the CLI.
type RenderDocumentCommand struct {
	Language string `json:"language"`
	Section  string `json:"section"`
	Document string `json:"document"`
	// Mode overrides the section mode when set ("static" or "executable").
	Mode    string             `json:"mode,omitempty"`
	HideTOC bool               `json:"hide_toc,omitempty"`
	Surface interfaces.Surface `json:"-"`
	// OnReport receives the render report.
	OnReport func(*render.Report) `json:"-"`
}

// Type implements command.Message.
func (RenderDocumentCommand) Type() string { return renderDocumentMessageType }

// Validate ensures the document address, mode and surface are usable.
func (cmd RenderDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Section, validation.Required),
		validation.Field(&cmd.Document, validation.Required),
		validation.Field(&cmd.Mode, validation.By(func(value any) error {
			if _, err := render.ParseMode(value.(string)); err != nil {
				return validation.NewError("lessons.portal.render_document.mode_invalid", err.Error())
			}
			return nil
		})),
		validation.Field(&cmd.Surface, validation.By(func(value any) error {
			if value == nil {
				return errSurfaceRequired
			}
			return nil
		})),
	)
}

package portalcmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/commands"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	selectLanguageOperation = "portal.select_language"
	resetLanguageOperation  = "portal.reset_language"
	toggleDocumentOperation = "portal.toggle_document"
	runCellOperation        = "portal.run_cell"
	renderDocumentOperation = "portal.render_document"
)

// Service is the portal behaviour the handlers drive.
type Service interface {
	Manifest() *portal.Manifest
	Languages() *i18n.Registry
	SelectLanguage(ctx context.Context, session uuid.UUID, value string) (i18n.Language, error)
	ResetLanguage(ctx context.Context, session uuid.UUID) error
	SetExpanded(ctx context.Context, session uuid.UUID, section, file string, expanded bool) error
	RunCell(ctx context.Context, session uuid.UUID, section, file string, index int, source string) error
	RenderDocument(ctx context.Context, surface interfaces.Surface, lang i18n.Language, section portal.Section, ref portal.DocumentRef, opts render.Options) (*render.Report, error)
}

var (
	_ command.Commander[SelectLanguageCommand] = (*commands.Handler[SelectLanguageCommand])(nil)
	_ command.Commander[RenderDocumentCommand] = (*commands.Handler[RenderDocumentCommand])(nil)
)

// NewSelectLanguageHandler stores the session language.
func NewSelectLanguageHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[SelectLanguageCommand]) *commands.Handler[SelectLanguageCommand] {
	exec := func(ctx context.Context, msg SelectLanguageCommand) error {
		_, err := service.SelectLanguage(ctx, msg.SessionID, msg.Language)
		return categorize(err)
	}
	return commands.NewHandler(exec, handlerOptions(logger, selectLanguageOperation, opts)...)
}

// NewResetLanguageHandler returns a session to the landing page.
func NewResetLanguageHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ResetLanguageCommand]) *commands.Handler[ResetLanguageCommand] {
	exec := func(ctx context.Context, msg ResetLanguageCommand) error {
		return categorize(service.ResetLanguage(ctx, msg.SessionID))
	}
	return commands.NewHandler(exec, handlerOptions(logger, resetLanguageOperation, opts)...)
}

// NewToggleDocumentHandler expands or collapses a document tab.
func NewToggleDocumentHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ToggleDocumentCommand]) *commands.Handler[ToggleDocumentCommand] {
	exec := func(ctx context.Context, msg ToggleDocumentCommand) error {
		return categorize(service.SetExpanded(ctx, msg.SessionID, msg.Section, msg.Document, msg.Expanded))
	}
	return commands.NewHandler(exec, handlerOptions(logger, toggleDocumentOperation, opts)...)
}

// NewRunCellHandler stores an edited cell source.
func NewRunCellHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[RunCellCommand]) *commands.Handler[RunCellCommand] {
	exec := func(ctx context.Context, msg RunCellCommand) error {
		return categorize(service.RunCell(ctx, msg.SessionID, msg.Section, msg.Document, msg.Cell, msg.Source))
	}
	return commands.NewHandler(exec, handlerOptions(logger, runCellOperation, opts)...)
}

// NewRenderDocumentHandler draws a document onto the command's surface.
func NewRenderDocumentHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentCommand]) *commands.Handler[RenderDocumentCommand] {
	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		lang := service.Languages().Default()
		if msg.Language != "" {
			found, err := service.Languages().Find(msg.Language)
			if err != nil {
				return categorize(err)
			}
			lang = found
		}
		section, ref, err := service.Manifest().Lookup(msg.Section, msg.Document)
		if err != nil {
			return categorize(err)
		}
		mode := section.RenderMode()
		if msg.Mode != "" {
			if mode, err = render.ParseMode(msg.Mode); err != nil {
				return err
			}
		}
		report, err := service.RenderDocument(ctx, msg.Surface, lang, section, ref, render.Options{
			Mode:    mode,
			HideTOC: msg.HideTOC,
		})
		if err != nil {
			return categorize(err)
		}
		if msg.OnReport != nil {
			msg.OnReport(report)
		}
		return nil
	}
	return commands.NewHandler(exec, handlerOptions(logger, renderDocumentOperation, opts)...)
}

func handlerOptions[T command.Message](logger interfaces.Logger, operation string, extra []commands.HandlerOption[T]) []commands.HandlerOption[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
	}
	return append(opts, extra...)
}

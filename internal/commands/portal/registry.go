package portalcmd

import (
	"errors"

	"github.com/goliatone/go-lessons/internal/commands"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// CommandRegistry is the registration contract handlers are offered to.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the portal command handlers.
type HandlerSet struct {
	SelectLanguage *commands.Handler[SelectLanguageCommand]
	ResetLanguage  *commands.Handler[ResetLanguageCommand]
	ToggleDocument *commands.Handler[ToggleDocumentCommand]
	RunCell        *commands.Handler[RunCellCommand]
	RenderDocument *commands.Handler[RenderDocumentCommand]
}

// RegisterPortalCommands builds the portal handlers and registers them with
// reg when it is not nil.
func RegisterPortalCommands(reg CommandRegistry, service Service, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("portal command registration: service is nil")
	}
	logger := commands.CommandLogger(provider, "portal")

	set := &HandlerSet{
		SelectLanguage: NewSelectLanguageHandler(service, logger),
		ResetLanguage:  NewResetLanguageHandler(service, logger),
		ToggleDocument: NewToggleDocumentHandler(service, logger),
		RunCell:        NewRunCellHandler(service, logger),
		RenderDocument: NewRenderDocumentHandler(service, logger),
	}

	if reg != nil {
		for _, handler := range []any{set.SelectLanguage, set.ResetLanguage, set.ToggleDocument, set.RunCell, set.RenderDocument} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	rootModule      = "lessons"
	renderModule    = "lessons.render"
	evaluatorModule = "lessons.evaluator"
	portalModule    = "lessons.portal"
	httpModule      = "lessons.http"
	assetsModule    = "lessons.assets"
	uistateModule   = "lessons.uistate"
)

const (
	fieldLanguage = "language"
	fieldFolder   = "folder"
	fieldDocument = "document"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil. The module name is attached as a field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RenderLogger returns the logger for the rendering dispatcher.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// EvaluatorLogger returns the logger for code evaluators.
func EvaluatorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, evaluatorModule)
}

// PortalLogger returns the logger for the portal service.
func PortalLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, portalModule)
}

// HTTPLogger returns the logger for the HTTP transport.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// AssetsLogger returns the logger for asset resolution and watching.
func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

// UIStateLogger returns the logger for the UI-state store.
func UIStateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, uistateModule)
}

// WithDocumentContext attaches the language, folder and file of the document
// being handled. Empty values are skipped.
func WithDocumentContext(logger interfaces.Logger, language, folder, filename string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		fields[fieldLanguage] = trimmed
	}
	if trimmed := strings.TrimSpace(folder); trimmed != "" {
		fields[fieldFolder] = trimmed
	}
	if trimmed := strings.TrimSpace(filename); trimmed != "" {
		fields[fieldDocument] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

package evaluator

import (
	"context"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Disabled never runs code. The dispatcher renders cells read-only when it
// sees this capability.
type Disabled struct{}

var _ interfaces.Evaluator = Disabled{}

func (Disabled) Capability() interfaces.Capability { return interfaces.CapabilityDisabled }

func (Disabled) Evaluate(context.Context, string, *interfaces.Namespace) interfaces.Evaluation {
	return interfaces.Evaluation{}
}

func (Disabled) ClearFigures(ns *interfaces.Namespace) {
	if ns != nil {
		ns.ResetFigures()
	}
}

// CanExecute reports whether e will actually run cell source.
func CanExecute(e interfaces.Evaluator) bool {
	return e != nil && e.Capability() != interfaces.CapabilityDisabled
}

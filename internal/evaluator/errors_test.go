package evaluator

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindRuntime, Message: "undefined: y"}, "Error: undefined: y"},
		{&Error{Kind: KindSyntax, Message: "got newline, want primary expression", Line: 2}, "Syntax Error: line 2: got newline, want primary expression"},
		{&Error{Kind: KindSyntax, Message: "bad"}, "Syntax Error: bad"},
		{&Error{Kind: KindCancelled, Message: "context canceled"}, "Cancelled: context canceled"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestCancelledCarriesCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Cancelled(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled cause, got %v", err.Cause)
	}
	if !IsCancelled(err) {
		t.Fatalf("expected IsCancelled to detect %v", err)
	}
	if IsCancelled(&Error{Kind: KindRuntime}) {
		t.Fatalf("runtime error reported as cancelled")
	}
}

func TestClassifyWrapsOnce(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
	wrapped := Classify(&Error{Kind: KindRuntime, Message: "boom"})
	if !goerrors.IsCategory(wrapped, goerrors.CategoryOperation) {
		t.Fatalf("expected operation category, got %v", wrapped)
	}
	if again := Classify(wrapped); again != wrapped {
		t.Fatalf("expected already wrapped error to be returned unchanged")
	}
}

func TestDisabledEvaluator(t *testing.T) {
	ns := interfaces.NewNamespace()
	ns.AddFigure(interfaces.Figure{Kind: interfaces.FigureLine})

	var e Disabled
	if CanExecute(e) {
		t.Fatalf("disabled evaluator must not execute")
	}
	result := e.Evaluate(context.Background(), "x = 1", ns)
	if result.Stdout != "" || result.Err != nil || len(result.Figures) != 0 {
		t.Fatalf("expected empty evaluation, got %+v", result)
	}
	if ns.Len() != 0 {
		t.Fatalf("disabled evaluator mutated namespace: %v", ns.Names())
	}
	e.ClearFigures(ns)
	if len(ns.Figures()) != 0 {
		t.Fatalf("expected figures cleared")
	}
	if CanExecute(nil) {
		t.Fatalf("nil evaluator must not execute")
	}
}

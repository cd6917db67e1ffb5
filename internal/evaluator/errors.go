package evaluator

import (
	"context"
	"errors"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind classifies a failed cell run.
type ErrorKind string

const (
	KindSyntax    ErrorKind = "syntax"
	KindRuntime   ErrorKind = "runtime"
	KindCancelled ErrorKind = "cancelled"
)

const evaluationErrorCode = "EVALUATION_ERROR"

// Error is the error an evaluator attaches to interfaces.Evaluation when the
// evaluated code raised. Line is 1-based and zero when unknown.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Cause   error
}

func (e *Error) Error() string {
	prefix := "Error: "
	switch e.Kind {
	case KindSyntax:
		prefix = "Syntax Error: "
	case KindCancelled:
		prefix = "Cancelled: "
	}
	if e.Line > 0 && e.Kind == KindSyntax {
		return prefix + "line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return prefix + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Cancelled builds the error reported when ctx stops an evaluation.
func Cancelled(ctx context.Context) *Error {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	return &Error{Kind: KindCancelled, Message: cause.Error(), Cause: cause}
}

// IsCancelled reports whether err came from a cancelled evaluation.
func IsCancelled(err error) bool {
	var evalErr *Error
	return errors.As(err, &evalErr) && evalErr.Kind == KindCancelled
}

// Classify wraps a cell failure as an operation error so callers at the
// command and HTTP boundary can report it by category.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryOperation, "code cell evaluation failed").
		WithTextCode(evaluationErrorCode)
}

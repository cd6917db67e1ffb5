package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/validation"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Code    string                       `json:"code,omitempty"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func wantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	resp := errorResponse{Message: err.Error()}
	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) && wrapped != nil {
		resp.Code = wrapped.TextCode
	}

	switch {
	case errors.Is(err, portal.ErrLanguageNotSelected):
		resp.Error = "language_not_selected"
		return http.StatusConflict, resp
	case goerrors.IsCategory(err, goerrors.CategoryNotFound),
		errors.Is(err, portal.ErrSectionNotFound),
		errors.Is(err, portal.ErrDocumentNotFound):
		resp.Error = "not_found"
		return http.StatusNotFound, resp
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		resp.Error = "validation_failed"
		resp.Issues = validation.Issues(err)
		if errors.Is(err, validation.ErrSchemaValidation) {
			return http.StatusUnprocessableEntity, resp
		}
		resp.Issues = nil
		return http.StatusBadRequest, resp
	case goerrors.IsCategory(err, goerrors.CategoryCommand):
		resp.Error = "command_failed"
		return http.StatusInternalServerError, resp
	}

	resp.Error = "internal_error"
	return http.StatusInternalServerError, resp
}

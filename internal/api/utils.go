package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

type errorBody struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error"`
	Details   []types.FieldError `json:"details,omitempty"`
	RequestID string             `json:"request_id"`
}

// ErrorResponse writes a JSON error carrying the request ID.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, errorBody{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// ValidationErrorResponse writes a 400 response listing every rejected parameter.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, perr *types.ParamsError) {
	WriteJSONResponse(w, r, http.StatusBadRequest, errorBody{
		Error:     types.ErrInvalidParams.Error(),
		Details:   perr.Details,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// WriteJSONResponse marshals data before touching the response, so an
// encoding failure still produces a plain 500.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody decodes one JSON object from a request body capped at
// maxBytes. Unknown keys are rejected. Every failure is reported as an
// *types.InputError so handlers can answer 400 directly.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &types.InputError{Index: -1, Reason: bodyErrorReason(err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &types.InputError{Index: -1, Reason: "body must only contain a single JSON object"}
	}
	return nil
}

func bodyErrorReason(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("body must not be larger than %d bytes", maxBytesErr.Limit)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body contains badly-formed JSON"
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("body contains incorrect JSON type for field %q", typeErr.Field)
		}
		return "body must be a JSON object"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "body contains unknown key " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "body could not be decoded"
	}
}

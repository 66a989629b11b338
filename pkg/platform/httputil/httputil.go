// Package httputil writes JSON responses and translates domain errors into
// the error envelope clients see.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "census/pkg/domain-errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// genericInternalMessage replaces internal error messages so driver and
// infrastructure detail never reaches clients.
const genericInternalMessage = "internal server error"

// FieldErrors is implemented by errors that carry per-field detail.
type FieldErrors interface {
	error
	Fields() map[string][]string
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// DataResponse wraps successful payloads.
type DataResponse struct {
	Data any `json:"data"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData encodes v inside a {"data": ...} envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, DataResponse{Data: v})
}

// WriteError maps err to a status and error body. Errors without a domain
// code are treated as internal.
func WriteError(w http.ResponseWriter, err error) {
	status, body := ErrorBody(err)
	WriteJSON(w, status, body)
}

// ErrorBody computes the status and body WriteError would send.
func ErrorBody(err error) (int, ErrorResponse) {
	de, ok := dErrors.As(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Message: genericInternalMessage}
	}
	status := dErrors.ToHTTPStatus(de.Code)
	if status >= http.StatusInternalServerError {
		return status, ErrorResponse{Message: publicMessage(de)}
	}
	body := ErrorResponse{Message: de.Message}
	var fe FieldErrors
	if errors.As(err, &fe) {
		body.Errors = fe.Fields()
	}
	return status, body
}

func publicMessage(de *dErrors.Error) string {
	if de.Code == dErrors.CodeTimeout {
		return de.Message
	}
	return genericInternalMessage
}

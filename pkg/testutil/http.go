// Package testutil holds helpers shared by handler, service and integration
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestIDHeader mirrors the header the request id middleware honours.
const requestIDHeader = "X-Request-ID"

func newRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, TestRequestID)
	return req
}

// NewJSONRequest marshals body and builds a request carrying TestRequestID.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return newRequest(method, path, nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err, "failed to marshal request body")
	return newRequest(method, path, bytes.NewReader(raw))
}

// NewRequest builds a bodyless request.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return newRequest(method, path, nil)
}

// NewRequestWithBody sends body verbatim, for payloads that are not valid
// JSON or must keep exact formatting.
func NewRequestWithBody(t *testing.T, method, path string, body string) *http.Request {
	t.Helper()
	return newRequest(method, path, strings.NewReader(body))
}

// DoRequest executes a request against a handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalData decodes the "data" member of a success response.
func UnmarshalData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "failed to unmarshal response")
	return envelope.Data
}

// AssertStatusAndMessage asserts the status code and the error message.
func AssertStatusAndMessage(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code, "unexpected status code")
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "failed to unmarshal error response")
	assert.Equal(t, expectedMessage, body.Message, "unexpected error message")
}

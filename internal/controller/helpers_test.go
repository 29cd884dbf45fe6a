package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func createRequest(method, endpoint string, payload any) *http.Request {
	if payload == nil {
		return httptest.NewRequest(method, endpoint, nil)
	}

	jsonBytes, _ := json.Marshal(payload)
	return httptest.NewRequest(method, endpoint, bytes.NewBuffer(jsonBytes))
}

func createInvalidJSONRequest(method, endpoint string) *http.Request {
	return httptest.NewRequest(method, endpoint, bytes.NewBufferString(`invalid-json`))
}

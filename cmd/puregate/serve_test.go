package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/diag"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := &server{
		validator: puregate.New(),
		engine:    style.NewEngine(),
		logger:    zerolog.Nop(),
		jobs:      2,
	}
	ts := httptest.NewServer(newRouter(s))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp, raw
}

type reportBody struct {
	Valid    bool              `json:"valid"`
	Errors   []diag.Diagnostic `json:"errors"`
	Warnings []diag.Diagnostic `json:"warnings"`
}

func TestServeValidate(t *testing.T) {
	ts := newTestServer(t)
	resp, raw := post(t, ts, "/v1/validate", `{"source": "console.log(1);", "filename": "gen.js"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report reportBody
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "console.log", report.Errors[0].Rule)
	assert.Equal(t, "gen.js", report.Errors[0].Location.File)

	_, raw = post(t, ts, "/v1/validate", `{"source": "var a = 1;\nmodule.exports = a;", "rules": {"no-var": "warn"}}`)
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.True(t, report.Valid)
	assert.Len(t, report.Warnings, 1)
}

func TestRequestRulesOverrideConfigured(t *testing.T) {
	base := style.Config{"no-var": style.Off, "eqeqeq": style.Error}
	req := validateRequest{Source: "var a = 1;\nmodule.exports = a == 1;", Rules: map[string]string{"eqeqeq": "warn"}}
	opts, err := req.options(base)
	require.NoError(t, err)

	report := puregate.New().Validate(context.Background(), req.Source, opts...)
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "eqeqeq", report.Warnings[0].Rule)
}

func TestServeBadRequests(t *testing.T) {
	ts := newTestServer(t)
	for _, body := range []string{
		`{"source": `,
		`{"source": "1;", "colour": true}`,
		`{"source": "1;", "rules": {"no-var": "loud"}}`,
		`{"source": "1;", "convention": "amd"}`,
	} {
		resp, raw := post(t, ts, "/v1/validate", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		var e errorResponse
		require.NoError(t, json.Unmarshal(raw, &e))
		assert.NotEmpty(t, e.Error)
	}

	resp, _ := post(t, ts, "/v1/batch", `{"inputs": [{"source": "1;"}, {"source": "1;", "convention": "amd"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeSyntax(t *testing.T) {
	ts := newTestServer(t)
	_, raw := post(t, ts, "/v1/syntax", `{"source": "const = ;"}`)
	var stage struct {
		Valid       bool              `json:"valid"`
		Diagnostics []diag.Diagnostic `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(raw, &stage))
	assert.False(t, stage.Valid)
	require.NotEmpty(t, stage.Diagnostics)
	assert.Equal(t, diag.Syntax, stage.Diagnostics[0].Category)
}

func TestServeBatch(t *testing.T) {
	ts := newTestServer(t)
	_, raw := post(t, ts, "/v1/batch", `{"inputs": [{"source": "module.exports = 1;"}, {"source": "const x = ;"}]}`)
	var reports []reportBody
	require.NoError(t, json.Unmarshal(raw, &reports))
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Valid)
	assert.False(t, reports[1].Valid)
}

func TestServeRulesAndHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/rules")
	require.NoError(t, err)
	defer resp.Body.Close()
	var listing ruleListing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, "timer", listing.Identifiers["setTimeout"])

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	missing, err := http.Get(ts.URL + "/v1/nothing")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestListenShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- listen(ctx, "127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

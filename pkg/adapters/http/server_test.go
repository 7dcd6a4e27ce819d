package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/control"
	adapter "github.com/aretw0/cadence/pkg/adapters/http"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docs = map[string]string{
	"fade": `
id: fade
params:
  time: {type: timing, default: 300ms}
steps:
  - style: {opacity: 0}
  - animate: {timings: "{{ time }}", style: {opacity: 1}}
`,
	"panel": `
id: panel
trigger:
  name: panel
  states:
    - {name: closed, style: {height: 0px}}
    - {name: open, style: {height: 100px}}
  transitions:
    - expr: closed <=> open
      steps:
        - animate: {timings: 200ms}
`,
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	metrics := observability.NewMetrics(nil)
	queue := scheduler.NewQueue()
	eng, err := cadence.New("",
		cadence.WithQueue(queue),
		cadence.WithDriver(mock.NewDriver(mock.WithScheduler(queue))),
		cadence.WithLoader(memory.NewLoader(docs)),
		cadence.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)
	_, err = eng.LoadAll(context.Background())
	require.NoError(t, err)

	box := mock.NewElement("div")
	resolve := func(selector string) (domain.Element, error) {
		if selector == "" || selector == "#box" {
			return box, nil
		}
		return nil, errors.New("unknown selector")
	}

	h, err := adapter.NewHandler(control.New(eng, resolve), adapter.WithMetrics(metrics.Handler()))
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.Header.Get("Content-Type") == "application/json" {
		var v any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
		if m, ok := v.(map[string]any); ok {
			out = m
		} else {
			out["items"] = v
		}
	}
	return resp, out
}

func TestServer_Definitions(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, srv, http.MethodGet, "/definitions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "fade", items[0].(map[string]any)["id"])
	assert.NotEmpty(t, resp.Header.Get(adapter.RequestIDHeader))

	resp, _ = do(t, srv, http.MethodPost, "/definitions/fade/reload", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/definitions/ghost/reload", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PlayerLifecycle(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodPost, "/animations/fade/player", `{"selector": "#box", "params": {"time": "1s"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, 1000.0, body["total_time"])

	resp, _ = do(t, srv, http.MethodPost, "/animations/fade/player/commands", `{"command": "play"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/animations/fade/player/commands", `{"command": "explode"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["request_id"])

	resp, _ = do(t, srv, http.MethodDelete, "/animations/fade/player", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = do(t, srv, http.MethodDelete, "/animations/fade/player", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "unable to find the timeline player referenced by fade")

	resp, _ = do(t, srv, http.MethodPost, "/animations/fade/player", `{"selector": "#other"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/animations/fade/player", `{"params": {"time": "soon"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "not a valid timing value")
}

func TestServer_Timeline(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, srv, http.MethodGet, "/animations/fade/timeline?selector=%23box", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	instructions := body["instructions"].([]any)
	require.Len(t, instructions, 1)
	assert.Equal(t, 300.0, instructions[0].(map[string]any)["duration"])
}

func TestServer_Triggers(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodPut, "/triggers/panel/state", `{"selector": "#box", "state": "closed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPut, "/triggers/panel/state", `{"selector": "#box", "state": "open"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "closed", body["previous"])
	assert.Equal(t, 200.0, body["total_time"])

	resp, body = do(t, srv, http.MethodGet, "/triggers/panel/state?selector=%23box", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "open", body["state"])

	resp, _ = do(t, srv, http.MethodPut, "/triggers/panel/state", `{"selector": "#box"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "state is required")

	resp, _ = do(t, srv, http.MethodPut, "/triggers/ghost/state", `{"state": "open"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RoutingAndMetrics(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/flush", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/animations/fade/player", `{}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw := new(strings.Builder)
	_, err = io.Copy(raw, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "cadence_")

	resp, err = http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	latticehttp "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/def"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ latticehttp.Engine = (*def.Machine)(nil)

const turnstileYAML = `
name: turnstile
initial: locked
transitions:
  - from: locked
    on: coin
    to: unlocked
  - from: unlocked
    on: push
    to: locked
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	definition, err := def.Parse([]byte(turnstileYAML))
	require.NoError(t, err)

	machine, err := definition.Build(registry.New())
	require.NoError(t, err)

	ts := httptest.NewServer(latticehttp.NewHandler(machine))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_StateAndDispatch(t *testing.T) {
	ts := newTestServer(t)

	var state map[string]any
	getJSON(t, ts.URL+"/state", &state)
	assert.Equal(t, "locked", state["state"])

	payload, _ := json.Marshal(latticehttp.DispatchRequest{Event: "coin"})
	resp, err := http.Post(ts.URL+"/dispatch", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out latticehttp.DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Result)
	assert.Equal(t, "unlocked", out.State)
}

func TestServer_DispatchNoTransition(t *testing.T) {
	ts := newTestServer(t)

	// push has no edge out of locked, but the event itself is known.
	payload, _ := json.Marshal(latticehttp.DispatchRequest{Event: "push"})
	resp, err := http.Post(ts.URL+"/dispatch", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out latticehttp.DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "no_transition", out.Result)
	assert.Equal(t, "locked", out.State)
}

func TestServer_DispatchUnknownEvent(t *testing.T) {
	ts := newTestServer(t)

	payload, _ := json.Marshal(latticehttp.DispatchRequest{Event: "kick"})
	resp, err := http.Post(ts.URL+"/dispatch", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Events(t *testing.T) {
	ts := newTestServer(t)

	var body map[string][]string
	getJSON(t, ts.URL+"/events", &body)
	assert.ElementsMatch(t, []string{"coin", "push"}, body["events"])
}

func TestServer_Graph(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/graph")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph FSM")
	assert.Contains(t, string(data), `"locked" -> "unlocked" [label="coin"];`)

	resp2, err := http.Get(ts.URL + "/graph?format=mermaid")
	require.NoError(t, err)
	defer resp2.Body.Close()

	data2, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data2), "graph LR")

	resp3, err := http.Get(ts.URL + "/graph?format=png")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

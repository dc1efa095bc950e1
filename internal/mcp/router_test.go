// mcp/router_test.go

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChooser struct {
	out    string
	err    error
	called int
}

func (f *fakeChooser) Complete(_ context.Context, _, _ string) (string, error) {
	f.called++
	return f.out, f.err
}

// echoTool membalas nama tool + body yang diterima.
func echoTool(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		writeJSON(w, http.StatusOK, map[string]any{"tool": name, "method": r.Method, "body": body})
	}
}

func registerCatalog(t *testing.T) {
	t.Helper()
	defs, err := LoadToolDefs()
	require.NoError(t, err)
	for _, d := range defs {
		RegisterFunc(d.Name, echoTool(d.Name))
	}
}

type routed struct {
	Tool   string         `json:"tool"`
	Method string         `json:"method"`
	Body   map[string]any `json:"body"`
}

func route(t *testing.T, body string) (*httptest.ResponseRecorder, routed) {
	t.Helper()
	rec := httptest.NewRecorder()
	RouterHandler(rec, httptest.NewRequest(http.MethodPost, "/mcp/route", bytes.NewBufferString(body)))
	var out routed
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestCatalogIsValid(t *testing.T) {
	defs, err := LoadToolDefs()
	require.NoError(t, err)
	require.Len(t, defs, 10)
	seen := map[string]bool{}
	for _, d := range defs {
		assert.False(t, seen[d.Name], "duplicate %s", d.Name)
		seen[d.Name] = true
		assert.NotEmpty(t, d.Description)
		assert.True(t, json.Valid(d.InputSchema), d.Name)
	}
	assert.True(t, seen[DefaultTool])
}

func TestVerifyCatalog(t *testing.T) {
	registerCatalog(t)
	assert.NoError(t, VerifyCatalog())
}

func TestRouteExplicitTool(t *testing.T) {
	registerCatalog(t)
	rec, out := route(t, `{"tool":"get_timeseries","params":{"networks":["CTF-A"],"metric":"oil"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "get_timeseries", out.Tool)
	assert.Equal(t, http.MethodPost, out.Method)
	assert.Equal(t, "oil", out.Body["metric"])
	assert.Equal(t, DecisionExplicit, rec.Header().Get("X-MCP-Decision"))
}

func TestRouteKeyword(t *testing.T) {
	registerCatalog(t)
	cases := map[string]string{
		"export the series to csv":               "export_timeseries",
		"any anomalies in gas?":                  "detect_anomalies",
		"show the well heatmap":                  "get_well_heatmap",
		"radar per measurement point":            "get_measurement_radar",
		"peta sumur":                             "get_well_map",
		"how many flowing wells":                 "get_well_status",
		"monthly trend for CTF-B":                "get_timeseries",
		"which network has the largest volumes?": "get_network_volumes",
		"produksi harian W-1":                    "get_production",
	}
	for q, want := range cases {
		body, _ := json.Marshal(map[string]any{"params": map[string]any{"question": q}})
		rec, out := route(t, string(body))
		require.Equal(t, http.StatusOK, rec.Code, q)
		assert.Equal(t, want, out.Tool, q)
		assert.Equal(t, DecisionKeyword, rec.Header().Get("X-MCP-Decision"), q)
		assert.Equal(t, q, out.Body["question"], q)
	}
}

func TestRouteLLMThenDefault(t *testing.T) {
	registerCatalog(t)
	fc := &fakeChooser{out: "  Get_Well_Map.\n"}
	SetChooser(fc)
	t.Cleanup(func() { SetChooser(nil) })

	rec, out := route(t, `{"question":"where do we stand?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "get_well_map", out.Tool)
	assert.Equal(t, DecisionLLM, rec.Header().Get("X-MCP-Decision"))
	assert.Equal(t, 1, fc.called)

	fc.out = "no_such_tool"
	rec, out = route(t, `{"question":"where do we stand?"}`)
	assert.Equal(t, DefaultTool, out.Tool)
	assert.Equal(t, DecisionDefault, rec.Header().Get("X-MCP-Decision"))

	fc.err = errors.New("boom")
	_, out = route(t, `{"question":"where do we stand?"}`)
	assert.Equal(t, DefaultTool, out.Tool)
}

func TestRouteDefaultWithoutQuestion(t *testing.T) {
	registerCatalog(t)
	rec, out := route(t, ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultTool, out.Tool)
	assert.Equal(t, DecisionDefault, rec.Header().Get("X-MCP-Decision"))
}

func TestRouteErrors(t *testing.T) {
	registerCatalog(t)
	rec, _ := route(t, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = route(t, `{"params":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = route(t, `{"tool":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "tool not found: nope")
}

func TestToolsHandler(t *testing.T) {
	registerCatalog(t)
	rec := httptest.NewRecorder()
	ToolsHandler(rec, httptest.NewRequest(http.MethodGet, "/mcp/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Tools      []ToolDef `json:"tools"`
		Registered []string  `json:"registered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Tools, 10)
	assert.Contains(t, out.Registered, "get_production")
}

func TestSanitizeToolToken(t *testing.T) {
	assert.Equal(t, "get_timeseries", sanitizeToolToken(" `get_timeseries`. "))
	assert.Contains(t, buildChooserUserPrompt("q", []ToolDef{{Name: "a", Description: "b"}}), "1) a: b")
}

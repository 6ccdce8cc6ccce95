package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexislab/patchbay/internal/dto"
	"github.com/hexislab/patchbay/pkg/adapters/memory"
	"github.com/hexislab/patchbay/pkg/edge"
	"github.com/hexislab/patchbay/pkg/factory"
	"github.com/hexislab/patchbay/pkg/graph"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/observability"
	"github.com/hexislab/patchbay/pkg/registry"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()

	types := edge.NewRegistry()
	edge.RegisterType[int](types, "int")
	reg := registry.New(types)

	store, err := memory.NewFromDefinitions(
		&graphdef.Definition{Name: "alpha", Nodes: []graphdef.NodeDef{
			{Name: "emit", Kind: "sample.pulse"},
			{Name: "total", Kind: "sample.add", Inputs: []graphdef.InputDef{
				{Node: "emit", Output: "value"},
				{Value: graphdef.Value(3)},
			}},
		}},
		&graphdef.Definition{Name: "beta", Nodes: []graphdef.NodeDef{
			{Name: "emit", Kind: "sample.pulse"},
		}},
	)
	require.NoError(t, err)

	return NewHandler(factory.New(store, reg), opts...)
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := get(t, newTestHandler(t), "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestListGraphs(t *testing.T) {
	rr := get(t, newTestHandler(t), "/v1/graphs")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp dto.GraphList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"alpha", "beta"}, resp.Graphs)
}

func TestGetGraph(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("Topology", func(t *testing.T) {
		rr := get(t, handler, "/v1/graphs/alpha")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var resp dto.Graph
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "alpha", resp.Name)
		require.Len(t, resp.Nodes, 2)

		assert.Equal(t, 0, resp.Nodes[0].ID)
		assert.Equal(t, "emit", resp.Nodes[0].Name)
		assert.Equal(t, "sample.pulse", resp.Nodes[0].Kind)
		assert.Empty(t, resp.Nodes[0].Inputs)

		total := resp.Nodes[1]
		require.Len(t, total.Inputs, 2)
		assert.Equal(t, "emit", total.Inputs[0].Node)
		assert.Equal(t, "value", total.Inputs[0].Output)
		assert.False(t, total.Inputs[0].Pinned)
		assert.True(t, total.Inputs[1].Pinned)
		assert.EqualValues(t, 3, total.Inputs[1].Value)
	})

	t.Run("Unknown Graph", func(t *testing.T) {
		rr := get(t, handler, "/v1/graphs/missing")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp dto.Error
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "missing")
	})
}

func TestGetMermaid(t *testing.T) {
	handler := newTestHandler(t)

	rr := get(t, handler, "/v1/graphs/alpha/mermaid")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "graph TD")
	assert.Contains(t, rr.Body.String(), `emit -- "value" --> total`)

	rr = get(t, handler, "/v1/graphs/missing/mermaid")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetStats(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		rr := get(t, newTestHandler(t), "/v1/stats")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Snapshot", func(t *testing.T) {
		types := edge.NewRegistry()
		sig := graph.NewSignature(types, "sample", "pulse", nil)

		agg := observability.NewAggregator()
		hooks := agg.Hooks()
		hooks.OnNodeExecute(0, sig, time.Millisecond)
		hooks.OnPassEnd(1, 1, 5*time.Millisecond)
		hooks.OnBroadcast(graph.NewEvent("tick"))

		rr := get(t, newTestHandler(t, WithStats(agg)), "/v1/stats")
		assert.Equal(t, http.StatusOK, rr.Code)

		var snap observability.Snapshot
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
		assert.Equal(t, uint64(1), snap.Passes)
		assert.Equal(t, 5*time.Millisecond, snap.LastPass)
		assert.Equal(t, uint64(1), snap.NodeExecutions["sample.pulse"])
		assert.Equal(t, uint64(1), snap.Events["tick"])
	})
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestHandler(t)
	req, err := http.NewRequest(http.MethodOptions, "/v1/graphs", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

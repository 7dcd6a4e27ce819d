package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/control"
	"github.com/aretw0/cadence/pkg/adapters/mcp"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docs = map[string]string{
	"fade": `
id: fade
steps:
  - style: {opacity: 0}
  - animate: {timings: 400ms, style: {opacity: 1}}
`,
	"panel": `
id: panel
trigger:
  name: panel
  states:
    - {name: closed, style: {height: 0px}}
    - {name: open, style: {height: 100px}}
  transitions:
    - expr: "* => open"
      steps:
        - animate: {timings: 150ms}
`,
}

func newServer(t *testing.T) *mcp.Server {
	t.Helper()
	queue := scheduler.NewQueue()
	eng, err := cadence.New("",
		cadence.WithQueue(queue),
		cadence.WithDriver(mock.NewDriver(mock.WithScheduler(queue))),
		cadence.WithLoader(memory.NewLoader(docs)),
	)
	require.NoError(t, err)
	_, err = eng.LoadAll(context.Background())
	require.NoError(t, err)

	box := mock.NewElement("div")
	return mcp.NewServer(control.New(eng, func(selector string) (domain.Element, error) {
		if selector == "" || selector == "#box" {
			return box, nil
		}
		return nil, errors.New("unknown selector")
	}))
}

type toolResult struct {
	IsError           bool            `json:"isError"`
	StructuredContent json.RawMessage `json:"structuredContent"`
	Content           []struct {
		Text string `json:"text"`
	} `json:"content"`
}

var nextID int

func call(t *testing.T, s *mcp.Server, tool string, args map[string]any) toolResult {
	t.Helper()
	nextID++
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      nextID,
		"method":  "tools/call",
		"params":  map[string]any{"name": tool, "arguments": args},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), msg))
	require.NoError(t, err)
	var resp struct {
		Result *toolResult     `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.NotNil(t, resp.Result, fmt.Sprintf("rpc error: %s", resp.Error))
	return *resp.Result
}

func TestServer_ListDefinitions(t *testing.T) {
	s := newServer(t)
	res := call(t, s, "list_definitions", nil)
	require.False(t, res.IsError)

	var list mcp.DefinitionList
	require.NoError(t, json.Unmarshal(res.StructuredContent, &list))
	require.Len(t, list.Definitions, 2)
	assert.Equal(t, "fade", list.Definitions[0].ID)
	assert.Equal(t, "trigger", list.Definitions[1].Kind)
}

func TestServer_PlayerTools(t *testing.T) {
	s := newServer(t)

	res := call(t, s, "compile_animation", map[string]any{"id": "fade"})
	require.False(t, res.IsError)
	var tl control.Timeline
	require.NoError(t, json.Unmarshal(res.StructuredContent, &tl))
	require.Len(t, tl.Instructions, 1)
	assert.Equal(t, 400.0, tl.Instructions[0].Duration)

	res = call(t, s, "create_player", map[string]any{"id": "fade", "selector": "#box"})
	require.False(t, res.IsError)
	var info control.PlayerInfo
	require.NoError(t, json.Unmarshal(res.StructuredContent, &info))
	assert.Equal(t, 400.0, info.TotalTime)

	res = call(t, s, "command_player", map[string]any{"id": "fade", "command": "finish"})
	require.False(t, res.IsError)

	res = call(t, s, "command_player", map[string]any{"id": "ghost", "command": "play"})
	assert.True(t, res.IsError)

	res = call(t, s, "create_player", map[string]any{"id": "fade", "selector": "#nope"})
	assert.True(t, res.IsError)
}

func TestServer_StateTools(t *testing.T) {
	s := newServer(t)

	res := call(t, s, "set_state", map[string]any{"trigger": "panel", "state": "open"})
	require.False(t, res.IsError)
	var st control.StateInfo
	require.NoError(t, json.Unmarshal(res.StructuredContent, &st))
	assert.True(t, st.Matched)
	assert.Equal(t, "void", st.Previous)
	assert.Equal(t, 150.0, st.TotalTime)

	res = call(t, s, "get_state", map[string]any{"trigger": "panel", "selector": "#box"})
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal(res.StructuredContent, &st))
	assert.Equal(t, "open", st.State)
	assert.Equal(t, "100px", st.Styles["height"])
}

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/internal/convert"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := mdwlog.Discard()
	engine, err := dsl.New(dsl.Options{
		Inputs:  convert.NewInputs(convert.Options{Logger: logger}),
		Outputs: convert.NewOutputs(convert.Options{Logger: logger}),
		Logger:  logger,
	})
	require.NoError(t, err)
	s, err := New(cfg, engine, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type response struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg interface{}) response {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp response
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func process(id, input, command, trigger string) map[string]interface{} {
	return map[string]interface{}{
		"type": TypeProcess,
		"id":   id,
		"payload": ProcessPayload{
			Input:   input,
			Command: command,
			Trigger: trigger,
		},
	}
}

func TestWebSocketProcess(t *testing.T) {
	conn := dial(t, newTestServer(t, DefaultConfig()))

	resp := roundTrip(t, conn, process("1", "a,b\n1,x", "h;t:i;s:{a,b};o:jl", ""))
	require.Equal(t, TypeResult, resp.Type, string(resp.Payload))
	assert.Equal(t, "1", resp.ID)

	var result ResultPayload
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	assert.Equal(t, `{"a":1,"b":"x"}`, result.Output)
	assert.Equal(t, []string{"a", "b"}, result.Headers)
	assert.False(t, result.Unchanged)
	assert.Contains(t, result.Changed, "structure")
	assert.Equal(t, "json", result.Syntax.Output)

	// same command again on the same session
	resp = roundTrip(t, conn, process("2", "a,b\n1,x", "h;t:i;s:{a,b};o:jl", "command"))
	require.Equal(t, TypeResult, resp.Type)
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	assert.True(t, result.Unchanged)
	assert.Empty(t, result.Changed)
}

func TestWebSocketErrors(t *testing.T) {
	conn := dial(t, newTestServer(t, DefaultConfig()))

	tests := []struct {
		name string
		msg  interface{}
		code string
	}{
		{"syntax", process("1", "x", "s:[a", ""), "SYNTAX"},
		{"unregistered", process("2", "x", "o:nope", ""), "UNREGISTERED"},
		{"trigger", process("3", "x", "", "later"), CodeInvalidPayload},
		{"payload", map[string]interface{}{"type": TypeProcess, "payload": "text"}, CodeInvalidPayload},
		{"type", map[string]interface{}{"type": "chat"}, CodeUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.msg)
			require.Equal(t, TypeError, resp.Type)
			var e WSErrorPayload
			require.NoError(t, json.Unmarshal(resp.Payload, &e))
			assert.Equal(t, tt.code, e.Code, e.Message)
		})
	}

	// the connection stays usable after errors
	resp := roundTrip(t, conn, map[string]interface{}{"type": TypePing, "id": "p"})
	assert.Equal(t, TypePong, resp.Type)
	assert.Equal(t, "p", resp.ID)
}

func TestWebSocketReset(t *testing.T) {
	conn := dial(t, newTestServer(t, DefaultConfig()))

	roundTrip(t, conn, process("1", "1,2", "o:j", ""))
	resp := roundTrip(t, conn, map[string]interface{}{"type": TypeReset})
	assert.Equal(t, TypeReset, resp.Type)

	resp = roundTrip(t, conn, process("2", "1,2", "o:j", "command"))
	var result ResultPayload
	require.NoError(t, json.Unmarshal(resp.Payload, &result))
	assert.False(t, result.Unchanged)
}

func TestWebSocketOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"http://allowed.example"}
	ts := newTestServer(t, cfg)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://other.example"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://allowed.example"}})
	require.NoError(t, err)
	conn.Close()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/healthz?verbose")
	require.NoError(t, err)
	defer resp.Body.Close()
	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "healthy", report.Status)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "engine", report.Checks[0].Name)
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(DefaultConfig(), nil, mdwlog.Discard())
	assert.Error(t, err)
}

package server

import "encoding/json"

// Message types sent by clients
const (
	TypeProcess = "process"
	TypePing    = "ping"
	TypeReset   = "reset"
)

// Message types sent by the server
const (
	TypeResult = "result"
	TypeError  = "error"
	TypePong   = "pong"
)

// Protocol error codes; engine errors carry their own code
const (
	CodeInvalidPayload = "INVALID_PAYLOAD"
	CodeUnknownType    = "UNKNOWN_TYPE"
)

// WSMessage represents a client message
type WSMessage struct {
	Type string `json:"type"`
	// ID is echoed in the response
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ProcessPayload asks the server to run command over input
type ProcessPayload struct {
	Input   string `json:"input"`
	Command string `json:"command"`
	// Trigger is "command", "input" or "run" (default)
	Trigger string `json:"trigger,omitempty"`
}

// WSResponse represents a server message
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// ResultPayload carries the outcome of a process message
type ResultPayload struct {
	Output    string   `json:"output"`
	Headers   []string `json:"headers"`
	Unchanged bool     `json:"unchanged"`
	// Changed lists the command attributes that differ from the previous
	// command of the session
	Changed []string `json:"changed"`
	// Command is the canonical form of the interpreted command
	Command string `json:"command"`
	Syntax  Syntax `json:"syntax"`
}

// Syntax holds the highlighting hints of the input and output
type Syntax struct {
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

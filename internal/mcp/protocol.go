// mcp/protocol.go
// Envelope request/response /mcp/route

package mcp

import "encoding/json"

// ToolRequest: tool boleh kosong, router memilih dari params.question.
type ToolRequest struct {
	Tool     string          `json:"tool,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Question string          `json:"question,omitempty"`
}

type ToolResponse struct {
	Success bool   `json:"success"`
	Tool    string `json:"tool,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// internal/mcp/tools_def.go
package mcp

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
)

//go:embed mcp-tools.json
var toolsJSON []byte

type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

type ToolCatalog struct {
	Tools []ToolDef `json:"tools"`
}

var (
	toolDefs     []ToolDef
	toolDefsOnce sync.Once
	toolDefsErr  error
)

// LoadToolDefs parses the embedded catalog once.
func LoadToolDefs() ([]ToolDef, error) {
	toolDefsOnce.Do(func() {
		var cat ToolCatalog
		if err := json.Unmarshal(toolsJSON, &cat); err != nil {
			toolDefsErr = err
			return
		}
		toolDefs = cat.Tools
	})
	return toolDefs, toolDefsErr
}

// registeredDefs: entri katalog yang handler-nya sudah terdaftar.
func registeredDefs() []ToolDef {
	defs, err := LoadToolDefs()
	if err != nil {
		return nil
	}
	out := make([]ToolDef, 0, len(defs))
	for _, d := range defs {
		if _, ok := Get(d.Name); ok {
			out = append(out, d)
		}
	}
	return out
}

// ToolsHandler: GET /mcp/tools
func ToolsHandler(w http.ResponseWriter, r *http.Request) {
	names := List()
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{
		"tools":      registeredDefs(),
		"registered": names,
	})
}

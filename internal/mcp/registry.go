// mcp/registry.go
// Registri nama tool -> handler, dipakai /mcp/route dan /mcp/tools

package mcp

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

type Registry struct {
	mu   sync.RWMutex
	data map[string]http.Handler
}

var reg = &Registry{data: make(map[string]http.Handler)}

// Register menimpa handler lama dengan nama yang sama.
func Register(name string, h http.Handler) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.data[name] = h
}

func RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) {
	Register(name, http.HandlerFunc(fn))
}

func Get(name string) (http.Handler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	h, ok := reg.data[name]
	return h, ok
}

// List returns registered tool names, sorted.
func List() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	keys := make([]string, 0, len(reg.data))
	for k := range reg.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// VerifyCatalog fails when mcp-tools.json names a tool nobody registered.
func VerifyCatalog() error {
	defs, err := LoadToolDefs()
	if err != nil {
		return fmt.Errorf("load tool catalog: %w", err)
	}
	var missing []string
	for _, d := range defs {
		if _, ok := Get(d.Name); !ok {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog tools not registered: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Serve menjalankan tool name, 404 JSON kalau tidak ada.
func Serve(w http.ResponseWriter, r *http.Request, name string) {
	if h, ok := Get(name); ok {
		h.ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusNotFound, ToolResponse{Success: false, Tool: name, Error: "tool not found: " + name})
}

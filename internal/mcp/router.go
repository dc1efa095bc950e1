// internal/mcp/router.go
// Router MCP: menerima request lalu memilih & mengeksekusi tool.
// Urutan keputusan: explicit -> keyword -> llm -> default.

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTool = "get_network_summary"

const (
	DecisionExplicit = "explicit"
	DecisionKeyword  = "keyword"
	DecisionLLM      = "llm"
	DecisionDefault  = "default"
)

// Chooser memilih satu nama tool dari prompt; diisi OpenAIClient kalau key ada.
type Chooser interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

var (
	chooserMu sync.RWMutex
	chooser   Chooser
)

func SetChooser(c Chooser) {
	chooserMu.Lock()
	defer chooserMu.Unlock()
	chooser = c
}

func currentChooser() Chooser {
	chooserMu.RLock()
	defer chooserMu.RUnlock()
	return chooser
}

// keywordRules dicek berurutan; yang pertama match menang.
var keywordRules = []struct {
	re   *regexp.Regexp
	tool string
}{
	{regexp.MustCompile(`\b(export|download|unduh|csv|xlsx|excel)\b`), "export_timeseries"},
	{regexp.MustCompile(`\b(anomal\w*|outlier\w*|z-?score|korelasi|correlation)\b`), "detect_anomalies"},
	{regexp.MustCompile(`\bheat\s?map\b`), "get_well_heatmap"},
	{regexp.MustCompile(`\b(radar|measurement point\w*|titik ukur|density|bsw)\b`), "get_measurement_radar"},
	{regexp.MustCompile(`\b(map|peta|lokasi|location\w*)\b`), "get_well_map"},
	{regexp.MustCompile(`\b(flowing|non-flowing|status)\b`), "get_well_status"},
	{regexp.MustCompile(`\b(time\s?series|trend|tren|grafik|monthly|bulanan|simulat\w*)\b`), "get_timeseries"},
	{regexp.MustCompile(`\b(rank\w*|volume\w*|terbesar|largest)\b`), "get_network_volumes"},
	{regexp.MustCompile(`\b(produksi|production|well|sumur|harian|daily)\b`), "get_production"},
	{regexp.MustCompile(`\b(network\w*|ctf|summary|ringkasan|total)\b`), "get_network_summary"},
}

func keywordTool(question string) string {
	q := strings.ToLower(question)
	for _, k := range keywordRules {
		if k.re.MatchString(q) {
			return k.tool
		}
	}
	return ""
}

// RouterHandler: POST /mcp/route {"tool": "...", "params": {...}}
func RouterHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rid := r.Header.Get("X-Request-ID")
	logger := log.With().Str("component", "mcp.route").Str("request_id", rid).Logger()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ToolResponse{Error: "read body error"})
		logger.Error().Err(err).Msg("read body")
		return
	}
	defer r.Body.Close()

	var req ToolRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, ToolResponse{Error: "invalid json"})
			logger.Warn().Err(err).Msg("unmarshal envelope")
			return
		}
	}

	params, err := paramsMap(req.Params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ToolResponse{Error: "params must be a JSON object"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if q, ok := params["question"].(string); ok && question == "" {
		question = strings.TrimSpace(q)
	}

	tool, decision := chooseTool(r.Context(), req.Tool, question)

	h, ok := Get(tool)
	if !ok {
		writeJSON(w, http.StatusNotFound, ToolResponse{Tool: tool, Error: "tool not found: " + tool})
		logger.Warn().Str("tool", tool).Str("decision_by", decision).Msg("tool not found")
		return
	}

	// handler hanya menerima params (tanpa envelope)
	fwd, _ := json.Marshal(params)
	r2 := r.Clone(r.Context())
	r2.Method = http.MethodPost
	r2.Body = io.NopCloser(bytes.NewReader(fwd))
	r2.ContentLength = int64(len(fwd))
	r2.Header.Set("Content-Type", "application/json")
	w.Header().Set("X-MCP-Tool", tool)
	w.Header().Set("X-MCP-Decision", decision)

	h.ServeHTTP(w, r2)

	logger.Info().
		Str("question", question).
		Str("request_tool", req.Tool).
		Str("chosen_tool", tool).
		Str("decision_by", decision).
		Int("registered", len(List())).
		Bool("llm", currentChooser() != nil).
		Dur("duration", time.Since(start)).
		Msg("routed")
}

func paramsMap(raw json.RawMessage) (map[string]any, error) {
	pm := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return pm, nil
	}
	if err := json.Unmarshal(raw, &pm); err != nil {
		return nil, err
	}
	return pm, nil
}

func chooseTool(ctx context.Context, explicit, question string) (string, string) {
	if t := strings.TrimSpace(explicit); t != "" {
		return t, DecisionExplicit
	}
	if question != "" {
		if t := keywordTool(question); t != "" {
			return t, DecisionKeyword
		}
		if t := chooseToolWithLLM(ctx, question); t != "" {
			return t, DecisionLLM
		}
	}
	return DefaultTool, DecisionDefault
}

func chooseToolWithLLM(ctx context.Context, question string) string {
	c := currentChooser()
	if c == nil {
		return ""
	}
	defs := registeredDefs()
	if len(defs) == 0 {
		return ""
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 4*time.Second)
		defer cancel()
	}

	out, err := c.Complete(ctx, chooserSystemPrompt, buildChooserUserPrompt(question, defs))
	if err != nil {
		log.Warn().Err(err).Str("component", "mcp.route").Msg("llm chooser failed")
		return ""
	}
	out = sanitizeToolToken(out)
	for _, d := range defs {
		if strings.EqualFold(out, d.Name) {
			return d.Name
		}
	}
	return ""
}

const chooserSystemPrompt = `You route questions about well production data to tools.
Pick exactly ONE tool name from the list and reply with the name only.
If unsure, reply "get_network_summary".`

func buildChooserUserPrompt(question string, defs []ToolDef) string {
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nTools:\n")
	for i, d := range defs {
		desc := strings.TrimSpace(d.Description)
		if len(desc) > 300 {
			desc = desc[:300] + "..."
		}
		fmt.Fprintf(&b, "%d) %s: %s\n", i+1, d.Name, desc)
	}
	b.WriteString("\nReply with the tool name only.")
	return b.String()
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func sanitizeToolToken(s string) string {
	s = nonWord.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.ToLower(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

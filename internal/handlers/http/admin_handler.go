// internal/handlers/http/admin_handler.go
// Upload workbook produksi (XLSX/CSV) lalu ingest ke tabel production
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wellprod/internal/ingest"
	"wellprod/internal/util"
)

const maxUploadBytes = 64 << 20

type UploadMeta struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type uploadResp struct {
	OK       bool   `json:"ok"`
	Saved    string `json:"saved"`
	Bytes    int64  `json:"bytes"`
	Mode     string `json:"mode"`
	BatchID  string `json:"batch_id"`
	Rows     int    `json:"rows"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

func AdminListUploads(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	root := adminCfg.UploadDir
	depsMu.RUnlock()
	_ = os.MkdirAll(root, 0o755)

	files, err := os.ReadDir(root)
	if err != nil {
		util.WriteError(w, util.Internal(err.Error()))
		return
	}
	list := make([]UploadMeta, 0, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		list = append(list, UploadMeta{Filename: f.Name(), Size: info.Size(), Modified: info.ModTime().UTC()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Filename < list[j].Filename })
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"uploads": list})
}

// AdminUploadWorkbook: multipart "file"; ?mode=append untuk menambah, default replace.
func AdminUploadWorkbook(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	root, store, inv := adminCfg.UploadDir, ingestor, invalid
	depsMu.RUnlock()
	if store == nil {
		util.WriteError(w, util.Unavailable("ingest store not configured"))
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = "replace"
	}
	if mode != "replace" && mode != "append" {
		util.WriteError(w, util.BadInput("mode must be replace or append"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		util.WriteError(w, util.BadInput("file missing"))
		return
	}
	defer f.Close()

	name := filepath.Base(hdr.Filename)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
	default:
		util.WriteError(w, util.BadInput(ingest.ErrUnsupportedFormat.Error()))
		return
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		util.WriteError(w, util.Internal("upload dir: "+err.Error()))
		return
	}
	dst := filepath.Join(root, name)
	n, err := saveFile(dst, f)
	if err != nil {
		util.WriteError(w, util.Internal("write error: "+err.Error()))
		return
	}

	res, err := ingest.ReadFile(dst, r.URL.Query().Get("sheet"))
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			util.WriteError(w, util.BadInput(err.Error()))
			return
		}
		util.WriteError(w, util.BadInput("parse workbook: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()
	var inserted int
	if mode == "append" {
		inserted, err = store.Append(ctx, res.Records)
	} else {
		inserted, err = store.ReplaceAll(ctx, res.Records)
	}
	if err != nil {
		util.WriteError(w, util.Internal("ingest: "+err.Error()))
		return
	}
	if inv != nil {
		inv.Invalidate()
	}

	log.Info().Str("file", name).Str("mode", mode).Str("batch_id", res.BatchID).
		Int("inserted", inserted).Int("skipped", res.Skipped).Msg("workbook ingested")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploadResp{
		OK: true, Saved: name, Bytes: n, Mode: mode,
		BatchID: res.BatchID, Rows: res.Rows, Inserted: inserted, Skipped: res.Skipped,
	})
}

func saveFile(dst string, src io.Reader) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))
}

func TestIngestInspectExport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "prod.db")
	csvPath := filepath.Join(dir, "prod.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Well Id,Process Platform/CTF,Production Date,Hrs Flown,Allocated Oil ProductionMT,Allocated Gas ProductionKCM\n"+
			"W-1,CTF-A,2026-09-01,24,10,100\n"+
			"W-2,CTF-B,2026-09-01,0,0,300\n"), 0o644))

	out, err := run(t, "--sqlite", dbPath, "ingest", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows inserted, 0 skipped, 2 total")

	out, err = run(t, "--sqlite", dbPath, "ingest", "--append", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "4 total")

	out, err = run(t, "--sqlite", dbPath, "inspect", "--sample", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "gas_kcm")
	assert.Contains(t, out, "rows: 4")

	exportDir := filepath.Join(dir, "out")
	out, err = run(t, "--sqlite", dbPath, "export", "--now", "2026-10-19",
		"--start", "2026-01-01", "--end", "2026-06-30", "--networks", "CTF-B", "--out", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "(6 months, 1 networks)")

	b, err := os.ReadFile(filepath.Join(exportDir, "production_data_20260101_20260630.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 7)
	assert.Equal(t, "month,month_num,date,CTF-B_gas,CTF-B_oil,CTF-B_condensate,CTF-B_water", strings.TrimSpace(lines[0]))
}

func TestExportRejectsBadInput(t *testing.T) {
	_, err := run(t, "--sqlite", filepath.Join(t.TempDir(), "x.db"), "export", "--format", "pdf")
	assert.Error(t, err)

	_, err = run(t, "--sqlite", filepath.Join(t.TempDir(), "x.db"), "export", "--start", "19/10/2026")
	assert.Error(t, err)

	_, err = run(t, "--sqlite", filepath.Join(t.TempDir(), "x.db"), "export")
	assert.ErrorContains(t, err, "no delivery networks")
}

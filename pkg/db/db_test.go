package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prod.db")
	conn, err := Open(context.Background(), Options{Driver: "sqlite", Path: path, MaxOpen: 4})
	require.NoError(t, err)
	defer conn.Close()
	assert.FileExists(t, path)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	o := Options{User: "u", Password: "p", Host: "h", Port: "3306", Name: "prod"}
	assert.Equal(t, "u:p@tcp(h:3306)/prod?parseTime=true&multiStatements=false", MySQLDSN(o))
	o.DSN = "custom"
	assert.Equal(t, "custom", MySQLDSN(o))
}

package main

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDumpSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:schemadump_test?cache=shared&mode=memory")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrations.Migrate(db, zap.NewNop().Sugar()))

	var buf bytes.Buffer
	require.NoError(t, dumpSchema(context.Background(), sqlite.New(db), &buf))

	schema := strings.ToLower(buf.String())
	assert.Contains(t, schema, "create table layout_changes")
	assert.Contains(t, schema, "create index layout_changes_layout")
	assert.Contains(t, schema, "create table sqlite_master")
	assert.NotContains(t, schema, "schema_migrations")
}

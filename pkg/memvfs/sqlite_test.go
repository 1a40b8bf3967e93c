package memvfs_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/litebase/sqliteplugin/pkg/memvfs"
	"github.com/litebase/sqliteplugin/pkg/vfs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T, vfsName, name string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?vfs=%s", name, vfsName))
	require.NoError(t, err)

	db.SetMaxOpenConns(1)

	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	m, err := memvfs.Register("memvfs-round-trip", vfs.RegisterOpts{})
	require.NoError(t, err)

	db := openDB(t, "memvfs-round-trip", "test.db")

	_, err = db.Exec("CREATE TABLE t (val INTEGER)")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO t (val) VALUES (1), (2)")
	require.NoError(t, err)

	var sum int
	require.NoError(t, db.QueryRow("SELECT sum(val) FROM t").Scan(&sum))
	assert.Equal(t, 3, sum)

	require.NoError(t, db.Close())

	assert.Contains(t, m.Files(), "test.db")
	assert.NotContains(t, m.Files(), "test.db-journal")

	// The file outlives the connection.
	db = openDB(t, "memvfs-round-trip", "test.db")
	defer db.Close()

	require.NoError(t, db.QueryRow("SELECT sum(val) FROM t").Scan(&sum))
	assert.Equal(t, 3, sum)
}

func TestSQLiteBlobs(t *testing.T) {
	_, err := memvfs.Register("memvfs-blobs", vfs.RegisterOpts{})
	require.NoError(t, err)

	db := openDB(t, "memvfs-blobs", "blobs.db")
	defer db.Close()

	_, err = db.Exec("CREATE TABLE b (data BLOB)")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO b VALUES (zeroblob(8192))")
	require.NoError(t, err)

	blob := make([]byte, 8192)
	copy(blob, "hello")

	_, err = db.Exec("UPDATE b SET data = ?", blob)
	require.NoError(t, err)

	var data []byte
	require.NoError(t, db.QueryRow("SELECT data FROM b").Scan(&data))

	assert.Len(t, data, 8192)
	assert.Equal(t, []byte("hello"), data[:5])
}

func TestSQLiteRejectsReadOnlyOpen(t *testing.T) {
	_, err := memvfs.Register("memvfs-read-only", vfs.RegisterOpts{})
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", "file:ro.db?vfs=memvfs-read-only&mode=ro")
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, db.Ping())
}

func TestRegisterTwice(t *testing.T) {
	_, err := memvfs.Register("memvfs-twice", vfs.RegisterOpts{})
	require.NoError(t, err)

	_, err = memvfs.Register("memvfs-twice", vfs.RegisterOpts{})
	assert.Error(t, err)
	assert.True(t, vfs.IsRegistered("memvfs-twice"))
}

package memvfs_test

import (
	"testing"

	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/memvfs"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	createFlags     = sqlite3.SQLITE_OPEN_MAIN_DB | sqlite3.SQLITE_OPEN_READWRITE | sqlite3.SQLITE_OPEN_CREATE
	mustCreateFlags = createFlags | sqlite3.SQLITE_OPEN_EXCLUSIVE
)

func ptr[T any](v T) *T {
	return &v
}

func TestOpenReadOnlyFails(t *testing.T) {
	m := memvfs.New()

	_, err := m.Open(ptr("ro.db"), flags.NewOpenOpts(sqlite3.SQLITE_OPEN_MAIN_DB|sqlite3.SQLITE_OPEN_READONLY))

	assert.ErrorIs(t, err, sqlite3.ErrCantOpen)
}

func TestOpenSharesNamedFiles(t *testing.T) {
	m := memvfs.New()

	a, err := m.Open(ptr("shared.db"), flags.NewOpenOpts(createFlags))
	require.NoError(t, err)

	b, err := m.Open(ptr("shared.db"), flags.NewOpenOpts(createFlags))
	require.NoError(t, err)

	_, err = m.Write(a, []byte("data"), 0)
	require.NoError(t, err)

	p := make([]byte, 4)
	n, err := m.Read(b, p, 0)

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("data"), p)
	assert.True(t, b.InMemory())
	assert.False(t, b.ReadOnly())
	assert.Equal(t, "shared.db", b.Name())
}

func TestOpenMustCreate(t *testing.T) {
	m := memvfs.New()

	_, err := m.Open(ptr("new.db"), flags.NewOpenOpts(mustCreateFlags))
	require.NoError(t, err)

	_, err = m.Open(ptr("new.db"), flags.NewOpenOpts(mustCreateFlags))
	assert.ErrorIs(t, err, sqlite3.ErrCantOpen)
}

func TestOpenAnonymous(t *testing.T) {
	m := memvfs.New()

	f, err := m.Open(nil, flags.NewOpenOpts(sqlite3.SQLITE_OPEN_TEMP_JOURNAL|sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE|sqlite3.SQLITE_OPEN_DELETEONCLOSE))
	require.NoError(t, err)

	assert.NotEmpty(t, f.Name())
	assert.Empty(t, m.Files())

	_, err = m.Write(f, []byte("temp"), 0)
	require.NoError(t, err)

	assert.NoError(t, m.Close(f))
}

func TestDelete(t *testing.T) {
	m := memvfs.New()

	_, err := m.Open(ptr("gone.db"), flags.NewOpenOpts(createFlags))
	require.NoError(t, err)

	exists, err := m.Access("gone.db", flags.AccessExists)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.Delete("gone.db"))

	exists, err = m.Access("gone.db", flags.AccessExists)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, m.Delete("gone.db"), sqlite3.ErrIODeleteNoEnt)
}

func TestCloseDeletesOnClose(t *testing.T) {
	m := memvfs.New()

	f, err := m.Open(ptr("main.db-journal"), flags.NewOpenOpts(sqlite3.SQLITE_OPEN_MAIN_JOURNAL|sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE|sqlite3.SQLITE_OPEN_DELETEONCLOSE))
	require.NoError(t, err)

	assert.Equal(t, []string{"main.db-journal"}, m.Files())

	require.NoError(t, m.Close(f))
	assert.Empty(t, m.Files())
}

func TestTruncateAndSize(t *testing.T) {
	m := memvfs.New()

	f, err := m.Open(ptr("size.db"), flags.NewOpenOpts(createFlags))
	require.NoError(t, err)

	require.NoError(t, m.Truncate(f, 10))

	size, err := m.FileSize(f)
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)

	require.NoError(t, m.Truncate(f, 3))

	size, err = m.FileSize(f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestPragmaIsDeclined(t *testing.T) {
	m := memvfs.New()

	f, err := m.Open(ptr("pragma.db"), flags.NewOpenOpts(createFlags))
	require.NoError(t, err)

	_, err = m.Pragma(f, vfs.Pragma{Name: "journal_mode"})
	assert.ErrorIs(t, err, vfs.ErrPragmaNotFound)
}

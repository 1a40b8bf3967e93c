package memvfs

import (
	"unsafe"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
)

// RegisterExtension registers a new in-memory VFS from a loadable
// extension's entry point. pApi is the sqlite3_api_routines table SQLite
// passes to it.
func RegisterExtension(pApi unsafe.Pointer, name string, opts vfs.RegisterOpts) (*VFS, error) {
	m := New()

	if err := vfs.RegisterExtension[*File](pApi, name, m, opts); err != nil {
		return nil, err
	}

	return m, nil
}

// ExtensionInit is the body of the sqlite3_memvfs_init entry point. It makes
// an in-memory VFS named DefaultName the default and asks SQLite to keep the
// extension loaded, since the VFS outlives the connection that loaded it.
func ExtensionInit(pApi unsafe.Pointer) int32 {
	if _, err := RegisterExtension(pApi, DefaultName, vfs.RegisterOpts{MakeDefault: true}); err != nil {
		return sqlite3.CodeOf(err, sqlite3.ErrInternal)
	}

	return sqlite3.SQLITE_OK_LOAD_PERMANENTLY
}

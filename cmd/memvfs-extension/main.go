// Command memvfs-extension builds the in-memory VFS as a SQLite loadable
// extension:
//
//	go build -buildmode=c-shared -o memvfs.so ./cmd/memvfs-extension
//
// Loading it with `.load ./memvfs` makes "mem" the default VFS.
package main

import "C"

import (
	"unsafe"

	"github.com/litebase/sqliteplugin/pkg/memvfs"
)

//export sqlite3_memvfs_init
func sqlite3_memvfs_init(db unsafe.Pointer, pzErrMsg **C.char, pApi unsafe.Pointer) C.int {
	return C.int(memvfs.ExtensionInit(pApi))
}

func main() {}

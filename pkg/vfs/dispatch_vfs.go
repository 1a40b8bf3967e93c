package vfs

/*
#include "vfs.h"
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/litebase/sqliteplugin/internal/utils"
	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

//export goVfsOpen
func goVfsOpen(pVfs *C.sqlite3_vfs, zName *C.char, pFile *C.sqlite3_file, iFlags C.int, pOutFlags *C.int) C.int {
	return C.int(guard("xOpen", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		s, err := slotOf(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		s.reset()

		var path *string

		if name, ok := utils.GoString(unsafe.Pointer(zName)); ok {
			path = &name
		}

		opts := flags.NewOpenOpts(int32(iFlags))

		h, err := reg.fs.open(path, opts)

		if err != nil {
			slog.Debug("VFS open failed", "vfs", reg.name, "opts", opts.String(), "error", err)

			return sqlite3.CodeOf(err, sqlite3.ErrCantOpen)
		}

		if pOutFlags != nil {
			outFlags := int32(iFlags)

			if h.ReadOnly() {
				outFlags |= sqlite3.SQLITE_OPEN_READONLY
			}

			if h.InMemory() {
				outFlags |= sqlite3.SQLITE_OPEN_MEMORY
			}

			*pOutFlags = C.int(outFlags)
		}

		s.store(reg, h)

		return sqlite3.SQLITE_OK
	}))
}

//export goVfsDelete
func goVfsDelete(pVfs *C.sqlite3_vfs, zName *C.char, syncDir C.int) C.int {
	return C.int(guard("xDelete", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		name, ok := utils.GoString(unsafe.Pointer(zName))

		if !ok {
			return sqlite3.SQLITE_INTERNAL
		}

		return sqlite3.CodeOf(reg.fs.delete(name), sqlite3.ErrIODelete)
	}))
}

//export goVfsAccess
func goVfsAccess(pVfs *C.sqlite3_vfs, zName *C.char, iFlags C.int, pResOut *C.int) C.int {
	return C.int(guard("xAccess", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		name, ok := utils.GoString(unsafe.Pointer(zName))

		if !ok {
			return sqlite3.SQLITE_INTERNAL
		}

		exists, err := reg.fs.access(name, flags.AccessFlagsFromInt(int32(iFlags)))

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrIOAccess)
		}

		if pResOut == nil {
			return sqlite3.SQLITE_IOERR_ACCESS
		}

		*pResOut = 0

		if exists {
			*pResOut = 1
		}

		return sqlite3.SQLITE_OK
	}))
}

//export goVfsFullPathname
func goVfsFullPathname(pVfs *C.sqlite3_vfs, zName *C.char, nOut C.int, zOut *C.char) C.int {
	return C.int(guard("xFullPathname", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		name, ok := utils.GoString(unsafe.Pointer(zName))

		if !ok || zOut == nil || nOut <= 0 {
			return sqlite3.SQLITE_INTERNAL
		}

		fullName, err := reg.fs.canonicalPath(name)

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrCantOpenFullPath)
		}

		if utils.CopyCString(unsafe.Pointer(zOut), int(nOut), fullName) {
			reg.logger.Warn(fmt.Sprintf("full pathname of %q truncated to %d bytes", name, int(nOut)-1))
		}

		return sqlite3.SQLITE_OK
	}))
}

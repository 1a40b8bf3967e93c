package vfs

/*
#include "vfs.h"
*/
import "C"

import (
	"errors"
	"log/slog"
	"unsafe"

	"github.com/litebase/sqliteplugin/internal/utils"
	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

//export goFileClose
func goFileClose(pFile *C.sqlite3_file) C.int {
	return C.int(guard("xClose", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		s, err := slotOf(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		reg, err := s.registration()

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		h, err := s.take()

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return sqlite3.CodeOf(reg.fs.close(h), sqlite3.ErrIOClose)
	}))
}

//export goFileRead
func goFileRead(pFile *C.sqlite3_file, zBuf unsafe.Pointer, iAmt C.int, iOfst C.sqlite3_int64) C.int {
	return C.int(guard("xRead", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if iAmt < 0 || iOfst < 0 || (zBuf == nil && iAmt > 0) {
			return sqlite3.SQLITE_IOERR_READ
		}

		p := unsafe.Slice((*byte)(zBuf), int(iAmt))

		n, err := reg.fs.read(h, p, int64(iOfst))

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrIORead)
		}

		if n < 0 || n > len(p) {
			return sqlite3.SQLITE_IOERR_READ
		}

		// SQLite expects the unread tail of a short read to be zeroed.
		if n < len(p) {
			clear(p[n:])

			return sqlite3.SQLITE_IOERR_SHORT_READ
		}

		return sqlite3.SQLITE_OK
	}))
}

//export goFileWrite
func goFileWrite(pFile *C.sqlite3_file, zBuf unsafe.Pointer, iAmt C.int, iOfst C.sqlite3_int64) C.int {
	return C.int(guard("xWrite", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if iAmt < 0 || iOfst < 0 || (zBuf == nil && iAmt > 0) {
			return sqlite3.SQLITE_IOERR_WRITE
		}

		p := unsafe.Slice((*byte)(zBuf), int(iAmt))

		n, err := reg.fs.write(h, p, int64(iOfst))

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrIOWrite)
		}

		if n != len(p) {
			slog.Debug("Short write", "vfs", reg.name, "expected", len(p), "written", n)

			return sqlite3.SQLITE_IOERR_WRITE
		}

		return sqlite3.SQLITE_OK
	}))
}

//export goFileTruncate
func goFileTruncate(pFile *C.sqlite3_file, size C.sqlite3_int64) C.int {
	return C.int(guard("xTruncate", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if size < 0 {
			return sqlite3.SQLITE_IOERR_TRUNCATE
		}

		return sqlite3.CodeOf(reg.fs.truncate(h, int64(size)), sqlite3.ErrIOTruncate)
	}))
}

//export goFileSync
func goFileSync(pFile *C.sqlite3_file, iFlags C.int) C.int {
	return C.int(guard("xSync", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return sqlite3.CodeOf(reg.fs.sync(h), sqlite3.ErrIOFsync)
	}))
}

//export goFileSize
func goFileSize(pFile *C.sqlite3_file, pSize *C.sqlite3_int64) C.int {
	return C.int(guard("xFileSize", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil || pSize == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		size, err := reg.fs.fileSize(h)

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrIOFstat)
		}

		if size < 0 {
			return sqlite3.SQLITE_IOERR_FSTAT
		}

		*pSize = C.sqlite3_int64(size)

		return sqlite3.SQLITE_OK
	}))
}

//export goFileLock
func goFileLock(pFile *C.sqlite3_file, eLock C.int) C.int {
	// SQLite never passes anything but the five lock constants, so an unknown
	// level is left to crash the process.
	level := flags.LockLevelFromInt(int32(eLock))

	return C.int(guard("xLock", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return sqlite3.CodeOf(reg.fs.lock(h, level), sqlite3.ErrIOLock)
	}))
}

//export goFileUnlock
func goFileUnlock(pFile *C.sqlite3_file, eLock C.int) C.int {
	level := flags.LockLevelFromInt(int32(eLock))

	return C.int(guard("xUnlock", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return sqlite3.CodeOf(reg.fs.unlock(h, level), sqlite3.ErrIOUnlock)
	}))
}

//export goFileCheckReservedLock
func goFileCheckReservedLock(pFile *C.sqlite3_file, pResOut *C.int) C.int {
	return C.int(guard("xCheckReservedLock", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil || pResOut == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		reserved, err := reg.fs.checkReservedLock(h)

		if err != nil {
			return sqlite3.CodeOf(err, sqlite3.ErrIOCheckReserved)
		}

		*pResOut = 0

		if reserved {
			*pResOut = 1
		}

		return sqlite3.SQLITE_OK
	}))
}

//export goFileControl
func goFileControl(pFile *C.sqlite3_file, op C.int, pArg unsafe.Pointer) C.int {
	if op != sqlite3.SQLITE_FCNTL_PRAGMA {
		return sqlite3.SQLITE_NOTFOUND
	}

	return C.int(guard("xFileControl", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, h, err := openFile(pFile)

		if err != nil || pArg == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return filePragma(reg, h, (**C.char)(pArg))
	}))
}

// filePragma handles SQLITE_FCNTL_PRAGMA. args points to three strings: a
// slot for the result message, the pragma name and its argument (or NULL).
// A message written to args[0] is allocated with sqlite3_mprintf and freed
// by SQLite.
func filePragma(reg *registration, h Handle, args **C.char) int32 {
	argv := unsafe.Slice(args, 3)

	name, ok := utils.GoString(unsafe.Pointer(argv[1]))

	if !ok {
		return sqlite3.SQLITE_INTERNAL
	}

	pragma := Pragma{Name: name}

	if arg, ok := utils.GoString(unsafe.Pointer(argv[2])); ok {
		pragma.Arg = &arg
	}

	msg, err := reg.fs.pragma(h, pragma)
	rc := int32(sqlite3.SQLITE_OK)

	switch {
	case err == nil:
	case errors.Is(err, ErrPragmaNotFound):
		return sqlite3.SQLITE_NOTFOUND
	default:
		var pragmaErr *PragmaError

		if errors.As(err, &pragmaErr) {
			msg = pragmaErr.Message
		} else {
			msg = err.Error()
		}

		rc = sqlite3.SQLITE_ERROR
	}

	if msg == "" {
		return rc
	}

	cMsg, err := reg.host.mprintf(msg)

	if err != nil {
		return sqlite3.CodeOf(err, sqlite3.ErrNoMem)
	}

	argv[0] = cMsg

	return rc
}

//export goFileSectorSize
func goFileSectorSize(pFile *C.sqlite3_file) C.int {
	return C.int(guard("xSectorSize", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, _, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		size, err := utils.SafeIntToInt32(reg.fs.sectorSize())

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return size
	}))
}

//export goFileDeviceCharacteristics
func goFileDeviceCharacteristics(pFile *C.sqlite3_file) C.int {
	return C.int(guard("xDeviceCharacteristics", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, _, err := openFile(pFile)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		characteristics, err := utils.SafeIntToInt32(reg.fs.deviceCharacteristics())

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return characteristics
	}))
}

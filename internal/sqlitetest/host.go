// Package sqlitetest stands in for the SQLite engine in tests. It hands out
// a routine table backed by a small fake engine and drives registered VFSes
// through their C tables the same way SQLite does.
//
// The fake engine is process global. Tests using it must not run in
// parallel and should call Reset first.
package sqlitetest

/*
#cgo CFLAGS: -I${SRCDIR}/../sqliteabi

#include "fake.h"
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/litebase/sqliteplugin/pkg/vfs"
)

const (
	// Version is the library version the fake engine reports after Reset.
	Version = 3045001

	// BaseTime and BaseTimeInt64 are what the fake default VFS reports for
	// the current time.
	BaseTime      = 2460000.5
	BaseTimeInt64 = 212544043200000
)

// LogEntry is one call to the engine's sqlite3_log.
type LogEntry struct {
	Code    int32
	Message string
}

var (
	logMutex   sync.Mutex
	logEntries []LogEntry
)

//export goSqlitetestLog
func goSqlitetestLog(code C.int, msg *C.char) {
	logMutex.Lock()
	defer logMutex.Unlock()

	logEntries = append(logEntries, LogEntry{Code: int32(code), Message: C.GoString(msg)})
}

// Reset restores the fake engine's settings and clears the captured log.
// VFSes registered earlier stay registered.
func Reset() {
	C.sqlitetest_reset()

	logMutex.Lock()
	defer logMutex.Unlock()

	logEntries = nil
}

// Routines returns the fake engine's routine table.
func Routines() vfs.HostRoutines {
	return vfs.HostRoutines{
		LibVersionNumber: C.sqlitetest_libversion_number_ptr(),
		VFSRegister:      C.sqlitetest_vfs_register_ptr(),
		VFSFind:          C.sqlitetest_vfs_find_ptr(),
		Mprintf:          C.sqlitetest_mprintf_ptr(),
		Log:              C.sqlitetest_log_ptr(),
	}
}

// Routine names an entry of the extension routine table.
type Routine int

const (
	RoutineNone Routine = iota
	RoutineLibVersionNumber
	RoutineVFSRegister
	RoutineVFSFind
	RoutineMprintf
	RoutineLog
)

// APIRoutines returns the fake engine as the sqlite3_api_routines table an
// extension entry point receives, with the missing routine left NULL. The
// table is rebuilt by every call.
func APIRoutines(missing Routine) unsafe.Pointer {
	return unsafe.Pointer(C.sqlitetest_api_routines(C.int(missing)))
}

func SetVersion(version int) {
	C.sqlitetest_set_version(C.int(version))
}

// SetRegisterResult makes sqlite3_vfs_register fail with rc. Zero restores
// success.
func SetRegisterResult(rc int32) {
	C.sqlitetest_set_register_rc(C.int(rc))
}

// SetMprintfFails makes sqlite3_mprintf return NULL.
func SetMprintfFails(fails bool) {
	C.sqlitetest_set_mprintf_fails(cBool(fails))
}

// SetDefaultVFS controls whether the fake engine has a default VFS.
func SetDefaultVFS(enabled bool) {
	C.sqlitetest_set_default_vfs(cBool(enabled))
}

func RegisterCalls() int {
	return int(C.sqlitetest_register_calls())
}

// LastMakeDefault reports the makeDflt argument of the last register call.
func LastMakeDefault() bool {
	return C.sqlitetest_last_make_default() != 0
}

// Logs returns the entries written to the engine's log since Reset.
func Logs() []LogEntry {
	logMutex.Lock()
	defer logMutex.Unlock()

	entries := make([]LogEntry, len(logEntries))
	copy(entries, logEntries)

	return entries
}

// DlHandle is the library handle the fake default VFS returns from xDlOpen.
func DlHandle() unsafe.Pointer {
	return C.sqlitetest_dl_handle()
}

// DlSymbol is the address the fake default VFS returns from xDlSym.
func DlSymbol() unsafe.Pointer {
	return C.sqlitetest_dl_symbol()
}

func DlCloseCalls() int {
	return int(C.sqlitetest_dlclose_calls())
}

func cBool(b bool) C.int {
	if b {
		return 1
	}

	return 0
}

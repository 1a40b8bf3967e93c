package vfs

/*
#include "vfs.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/litebase/sqliteplugin/internal/utils"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

// HostRoutines holds the addresses of the SQLite routines used by the plugin
// layer, for engines that hand them over at runtime instead of being linked
// into the binary. Every entry must be set.
type HostRoutines struct {
	LibVersionNumber unsafe.Pointer // int sqlite3_libversion_number(void)
	VFSRegister      unsafe.Pointer // int sqlite3_vfs_register(sqlite3_vfs*, int)
	VFSFind          unsafe.Pointer // sqlite3_vfs *sqlite3_vfs_find(const char*)
	Mprintf          unsafe.Pointer // char *sqlite3_mprintf(const char*, ...)
	Log              unsafe.Pointer // void sqlite3_log(int, const char*, ...)
}

var errNoStaticHost = errors.New("SQLite is not linked into this binary")

// host is the table of engine routines shared by the registration, its
// logger and the trampolines.
type host struct {
	routines C.govfs_host
}

func staticHost() (*host, error) {
	h := &host{}

	if C.govfs_static_host(&h.routines) == 0 {
		return nil, errNoStaticHost
	}

	return h, nil
}

func dynamicHost(r HostRoutines) (*host, error) {
	if r.LibVersionNumber == nil || r.VFSRegister == nil || r.VFSFind == nil ||
		r.Mprintf == nil || r.Log == nil {
		return nil, sqlite3.ErrInternal
	}

	h := &host{}
	h.routines.libversion_number = (*[0]byte)(r.LibVersionNumber)
	h.routines.vfs_register = (*[0]byte)(r.VFSRegister)
	h.routines.vfs_find = (*[0]byte)(r.VFSFind)
	h.routines.mprintf = (*[0]byte)(r.Mprintf)
	h.routines.log = (*[0]byte)(r.Log)

	return h, nil
}

// extensionHost reads the routines from the sqlite3_api_routines table
// SQLite passes to an extension's entry point.
func extensionHost(pApi unsafe.Pointer) (*host, error) {
	h := &host{}

	if C.govfs_extension_host(&h.routines, (*C.sqlite3_api_routines)(pApi)) == 0 {
		return nil, sqlite3.ErrInternal
	}

	return h, nil
}

func (h *host) libVersionNumber() int {
	return int(C.govfs_host_libversion_number(&h.routines))
}

func (h *host) register(pVfs *C.sqlite3_vfs, makeDefault bool) int32 {
	var makeDflt C.int

	if makeDefault {
		makeDflt = 1
	}

	return int32(C.govfs_host_vfs_register(&h.routines, pVfs, makeDflt))
}

// defaultVFS returns the engine's current default VFS, or nil.
func (h *host) defaultVFS() *C.sqlite3_vfs {
	return C.govfs_host_vfs_find(&h.routines, nil)
}

// mprintf copies msg into memory owned by the engine. The engine frees it.
func (h *host) mprintf(msg string) (*C.char, error) {
	cMsg, err := utils.SafeCString(msg)

	if err != nil {
		return nil, sqlite3.ErrInternal
	}

	defer utils.Free(unsafe.Pointer(cMsg))

	p := C.govfs_host_mprintf(&h.routines, (*C.char)(cMsg))

	if p == nil {
		return nil, sqlite3.ErrNoMem
	}

	return p, nil
}

func (h *host) log(code int32, msg string) {
	cMsg, err := utils.SafeCString(msg)

	if err != nil {
		return
	}

	defer utils.Free(unsafe.Pointer(cMsg))

	C.govfs_host_log(&h.routines, C.int(code), (*C.char)(cMsg))
}

package sqlitetest

/*
#include <string.h>
#include "fake.h"
*/
import "C"

import (
	"unsafe"
)

// VFS drives a sqlite3_vfs registered with the fake engine.
type VFS struct {
	ptr *C.sqlite3_vfs
}

// Find looks up a VFS registered with the fake engine, or nil.
func Find(name string) *VFS {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	p := C.sqlitetest_find(cName)

	if p == nil {
		return nil
	}

	return &VFS{ptr: p}
}

// Pointer returns the address of the sqlite3_vfs.
func (v *VFS) Pointer() unsafe.Pointer {
	return unsafe.Pointer(v.ptr)
}

func (v *VFS) Name() string {
	return C.GoString(v.ptr.zName)
}

func (v *VFS) Version() int {
	return int(v.ptr.iVersion)
}

func (v *VFS) MaxPathname() int {
	return int(v.ptr.mxPathname)
}

// OsFileSize is the size of the per-file block SQLite allocates.
func (v *VFS) OsFileSize() int {
	return int(v.ptr.szOsFile)
}

// Open calls xOpen on a freshly allocated, non-zeroed file block and returns
// the file, the output flags and the result code. On failure the block is
// released and the file is nil.
func (v *VFS) Open(name *string, flags int32) (*File, int32, int32) {
	f := &File{vfs: v, ptr: C.sqlitetest_file_alloc(v.ptr)}

	if name != nil {
		// SQLite keeps the name alive until the file is closed.
		f.name = C.CString(*name)
	}

	var outFlags C.int

	rc := int32(C.sqlitetest_open(v.ptr, f.name, f.ptr, C.int(flags), &outFlags))

	if rc != 0 {
		f.release()

		return nil, 0, rc
	}

	return f, int32(outFlags), rc
}

// OpenFailedCleanly opens a file that is expected to fail and reports
// whether SQLite would see a block without io methods afterwards.
func (v *VFS) OpenFailedCleanly(name *string, flags int32) (int32, bool) {
	f := &File{vfs: v, ptr: C.sqlitetest_file_alloc(v.ptr)}

	if name != nil {
		f.name = C.CString(*name)
	}

	rc := int32(C.sqlitetest_open(v.ptr, f.name, f.ptr, C.int(flags), nil))
	clean := C.sqlitetest_file_has_methods(f.ptr) == 0

	if rc == 0 {
		C.sqlitetest_file_close(f.ptr)
	}

	f.release()

	return rc, clean
}

func (v *VFS) Delete(name string) int32 {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return int32(C.sqlitetest_delete(v.ptr, cName, 0))
}

func (v *VFS) Access(name string, flags int32) (bool, int32) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var res C.int = -1

	rc := int32(C.sqlitetest_access(v.ptr, cName, C.int(flags), &res))

	return res == 1, rc
}

// FullPathname calls xFullPathname with an nOut byte buffer.
func (v *VFS) FullPathname(name string, nOut int) (string, int32) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	out := (*C.char)(C.malloc(C.size_t(nOut + 1)))
	defer C.free(unsafe.Pointer(out))

	C.memset(unsafe.Pointer(out), 'x', C.size_t(nOut))
	*(*C.char)(unsafe.Add(unsafe.Pointer(out), nOut)) = 0

	rc := int32(C.sqlitetest_full_pathname(v.ptr, cName, C.int(nOut), out))

	return C.GoString(out), rc
}

// Randomness calls xRandomness and returns the buffer and the result.
func (v *VFS) Randomness(n int) ([]byte, int32) {
	buf := C.malloc(C.size_t(max(n, 1)))
	defer C.free(buf)

	C.memset(buf, 0, C.size_t(max(n, 1)))

	rc := int32(C.sqlitetest_randomness(v.ptr, C.int(n), (*C.char)(buf)))

	return C.GoBytes(buf, C.int(n)), rc
}

func (v *VFS) Sleep(microseconds int) int32 {
	return int32(C.sqlitetest_sleep(v.ptr, C.int(microseconds)))
}

func (v *VFS) CurrentTime() (float64, int32) {
	var t C.double

	rc := int32(C.sqlitetest_current_time(v.ptr, &t))

	return float64(t), rc
}

func (v *VFS) CurrentTimeInt64() (int64, int32) {
	var t C.sqlite3_int64

	rc := int32(C.sqlitetest_current_time_int64(v.ptr, &t))

	return int64(t), rc
}

func (v *VFS) DlOpen(path string) unsafe.Pointer {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	return C.sqlitetest_dlopen(v.ptr, cPath)
}

func (v *VFS) DlError(n int) string {
	buf := (*C.char)(C.malloc(C.size_t(n + 1)))
	defer C.free(unsafe.Pointer(buf))

	C.memset(unsafe.Pointer(buf), 0, C.size_t(n+1))
	C.sqlitetest_dlerror(v.ptr, C.int(n), buf)

	return C.GoString(buf)
}

func (v *VFS) DlSym(handle unsafe.Pointer, symbol string) unsafe.Pointer {
	cSymbol := C.CString(symbol)
	defer C.free(unsafe.Pointer(cSymbol))

	return C.sqlitetest_dlsym(v.ptr, handle, cSymbol)
}

func (v *VFS) DlClose(handle unsafe.Pointer) {
	C.sqlitetest_dlclose(v.ptr, handle)
}

// File drives one file opened through a VFS.
type File struct {
	vfs  *VFS
	ptr  *C.sqlite3_file
	name *C.char
}

// Read calls xRead into a buffer prefilled with 0xAA.
func (f *File) Read(n int, off int64) ([]byte, int32) {
	buf := C.malloc(C.size_t(max(n, 1)))
	defer C.free(buf)

	C.memset(buf, 0xAA, C.size_t(max(n, 1)))

	rc := int32(C.sqlitetest_file_read(f.ptr, buf, C.int(n), C.sqlite3_int64(off)))

	return C.GoBytes(buf, C.int(n)), rc
}

func (f *File) Write(p []byte, off int64) int32 {
	buf := C.malloc(C.size_t(max(len(p), 1)))
	defer C.free(buf)

	copy(unsafe.Slice((*byte)(buf), len(p)), p)

	return int32(C.sqlitetest_file_write(f.ptr, buf, C.int(len(p)), C.sqlite3_int64(off)))
}

func (f *File) Truncate(size int64) int32 {
	return int32(C.sqlitetest_file_truncate(f.ptr, C.sqlite3_int64(size)))
}

func (f *File) Sync(flags int32) int32 {
	return int32(C.sqlitetest_file_sync(f.ptr, C.int(flags)))
}

func (f *File) Size() (int64, int32) {
	var size C.sqlite3_int64 = -1

	rc := int32(C.sqlitetest_file_size(f.ptr, &size))

	return int64(size), rc
}

func (f *File) Lock(level int32) int32 {
	return int32(C.sqlitetest_file_lock(f.ptr, C.int(level)))
}

func (f *File) Unlock(level int32) int32 {
	return int32(C.sqlitetest_file_unlock(f.ptr, C.int(level)))
}

func (f *File) CheckReservedLock() (bool, int32) {
	var res C.int = -1

	rc := int32(C.sqlitetest_file_check_reserved_lock(f.ptr, &res))

	return res == 1, rc
}

// FileControl calls xFileControl with a NULL argument.
func (f *File) FileControl(op int32) int32 {
	return int32(C.sqlitetest_file_control(f.ptr, C.int(op), nil))
}

// Pragma sends a PRAGMA through SQLITE_FCNTL_PRAGMA. The returned message is
// nil when the VFS did not write one.
func (f *File) Pragma(name string, arg *string) (*string, int32) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var cArg *C.char

	if arg != nil {
		cArg = C.CString(*arg)
		defer C.free(unsafe.Pointer(cArg))
	}

	var cMsg *C.char

	rc := int32(C.sqlitetest_file_pragma(f.ptr, cName, cArg, &cMsg))

	if cMsg == nil {
		return nil, rc
	}

	msg := C.GoString(cMsg)
	C.free(unsafe.Pointer(cMsg))

	return &msg, rc
}

func (f *File) SectorSize() int32 {
	return int32(C.sqlitetest_file_sector_size(f.ptr))
}

func (f *File) DeviceCharacteristics() int32 {
	return int32(C.sqlitetest_file_device_characteristics(f.ptr))
}

// HasMethods reports whether the block currently has io methods.
func (f *File) HasMethods() bool {
	return C.sqlitetest_file_has_methods(f.ptr) != 0
}

// Close calls xClose and frees the block, as SQLite does whatever xClose
// returns.
func (f *File) Close() int32 {
	var rc int32

	if f.HasMethods() {
		rc = int32(C.sqlitetest_file_close(f.ptr))
	}

	f.release()

	return rc
}

func (f *File) release() {
	if f.ptr != nil {
		C.free(unsafe.Pointer(f.ptr))
		f.ptr = nil
	}

	if f.name != nil {
		C.free(unsafe.Pointer(f.name))
		f.name = nil
	}
}

package vfs

/*
#include "vfs.h"
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"unsafe"
)

var (
	errInvalidPointer  = errors.New("invalid pointer passed by SQLite")
	errNoHandle        = errors.New("file is not open")
	errUnknownRegistry = errors.New("sqlite3_vfs was not registered by this package")
)

// slot is the Go view of the govfs_file block SQLite allocates for each
// file. The handle cell is written once by xOpen and emptied by xClose;
// between the two SQLite owns the block and only lends it for a call.
type slot C.govfs_file

func slotOf(pFile *C.sqlite3_file) (*slot, error) {
	if pFile == nil {
		return nil, errInvalidPointer
	}

	return (*slot)(unsafe.Pointer(pFile)), nil
}

// reset clears the block before an open since SQLite does not promise to
// zero it. SQLite only calls xClose on a block whose pMethods is set, so a
// failed open leaves it nil.
func (s *slot) reset() {
	s.base.pMethods = nil
	s.pVfs = nil
	s.handle = 0
}

func (s *slot) store(reg *registration, h Handle) {
	s.pVfs = reg.vfs
	s.handle = C.uintptr_t(cgo.NewHandle(h))
	s.base.pMethods = (*C.struct_sqlite3_io_methods)(unsafe.Pointer(&reg.appData.ioMethods))
}

func (s *slot) load() (Handle, error) {
	if s.handle == 0 {
		return nil, errNoHandle
	}

	h, ok := cgo.Handle(s.handle).Value().(Handle)

	if !ok {
		return nil, errNoHandle
	}

	return h, nil
}

// take empties the handle cell and returns its value. It succeeds once per
// open.
func (s *slot) take() (Handle, error) {
	if s.handle == 0 {
		return nil, errNoHandle
	}

	ch := cgo.Handle(s.handle)
	s.handle = 0

	h, ok := ch.Value().(Handle)
	ch.Delete()

	if !ok {
		return nil, errNoHandle
	}

	return h, nil
}

func (s *slot) registration() (*registration, error) {
	return registrationOf(s.pVfs)
}

// registrationOf recovers the registration that owns pVfs.
func registrationOf(pVfs *C.sqlite3_vfs) (*registration, error) {
	if pVfs == nil || pVfs.pAppData == nil {
		return nil, errInvalidPointer
	}

	app := (*C.govfs_app_data)(pVfs.pAppData)

	if app.registration == 0 {
		return nil, errUnknownRegistry
	}

	reg, ok := cgo.Handle(app.registration).Value().(*registration)

	if !ok || reg.vfs != pVfs {
		return nil, errUnknownRegistry
	}

	return reg, nil
}

// openFile resolves the registration and handle behind a file passed to an
// io_methods callback.
func openFile(pFile *C.sqlite3_file) (*registration, Handle, error) {
	s, err := slotOf(pFile)

	if err != nil {
		return nil, nil, err
	}

	reg, err := s.registration()

	if err != nil {
		return nil, nil, err
	}

	h, err := s.load()

	if err != nil {
		return nil, nil, err
	}

	return reg, h, nil
}

package vfs

/*
#cgo CFLAGS: -I${SRCDIR}/../../internal/sqliteabi
#cgo linux LDFLAGS: -Wl,--unresolved-symbols=ignore-in-object-files
#cgo darwin LDFLAGS: -Wl,-undefined,dynamic_lookup

#include "vfs.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/cgo"
	"sort"
	"sync"
	"unsafe"

	"github.com/litebase/sqliteplugin/internal/utils"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/puzpuzpuz/xsync/v4"
)

type RegisterOpts struct {
	// MakeDefault makes the VFS the one used by connections that do not
	// name a VFS.
	MakeDefault bool
}

var (
	registerMutex = &sync.Mutex{}
	registrations = xsync.NewMap[string, *registration]()
)

// registration ties a backend to the C tables registered with SQLite. It is
// never released once SQLite accepted it, since SQLite has no way to signal
// that a VFS is no longer used.
type registration struct {
	name    string
	fs      fileSystem
	host    *host
	logger  *Logger
	cName   *C.char
	appData *C.govfs_app_data
	vfs     *C.sqlite3_vfs
	handle  cgo.Handle
}

// Register registers backend with the SQLite library linked into the
// binary, such as the one bundled by github.com/mattn/go-sqlite3.
//
// Register panics when the linked SQLite is older than 3.44.0, since the
// tables it builds would not match the engine's layout.
func Register[H Handle](name string, backend VFS[H], opts RegisterOpts) error {
	h, err := staticHost()

	if err != nil {
		return fmt.Errorf("register vfs %q: %w: %w", name, err, sqlite3.ErrInternal)
	}

	return register(h, name, newAdapter(backend), opts)
}

// RegisterDynamic registers backend with an engine that supplies its
// routines at runtime, for example while loading an extension. A nil entry
// in routines fails with sqlite3.ErrInternal.
func RegisterDynamic[H Handle](routines HostRoutines, name string, backend VFS[H], opts RegisterOpts) error {
	h, err := dynamicHost(routines)

	if err != nil {
		return fmt.Errorf("register vfs %q: unsupported host routine table: %w", name, err)
	}

	return register(h, name, newAdapter(backend), opts)
}

// RegisterExtension registers backend from a loadable extension's entry
// point. pApi is the const sqlite3_api_routines* SQLite passes to
// sqlite3_<name>_init. A nil table, or one missing a routine the layer
// calls, fails with sqlite3.ErrInternal.
func RegisterExtension[H Handle](pApi unsafe.Pointer, name string, backend VFS[H], opts RegisterOpts) error {
	h, err := extensionHost(pApi)

	if err != nil {
		return fmt.Errorf("register vfs %q: unsupported sqlite3_api_routines: %w", name, err)
	}

	return register(h, name, newAdapter(backend), opts)
}

// IsRegistered reports whether this process registered a VFS called name.
func IsRegistered(name string) bool {
	_, ok := registrations.Load(name)

	return ok
}

// Registered returns the names of the VFSes registered by this process.
func Registered() []string {
	names := make([]string, 0, registrations.Size())

	registrations.Range(func(name string, _ *registration) bool {
		names = append(names, name)

		return true
	})

	sort.Strings(names)

	return names
}

func register(h *host, name string, fs fileSystem, opts RegisterOpts) error {
	version := h.libVersionNumber()

	if version < sqlite3.MinVersionNumber {
		panic(fmt.Sprintf("sqlite3 must be at least version %d, found version %d", sqlite3.MinVersionNumber, version))
	}

	registerMutex.Lock()
	defer registerMutex.Unlock()

	if _, ok := registrations.Load(name); ok {
		return fmt.Errorf("register vfs %q: already registered: %w", name, sqlite3.ErrMisuse)
	}

	var ioMethods C.sqlite3_io_methods
	C.govfs_init_io_methods(&ioMethods)

	logger := newLogger(h)
	fs.registerLogger(logger)

	cName, err := utils.SafeCString(name)

	if err != nil {
		if errors.Is(err, utils.ErrInteriorNul) {
			return fmt.Errorf("register vfs %q: %w: %w", name, err, sqlite3.ErrInternal)
		}

		return fmt.Errorf("register vfs %q: %w: %w", name, err, sqlite3.ErrNoMem)
	}

	base := h.defaultVFS()

	reg := &registration{
		name:   name,
		fs:     fs,
		host:   h,
		logger: logger,
		cName:  (*C.char)(cName),
	}

	reg.appData = (*C.govfs_app_data)(utils.Malloc(unsafe.Sizeof(C.govfs_app_data{})))

	if reg.appData == nil {
		reg.release()

		return fmt.Errorf("register vfs %q: %w", name, sqlite3.ErrNoMem)
	}

	reg.handle = cgo.NewHandle(reg)
	reg.appData.pBase = base
	reg.appData.ioMethods = ioMethods
	reg.appData.host = h.routines
	reg.appData.registration = C.uintptr_t(reg.handle)

	reg.vfs = (*C.sqlite3_vfs)(utils.Malloc(unsafe.Sizeof(C.sqlite3_vfs{})))

	if reg.vfs == nil {
		reg.release()

		return fmt.Errorf("register vfs %q: %w", name, sqlite3.ErrNoMem)
	}

	C.govfs_init_vfs(
		reg.vfs,
		C.int(unsafe.Sizeof(C.govfs_file{})),
		C.int(MaxPathname),
		reg.cName,
		unsafe.Pointer(reg.appData),
	)

	if rc := h.register(reg.vfs, opts.MakeDefault); rc != sqlite3.SQLITE_OK {
		reg.release()

		return fmt.Errorf("register vfs %q: %w", name, sqlite3.ErrorCode(rc))
	}

	registrations.Store(name, reg)

	slog.Debug("Registered VFS", "name", name, "default", opts.MakeDefault)

	return nil
}

// release frees everything a registration allocated. It is only used when
// SQLite did not accept the registration.
func (r *registration) release() {
	if r.vfs != nil {
		utils.Free(unsafe.Pointer(r.vfs))
		r.vfs = nil
	}

	if r.appData != nil {
		utils.Free(unsafe.Pointer(r.appData))
		r.appData = nil
	}

	if r.handle != 0 {
		r.handle.Delete()
		r.handle = 0
	}

	if r.cName != nil {
		utils.Free(unsafe.Pointer(r.cName))
		r.cName = nil
	}
}

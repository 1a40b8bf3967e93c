// Package vfs lets Go code implement a SQLite virtual file system. A backend
// implements VFS and is handed to Register, which builds the sqlite3_vfs and
// sqlite3_io_methods tables and registers them with the engine.
package vfs

import (
	"errors"
	"fmt"
	"time"

	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

// Handle identifies one open file of a backend.
type Handle interface {
	// ReadOnly reports whether the file was opened read-only. It is reflected
	// in the output flags of xOpen.
	ReadOnly() bool

	// InMemory reports whether the file lives in memory only.
	InMemory() bool
}

// VFS is the set of operations every backend provides. Errors wrapping a
// sqlite3.ErrorCode are passed to SQLite as that code; any other error is
// reported with the operation's default I/O error code.
//
// Methods may be called concurrently from any goroutine, including for the
// same handle.
type VFS[H Handle] interface {
	// RegisterLogger is called once, before any other method, with a logger
	// that writes to SQLite's log.
	RegisterLogger(logger *Logger)

	// Open opens a file. A nil path asks for an anonymous temporary file.
	Open(path *string, opts flags.OpenOpts) (H, error)

	Delete(path string) error

	Access(path string, access flags.AccessFlags) (bool, error)

	FileSize(h H) (int64, error)

	// Truncate sets the file size. Growing a file fills it with zeroes.
	Truncate(h H, size int64) error

	// Write writes all of p at off, growing the file as needed. Writing fewer
	// than len(p) bytes is reported to SQLite as a write error.
	Write(h H, p []byte, off int64) (int, error)

	// Read reads into p from off. Reading past the end of the file returns
	// the number of bytes available, zero if off is past the end.
	Read(h H, p []byte, off int64) (int, error)

	// Close releases the handle. It is never used again afterwards.
	Close(h H) error
}

// Locker is implemented by backends that take real locks. Without it locking
// always succeeds.
type Locker[H Handle] interface {
	Lock(h H, level flags.LockLevel) error
	Unlock(h H, level flags.LockLevel) error
}

// ReservedLockChecker reports whether any connection holds a RESERVED or
// higher lock on the file.
type ReservedLockChecker[H Handle] interface {
	CheckReservedLock(h H) (bool, error)
}

type Syncer[H Handle] interface {
	Sync(h H) error
}

// PragmaHandler receives the PRAGMA statements SQLite forwards to the VFS.
// Return ErrPragmaNotFound to let SQLite handle the pragma itself.
type PragmaHandler[H Handle] interface {
	Pragma(h H, pragma Pragma) (string, error)
}

// PathCanonicalizer turns a path into the form stored by the backend. Paths
// are used unchanged otherwise.
type PathCanonicalizer interface {
	CanonicalPath(path string) (string, error)
}

type SectorSizer interface {
	SectorSize() int
}

type DeviceCharacterizer interface {
	DeviceCharacteristics() int
}

// Randomizer fills p with random bytes and returns how many were written.
// Without it SQLite's default VFS provides randomness.
type Randomizer interface {
	Randomness(p []byte) int
}

// Sleeper sleeps for at least d and returns the time actually slept.
type Sleeper interface {
	Sleep(d time.Duration) time.Duration
}

type Clock interface {
	CurrentTime() time.Time
}

const (
	DefaultSectorSize = 4096

	DefaultDeviceCharacteristics = sqlite3.SQLITE_IOCAP_ATOMIC |
		sqlite3.SQLITE_IOCAP_POWERSAFE_OVERWRITE |
		sqlite3.SQLITE_IOCAP_SAFE_APPEND |
		sqlite3.SQLITE_IOCAP_SEQUENTIAL

	// MaxPathname is the buffer size SQLite allocates for xFullPathname.
	MaxPathname = 512
)

// Pragma is a PRAGMA statement forwarded by SQLite. Arg is nil when the
// pragma was given without a value.
type Pragma struct {
	Name string
	Arg  *string
}

func (p Pragma) String() string {
	if p.Arg == nil {
		return p.Name
	}

	return fmt.Sprintf("%s=%s", p.Name, *p.Arg)
}

// ErrPragmaNotFound declines a pragma so SQLite can handle it.
var ErrPragmaNotFound = errors.New("pragma not found")

// PragmaError is a pragma the backend recognised but failed to apply. The
// message is returned to the SQL caller as the error text.
type PragmaError struct {
	Message string
}

func (e *PragmaError) Error() string {
	return e.Message
}

// RequiredArgError is the failure for a pragma that needs a value.
func RequiredArgError(p Pragma) *PragmaError {
	return &PragmaError{Message: fmt.Sprintf("argument required for pragma %q", p.Name)}
}

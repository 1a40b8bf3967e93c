// Package mockvfs is a small in-memory VFS backend for tests. Every call is
// written to the SQLite log and handed to the matching hook, if set.
package mockvfs

import (
	"fmt"
	"sync"

	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
)

// Hooks observe the calls made to a VFS. Pragma also decides the result of
// a pragma; without it every pragma is declined.
type Hooks struct {
	CanonicalPath         func(path string)
	Open                  func(path *string, opts flags.OpenOpts)
	Delete                func(path string)
	Access                func(path string, access flags.AccessFlags)
	FileSize              func(h Handle)
	Truncate              func(h Handle, size int64)
	Write                 func(h Handle, off int64, p []byte)
	Read                  func(h Handle, off int64, p []byte)
	Sync                  func(h Handle)
	Close                 func(h Handle)
	Pragma                func(h Handle, pragma vfs.Pragma) (string, error)
	SectorSize            func()
	DeviceCharacteristics func()
}

type Handle struct {
	ID       int
	readOnly bool
}

func NewHandle(id int, readOnly bool) Handle {
	return Handle{ID: id, readOnly: readOnly}
}

func (h Handle) ReadOnly() bool {
	return h.readOnly
}

func (h Handle) InMemory() bool {
	return false
}

func (h Handle) String() string {
	return fmt.Sprintf("MockHandle(%d)", h.ID)
}

type File struct {
	Name          string
	Data          []byte
	DeleteOnClose bool
}

type VFS struct {
	mutex               sync.Mutex
	nextID              int
	files               map[int]*File
	hooks               Hooks
	logger              *vfs.Logger
	loggerRegistrations int
}

func New(hooks Hooks) *VFS {
	return &VFS{
		files: make(map[int]*File),
		hooks: hooks,
	}
}

// LoggerRegistrations returns how many times RegisterLogger was called.
func (m *VFS) LoggerRegistrations() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.loggerRegistrations
}

// Logger returns the logger handed to RegisterLogger.
func (m *VFS) Logger() *vfs.Logger {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.logger
}

// Contents returns a copy of the named file's data.
func (m *VFS) Contents(name string) ([]byte, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, file := range m.files {
		if file.Name == name {
			return append([]byte(nil), file.Data...), true
		}
	}

	return nil, false
}

// log must be called with the mutex held.
func (m *VFS) log(format string, args ...any) {
	if m.logger == nil {
		panic("mockvfs is missing its registered logger")
	}

	m.logger.Notice(fmt.Sprintf(format, args...))
}

func (m *VFS) RegisterLogger(logger *vfs.Logger) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger = logger
	m.loggerRegistrations++
}

func (m *VFS) CanonicalPath(path string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("canonical_path: path=%q", path)

	if m.hooks.CanonicalPath != nil {
		m.hooks.CanonicalPath(path)
	}

	return path, nil
}

func (m *VFS) Open(path *string, opts flags.OpenOpts) (Handle, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if path == nil {
		m.log("open: path=<anonymous> opts=%s", opts)
	} else {
		m.log("open: path=%q opts=%s", *path, opts)
	}

	if m.hooks.Open != nil {
		m.hooks.Open(path, opts)
	}

	handle := NewHandle(m.nextID, opts.Mode().IsReadOnly())
	m.nextID++

	file := &File{DeleteOnClose: opts.DeleteOnClose()}

	if path != nil {
		for id, existing := range m.files {
			if existing.Name == *path {
				return NewHandle(id, handle.readOnly), nil
			}
		}

		file.Name = *path
	}

	m.files[handle.ID] = file

	return handle, nil
}

func (m *VFS) Delete(path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("delete: path=%q", path)

	if m.hooks.Delete != nil {
		m.hooks.Delete(path)
	}

	for id, file := range m.files {
		if file.Name == path {
			delete(m.files, id)
		}
	}

	return nil
}

func (m *VFS) Access(path string, access flags.AccessFlags) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("access: path=%q flags=%s", path, access)

	if m.hooks.Access != nil {
		m.hooks.Access(path, access)
	}

	for _, file := range m.files {
		if file.Name == path {
			return true, nil
		}
	}

	return false, nil
}

func (m *VFS) FileSize(h Handle) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("file_size: handle=%s", h)

	if m.hooks.FileSize != nil {
		m.hooks.FileSize(h)
	}

	if file, ok := m.files[h.ID]; ok {
		return int64(len(file.Data)), nil
	}

	return 0, nil
}

func (m *VFS) Truncate(h Handle, size int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("truncate: handle=%s size=%d", h, size)

	if m.hooks.Truncate != nil {
		m.hooks.Truncate(h, size)
	}

	if file, ok := m.files[h.ID]; ok {
		if size > int64(len(file.Data)) {
			file.Data = append(file.Data, make([]byte, size-int64(len(file.Data)))...)
		} else {
			file.Data = file.Data[:size]
		}
	}

	return nil
}

func (m *VFS) Write(h Handle, p []byte, off int64) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("write: handle=%s offset=%d len=%d", h, off, len(p))

	if m.hooks.Write != nil {
		m.hooks.Write(h, off, p)
	}

	file, ok := m.files[h.ID]

	if !ok {
		return 0, sqlite3.ErrIOWrite
	}

	if end := off + int64(len(p)); end > int64(len(file.Data)) {
		file.Data = append(file.Data, make([]byte, end-int64(len(file.Data)))...)
	}

	return copy(file.Data[off:], p), nil
}

func (m *VFS) Read(h Handle, p []byte, off int64) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("read: handle=%s offset=%d len=%d", h, off, len(p))

	if m.hooks.Read != nil {
		m.hooks.Read(h, off, p)
	}

	file, ok := m.files[h.ID]

	if !ok {
		return 0, sqlite3.ErrIORead
	}

	if off > int64(len(file.Data)) {
		return 0, nil
	}

	return copy(p, file.Data[off:]), nil
}

func (m *VFS) Sync(h Handle) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("sync: handle=%s", h)

	if m.hooks.Sync != nil {
		m.hooks.Sync(h)
	}

	return nil
}

func (m *VFS) Lock(h Handle, level flags.LockLevel) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("lock: handle=%s level=%s", h, level)

	return nil
}

func (m *VFS) Unlock(h Handle, level flags.LockLevel) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("unlock: handle=%s level=%s", h, level)

	return nil
}

func (m *VFS) CheckReservedLock(h Handle) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("check_reserved_lock: handle=%s", h)

	return false, nil
}

func (m *VFS) Close(h Handle) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("close: handle=%s", h)

	if m.hooks.Close != nil {
		m.hooks.Close(h)
	}

	if file, ok := m.files[h.ID]; ok && file.DeleteOnClose {
		delete(m.files, h.ID)
	}

	return nil
}

func (m *VFS) Pragma(h Handle, pragma vfs.Pragma) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("pragma: handle=%s pragma=%s", h, pragma)

	if m.hooks.Pragma != nil {
		return m.hooks.Pragma(h, pragma)
	}

	return "", vfs.ErrPragmaNotFound
}

func (m *VFS) SectorSize() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("sector_size")

	if m.hooks.SectorSize != nil {
		m.hooks.SectorSize()
	}

	return vfs.DefaultSectorSize
}

func (m *VFS) DeviceCharacteristics() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.log("device_characteristics")

	if m.hooks.DeviceCharacteristics != nil {
		m.hooks.DeviceCharacteristics()
	}

	return vfs.DefaultDeviceCharacteristics
}

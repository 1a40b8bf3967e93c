// Package memvfs is a VFS backend that keeps every file in memory. Files
// live as long as the process unless deleted, so a database can be closed
// and reopened by name.
package memvfs

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
	"github.com/puzpuzpuz/xsync/v4"
)

const DefaultName = "mem"

// File is an open handle on an in-memory file.
type File struct {
	id            string
	name          *string
	buffer        *Buffer
	deleteOnClose bool
	opts          flags.OpenOpts
}

func (f *File) ReadOnly() bool {
	return f.opts.Mode().IsReadOnly()
}

func (f *File) InMemory() bool {
	return true
}

// Name returns the file's name, or its generated id for anonymous files.
func (f *File) Name() string {
	if f.name == nil {
		return f.id
	}

	return *f.name
}

func (f *File) Buffer() *Buffer {
	return f.buffer
}

type VFS struct {
	files  *xsync.Map[string, *Buffer]
	logger *slog.Logger
}

func New() *VFS {
	return &VFS{
		files:  xsync.NewMap[string, *Buffer](),
		logger: slog.New(slog.DiscardHandler),
	}
}

// Register registers a new in-memory VFS with the SQLite linked into the
// binary.
func Register(name string, opts vfs.RegisterOpts) (*VFS, error) {
	m := New()

	if err := vfs.Register[*File](name, m, opts); err != nil {
		return nil, err
	}

	return m, nil
}

// RegisterDynamic registers a new in-memory VFS with an engine that supplies
// its routines at runtime.
func RegisterDynamic(routines vfs.HostRoutines, name string, opts vfs.RegisterOpts) (*VFS, error) {
	m := New()

	if err := vfs.RegisterDynamic[*File](routines, name, m, opts); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *VFS) RegisterLogger(logger *vfs.Logger) {
	m.logger = logger.Slog().With("vfs", "memvfs")
}

// Files returns the names of the files currently stored.
func (m *VFS) Files() []string {
	names := make([]string, 0, m.files.Size())

	m.files.Range(func(name string, _ *Buffer) bool {
		names = append(names, name)

		return true
	})

	return names
}

func (m *VFS) Open(path *string, opts flags.OpenOpts) (*File, error) {
	mode := opts.Mode()

	// There is no pre-existing data a read-only open could read.
	if mode.IsReadOnly() {
		return nil, sqlite3.ErrCantOpen
	}

	file := &File{
		id:            uuid.NewString(),
		deleteOnClose: opts.DeleteOnClose(),
		opts:          opts,
	}

	if path == nil {
		m.logger.Debug("open", "file", file.id, "opts", opts.String())

		file.buffer = NewBuffer(nil)

		return file, nil
	}

	m.logger.Debug("open", "file", *path, "opts", opts.String())

	buffer, loaded := m.files.LoadOrStore(*path, NewBuffer(nil))

	if loaded && mode.MustCreate() {
		return nil, sqlite3.ErrCantOpen
	}

	name := *path
	file.name = &name
	file.buffer = buffer

	return file, nil
}

func (m *VFS) Delete(path string) error {
	m.logger.Debug("delete", "path", path)

	if _, ok := m.files.LoadAndDelete(path); !ok {
		return sqlite3.ErrIODeleteNoEnt
	}

	return nil
}

func (m *VFS) Access(path string, access flags.AccessFlags) (bool, error) {
	m.logger.Debug("access", "path", path, "flags", access.String())

	_, ok := m.files.Load(path)

	return ok, nil
}

func (m *VFS) FileSize(f *File) (int64, error) {
	m.logger.Debug("file_size", "file", f.Name())

	return f.buffer.Len(), nil
}

func (m *VFS) Truncate(f *File, size int64) error {
	m.logger.Debug("truncate", "file", f.Name(), "size", size)

	f.buffer.Truncate(size)

	return nil
}

func (m *VFS) Write(f *File, p []byte, off int64) (int, error) {
	m.logger.Debug("write", "file", f.Name(), "offset", off, "len", len(p))

	return f.buffer.WriteAt(p, off), nil
}

func (m *VFS) Read(f *File, p []byte, off int64) (int, error) {
	m.logger.Debug("read", "file", f.Name(), "offset", off, "len", len(p))

	return f.buffer.ReadAt(p, off), nil
}

func (m *VFS) Sync(f *File) error {
	m.logger.Debug("sync", "file", f.Name())

	return nil
}

func (m *VFS) Lock(f *File, level flags.LockLevel) error {
	m.logger.Debug("lock", "file", f.Name(), "level", level.String())

	return nil
}

func (m *VFS) Unlock(f *File, level flags.LockLevel) error {
	m.logger.Debug("unlock", "file", f.Name(), "level", level.String())

	return nil
}

// Close deletes a delete-on-close file. A file that is already gone is not
// an error.
func (m *VFS) Close(f *File) error {
	m.logger.Debug("close", "file", f.Name())

	if f.deleteOnClose && f.name != nil {
		if err := m.Delete(*f.name); err != nil && !errors.Is(err, sqlite3.ErrIODeleteNoEnt) {
			return err
		}
	}

	return nil
}

func (m *VFS) Pragma(f *File, pragma vfs.Pragma) (string, error) {
	m.logger.Debug("pragma", "file", f.Name(), "pragma", pragma.String())

	return "", vfs.ErrPragmaNotFound
}

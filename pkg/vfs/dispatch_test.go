package vfs_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/litebase/sqliteplugin/internal/mockvfs"
	"github.com/litebase/sqliteplugin/internal/sqlitetest"
	"github.com/litebase/sqliteplugin/internal/utils"
	"github.com/litebase/sqliteplugin/pkg/flags"
	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	"github.com/litebase/sqliteplugin/pkg/vfs"
)

const mainDbFlags = sqlite3.SQLITE_OPEN_MAIN_DB | sqlite3.SQLITE_OPEN_READWRITE | sqlite3.SQLITE_OPEN_CREATE

func ptr[T any](v T) *T {
	return &v
}

// shortWriteVFS reports one byte less than it wrote.
type shortWriteVFS struct {
	*mockvfs.VFS
}

func (s shortWriteVFS) Write(h mockvfs.Handle, p []byte, off int64) (int, error) {
	n, err := s.VFS.Write(h, p, off)

	return n - 1, err
}

// failingOpenVFS fails every open with err.
type failingOpenVFS struct {
	*mockvfs.VFS
	err error
}

func (f failingOpenVFS) Open(path *string, opts flags.OpenOpts) (mockvfs.Handle, error) {
	return mockvfs.Handle{}, f.err
}

// failingSyncVFS fails every sync with err.
type failingSyncVFS struct {
	*mockvfs.VFS
	err error
}

func (f failingSyncVFS) Sync(h mockvfs.Handle) error {
	return f.err
}

func TestOpenPassesDecodedOptions(t *testing.T) {
	var got flags.OpenOpts
	var gotPath *string

	_, driver := registerMock(t, mockvfs.Hooks{
		Open: func(path *string, opts flags.OpenOpts) {
			gotPath = path
			got = opts
		},
	})

	f, outFlags, rc := driver.Open(ptr("main.db"), mainDbFlags)

	if rc != sqlite3.SQLITE_OK {
		t.Fatalf("Open() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	defer f.Close()

	if gotPath == nil || *gotPath != "main.db" {
		t.Errorf("Open() failed, expected path main.db, got %v", gotPath)
	}

	if got.Kind() != flags.OpenKindMainDb {
		t.Errorf("Kind() failed, expected %s, got %s", flags.OpenKindMainDb, got.Kind())
	}

	if got.Mode() != (flags.OpenMode{Create: flags.CreateModeCreate}) {
		t.Errorf("Mode() failed, expected read-write create, got %s", got.Mode())
	}

	if got.DeleteOnClose() {
		t.Errorf("DeleteOnClose() failed, expected false, got true")
	}

	if outFlags != mainDbFlags {
		t.Errorf("Open() failed, expected out flags %#x, got %#x", mainDbFlags, outFlags)
	}

	if !f.HasMethods() {
		t.Errorf("Open() failed, expected the file to have io methods")
	}
}

func TestOpenReadOnlySetsOutFlag(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	f, outFlags, rc := driver.Open(ptr("ro.db"), sqlite3.SQLITE_OPEN_MAIN_DB|sqlite3.SQLITE_OPEN_READONLY)

	if rc != sqlite3.SQLITE_OK {
		t.Fatalf("Open() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	defer f.Close()

	if outFlags&sqlite3.SQLITE_OPEN_READONLY == 0 {
		t.Errorf("Open() failed, expected SQLITE_OPEN_READONLY in %#x", outFlags)
	}

	if outFlags&sqlite3.SQLITE_OPEN_MEMORY != 0 {
		t.Errorf("Open() failed, expected no SQLITE_OPEN_MEMORY in %#x", outFlags)
	}
}

func TestOpenAnonymousFile(t *testing.T) {
	var gotPath *string
	called := false

	_, driver := registerMock(t, mockvfs.Hooks{
		Open: func(path *string, opts flags.OpenOpts) {
			called = true
			gotPath = path
		},
	})

	f, _, rc := driver.Open(nil, sqlite3.SQLITE_OPEN_TEMP_JOURNAL|sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE|sqlite3.SQLITE_OPEN_DELETEONCLOSE)

	if rc != sqlite3.SQLITE_OK {
		t.Fatalf("Open() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if !called || gotPath != nil {
		t.Errorf("Open() failed, expected a nil path, got %v", gotPath)
	}

	if rc := f.Write([]byte("temp"), 0); rc != sqlite3.SQLITE_OK {
		t.Errorf("Write() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if rc := f.Close(); rc != sqlite3.SQLITE_OK {
		t.Errorf("Close() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}
}

func TestOpenFailure(t *testing.T) {
	for _, tc := range []struct {
		err      error
		expected int32
	}{
		{errors.New("no such file"), sqlite3.SQLITE_CANTOPEN},
		{fmt.Errorf("denied: %w", sqlite3.ErrPerm), sqlite3.SQLITE_PERM},
	} {
		sqlitetest.Reset()

		name := uniqueName(t)
		backend := failingOpenVFS{VFS: mockvfs.New(mockvfs.Hooks{}), err: tc.err}

		if err := vfs.RegisterDynamic[mockvfs.Handle](sqlitetest.Routines(), name, backend, vfs.RegisterOpts{}); err != nil {
			t.Fatalf("RegisterDynamic() failed, expected nil, got %v", err)
		}

		rc, clean := sqlitetest.Find(name).OpenFailedCleanly(ptr("main.db"), mainDbFlags)

		if rc != tc.expected {
			t.Errorf("Open() failed, expected %d, got %d", tc.expected, rc)
		}

		if !clean {
			t.Errorf("Open() failed, expected the file to have no io methods")
		}
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	backend, driver := registerMock(t, mockvfs.Hooks{})

	f, _, rc := driver.Open(ptr("data.db"), mainDbFlags)

	if rc != sqlite3.SQLITE_OK {
		t.Fatalf("Open() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	defer f.Close()

	if rc := f.Write([]byte("hello"), 3); rc != sqlite3.SQLITE_OK {
		t.Errorf("Write() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	data, rc := f.Read(8, 0)

	if rc != sqlite3.SQLITE_OK {
		t.Errorf("Read() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if !bytes.Equal(data, []byte("\x00\x00\x00hello")) {
		t.Errorf("Read() failed, expected %q, got %q", "\x00\x00\x00hello", data)
	}

	size, rc := f.Size()

	if rc != sqlite3.SQLITE_OK || size != 8 {
		t.Errorf("Size() failed, expected 8, got %d (rc %d)", size, rc)
	}

	if rc := f.Truncate(4); rc != sqlite3.SQLITE_OK {
		t.Errorf("Truncate() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if contents, _ := backend.Contents("data.db"); !bytes.Equal(contents, []byte("\x00\x00\x00h")) {
		t.Errorf("Truncate() failed, expected %q, got %q", "\x00\x00\x00h", contents)
	}

	if rc := f.Sync(sqlite3.SQLITE_SYNC_NORMAL); rc != sqlite3.SQLITE_OK {
		t.Errorf("Sync() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}
}

func TestShortReadZeroFillsTail(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	f, _, _ := driver.Open(ptr("short.db"), mainDbFlags)
	defer f.Close()

	f.Write([]byte("abc"), 0)

	data, rc := f.Read(6, 1)

	if rc != sqlite3.SQLITE_IOERR_SHORT_READ {
		t.Errorf("Read() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_SHORT_READ, rc)
	}

	if !bytes.Equal(data, []byte("bc\x00\x00\x00\x00")) {
		t.Errorf("Read() failed, expected %q, got %q", "bc\x00\x00\x00\x00", data)
	}

	data, rc = f.Read(4, 100)

	if rc != sqlite3.SQLITE_IOERR_SHORT_READ {
		t.Errorf("Read() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_SHORT_READ, rc)
	}

	if !bytes.Equal(data, make([]byte, 4)) {
		t.Errorf("Read() failed, expected zeroes, got %q", data)
	}
}

func TestShortWriteIsAnError(t *testing.T) {
	sqlitetest.Reset()

	name := uniqueName(t)
	backend := shortWriteVFS{VFS: mockvfs.New(mockvfs.Hooks{})}

	if err := vfs.RegisterDynamic[mockvfs.Handle](sqlitetest.Routines(), name, backend, vfs.RegisterOpts{}); err != nil {
		t.Fatalf("RegisterDynamic() failed, expected nil, got %v", err)
	}

	f, _, _ := sqlitetest.Find(name).Open(ptr("main.db"), mainDbFlags)
	defer f.Close()

	if rc := f.Write([]byte("hello"), 0); rc != sqlite3.SQLITE_IOERR_WRITE {
		t.Errorf("Write() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_WRITE, rc)
	}
}

func TestNegativeArgumentsAreIOErrors(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	f, _, _ := driver.Open(ptr("neg.db"), mainDbFlags)
	defer f.Close()

	if _, rc := f.Read(4, -1); rc != sqlite3.SQLITE_IOERR_READ {
		t.Errorf("Read() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_READ, rc)
	}

	if rc := f.Write([]byte("x"), -1); rc != sqlite3.SQLITE_IOERR_WRITE {
		t.Errorf("Write() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_WRITE, rc)
	}

	if rc := f.Truncate(-1); rc != sqlite3.SQLITE_IOERR_TRUNCATE {
		t.Errorf("Truncate() failed, expected %d, got %d", sqlite3.SQLITE_IOERR_TRUNCATE, rc)
	}
}

func TestBackendErrorsKeepTheirCode(t *testing.T) {
	for _, tc := range []struct {
		err      error
		expected int32
	}{
		{fmt.Errorf("disk: %w", sqlite3.ErrFull), sqlite3.SQLITE_FULL},
		{errors.New("disk gone"), sqlite3.SQLITE_IOERR_FSYNC},
		{nil, sqlite3.SQLITE_OK},
	} {
		sqlitetest.Reset()

		name := uniqueName(t)
		backend := failingSyncVFS{VFS: mockvfs.New(mockvfs.Hooks{}), err: tc.err}

		if err := vfs.RegisterDynamic[mockvfs.Handle](sqlitetest.Routines(), name, backend, vfs.RegisterOpts{}); err != nil {
			t.Fatalf("RegisterDynamic() failed, expected nil, got %v", err)
		}

		f, _, _ := sqlitetest.Find(name).Open(ptr("sync.db"), mainDbFlags)

		if rc := f.Sync(sqlite3.SQLITE_SYNC_NORMAL); rc != tc.expected {
			t.Errorf("Sync() failed, expected %d, got %d", tc.expected, rc)
		}

		f.Close()
	}
}

func TestPanicIsContained(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{
		Read: func(h mockvfs.Handle, off int64, p []byte) {
			panic("boom")
		},
	})

	f, _, _ := driver.Open(ptr("panic.db"), mainDbFlags)

	if _, rc := f.Read(4, 0); rc != sqlite3.SQLITE_INTERNAL {
		t.Errorf("Read() failed, expected %d, got %d", sqlite3.SQLITE_INTERNAL, rc)
	}

	// The backend is still usable after the panic.
	if rc := f.Write([]byte("ok"), 0); rc != sqlite3.SQLITE_OK {
		t.Errorf("Write() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if rc := f.Close(); rc != sqlite3.SQLITE_OK {
		t.Errorf("Close() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}
}

func TestLocking(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	f, _, _ := driver.Open(ptr("lock.db"), mainDbFlags)
	defer f.Close()

	for _, level := range []int32{sqlite3.SQLITE_LOCK_SHARED, sqlite3.SQLITE_LOCK_RESERVED, sqlite3.SQLITE_LOCK_EXCLUSIVE} {
		if rc := f.Lock(level); rc != sqlite3.SQLITE_OK {
			t.Errorf("Lock(%d) failed, expected %d, got %d", level, sqlite3.SQLITE_OK, rc)
		}
	}

	reserved, rc := f.CheckReservedLock()

	if rc != sqlite3.SQLITE_OK || reserved {
		t.Errorf("CheckReservedLock() failed, expected false, got %v (rc %d)", reserved, rc)
	}

	if rc := f.Unlock(sqlite3.SQLITE_LOCK_NONE); rc != sqlite3.SQLITE_OK {
		t.Errorf("Unlock() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}
}

func TestSectorSizeAndDeviceCharacteristics(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	f, _, _ := driver.Open(ptr("dev.db"), mainDbFlags)
	defer f.Close()

	if size := f.SectorSize(); size != vfs.DefaultSectorSize {
		t.Errorf("SectorSize() failed, expected %d, got %d", vfs.DefaultSectorSize, size)
	}

	if c := f.DeviceCharacteristics(); c != vfs.DefaultDeviceCharacteristics {
		t.Errorf("DeviceCharacteristics() failed, expected %#x, got %#x", vfs.DefaultDeviceCharacteristics, c)
	}
}

func pragmaHooks() mockvfs.Hooks {
	return mockvfs.Hooks{
		Pragma: func(h mockvfs.Handle, p vfs.Pragma) (string, error) {
			switch p.Name {
			case "test_none":
				return "", nil
			case "test_fail":
				return "", &vfs.PragmaError{Message: "x"}
			case "test_error":
				return "", errors.New("plain error")
			case "test_echo":
				if p.Arg == nil {
					return "", vfs.RequiredArgError(p)
				}

				return *p.Arg, nil
			}

			return "", vfs.ErrPragmaNotFound
		},
	}
}

func TestPragma(t *testing.T) {
	_, driver := registerMock(t, pragmaHooks())

	f, _, _ := driver.Open(ptr("pragma.db"), mainDbFlags)
	defer f.Close()

	for _, tc := range []struct {
		name    string
		arg     *string
		message *string
		rc      int32
	}{
		{"test_none", nil, nil, sqlite3.SQLITE_OK},
		{"test_fail", nil, ptr("x"), sqlite3.SQLITE_ERROR},
		{"test_error", nil, ptr("plain error"), sqlite3.SQLITE_ERROR},
		{"test_echo", ptr("hello"), ptr("hello"), sqlite3.SQLITE_OK},
		{"test_echo", nil, ptr(`argument required for pragma "test_echo"`), sqlite3.SQLITE_ERROR},
		{"journal_mode", ptr("wal"), nil, sqlite3.SQLITE_NOTFOUND},
	} {
		msg, rc := f.Pragma(tc.name, tc.arg)

		if rc != tc.rc {
			t.Errorf("Pragma(%s) failed, expected %d, got %d", tc.name, tc.rc, rc)
		}

		switch {
		case tc.message == nil && msg != nil:
			t.Errorf("Pragma(%s) failed, expected no message, got %q", tc.name, *msg)
		case tc.message != nil && msg == nil:
			t.Errorf("Pragma(%s) failed, expected %q, got no message", tc.name, *tc.message)
		case tc.message != nil && *msg != *tc.message:
			t.Errorf("Pragma(%s) failed, expected %q, got %q", tc.name, *tc.message, *msg)
		}
	}
}

func TestPragmaMessageAllocationFailure(t *testing.T) {
	_, driver := registerMock(t, pragmaHooks())

	f, _, _ := driver.Open(ptr("nomem.db"), mainDbFlags)
	defer f.Close()

	sqlitetest.SetMprintfFails(true)
	defer sqlitetest.SetMprintfFails(false)

	msg, rc := f.Pragma("test_echo", ptr("hello"))

	if rc != sqlite3.SQLITE_NOMEM {
		t.Errorf("Pragma() failed, expected %d, got %d", sqlite3.SQLITE_NOMEM, rc)
	}

	if msg != nil {
		t.Errorf("Pragma() failed, expected no message, got %q", *msg)
	}
}

func TestFileControlIgnoresOtherOps(t *testing.T) {
	_, driver := registerMock(t, pragmaHooks())

	f, _, _ := driver.Open(ptr("fcntl.db"), mainDbFlags)
	defer f.Close()

	if rc := f.FileControl(sqlite3.SQLITE_FCNTL_SIZE_HINT); rc != sqlite3.SQLITE_NOTFOUND {
		t.Errorf("FileControl() failed, expected %d, got %d", sqlite3.SQLITE_NOTFOUND, rc)
	}
}

func TestCloseReleasesHandle(t *testing.T) {
	var closed []mockvfs.Handle

	_, driver := registerMock(t, mockvfs.Hooks{
		Close: func(h mockvfs.Handle) {
			closed = append(closed, h)
		},
	})

	before := utils.LiveAllocations()

	f, _, _ := driver.Open(ptr("doc.db"), mainDbFlags|sqlite3.SQLITE_OPEN_DELETEONCLOSE)

	if exists, _ := driver.Access("doc.db", sqlite3.SQLITE_ACCESS_EXISTS); !exists {
		t.Errorf("Access() failed, expected true, got false")
	}

	if rc := f.Close(); rc != sqlite3.SQLITE_OK {
		t.Errorf("Close() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if len(closed) != 1 {
		t.Errorf("Close() failed, expected 1 call, got %d", len(closed))
	}

	if exists, _ := driver.Access("doc.db", sqlite3.SQLITE_ACCESS_EXISTS); exists {
		t.Errorf("Access() failed, expected false after delete-on-close, got true")
	}

	if after := utils.LiveAllocations(); after != before {
		t.Errorf("Close() failed, expected %d live allocations, got %d", before, after)
	}
}

func TestDeleteAndAccess(t *testing.T) {
	var accessed flags.AccessFlags

	_, driver := registerMock(t, mockvfs.Hooks{
		Access: func(path string, access flags.AccessFlags) {
			accessed = access
		},
	})

	f, _, _ := driver.Open(ptr("del.db"), mainDbFlags)
	f.Close()

	exists, rc := driver.Access("del.db", sqlite3.SQLITE_ACCESS_READWRITE)

	if rc != sqlite3.SQLITE_OK || !exists {
		t.Errorf("Access() failed, expected true, got %v (rc %d)", exists, rc)
	}

	if accessed != flags.AccessReadWrite {
		t.Errorf("Access() failed, expected %s, got %s", flags.AccessReadWrite, accessed)
	}

	if rc := driver.Delete("del.db"); rc != sqlite3.SQLITE_OK {
		t.Errorf("Delete() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if exists, _ := driver.Access("del.db", sqlite3.SQLITE_ACCESS_EXISTS); exists {
		t.Errorf("Access() failed, expected false, got true")
	}
}

func TestFullPathname(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	path, rc := driver.FullPathname("main.db", vfs.MaxPathname)

	if rc != sqlite3.SQLITE_OK || path != "main.db" {
		t.Errorf("FullPathname() failed, expected main.db, got %q (rc %d)", path, rc)
	}
}

func TestFullPathnameTruncates(t *testing.T) {
	_, driver := registerMock(t, mockvfs.Hooks{})

	path, rc := driver.FullPathname("a-rather-long-name.db", 8)

	if rc != sqlite3.SQLITE_OK {
		t.Errorf("FullPathname() failed, expected %d, got %d", sqlite3.SQLITE_OK, rc)
	}

	if path != "a-rathe" {
		t.Errorf("FullPathname() failed, expected %q, got %q", "a-rathe", path)
	}

	warned := false

	for _, entry := range sqlitetest.Logs() {
		if entry.Code == sqlite3.SQLITE_WARNING && strings.Contains(entry.Message, "truncated") {
			warned = true
		}
	}

	if !warned {
		t.Errorf("FullPathname() failed, expected a truncation warning in %v", sqlitetest.Logs())
	}
}

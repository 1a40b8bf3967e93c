// Package flags decodes the raw integer words SQLite passes to a VFS into
// structured values.
package flags

import (
	"fmt"
	"strings"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

type OpenKind int

const (
	OpenKindUnknown OpenKind = iota
	OpenKindMainDb
	OpenKindMainJournal
	OpenKindTempDb
	OpenKindTempJournal
	OpenKindTransientDb
	OpenKindSubJournal
	OpenKindSuperJournal
	OpenKindWal
)

// Bits are tested in this order and the first match decides the kind.
var openKindBits = []struct {
	bit  int32
	kind OpenKind
}{
	{sqlite3.SQLITE_OPEN_MAIN_DB, OpenKindMainDb},
	{sqlite3.SQLITE_OPEN_MAIN_JOURNAL, OpenKindMainJournal},
	{sqlite3.SQLITE_OPEN_TEMP_DB, OpenKindTempDb},
	{sqlite3.SQLITE_OPEN_TEMP_JOURNAL, OpenKindTempJournal},
	{sqlite3.SQLITE_OPEN_TRANSIENT_DB, OpenKindTransientDb},
	{sqlite3.SQLITE_OPEN_SUBJOURNAL, OpenKindSubJournal},
	{sqlite3.SQLITE_OPEN_SUPER_JOURNAL, OpenKindSuperJournal},
	{sqlite3.SQLITE_OPEN_WAL, OpenKindWal},
}

// OpenKindFromFlags returns the file category encoded in an xOpen flags word.
func OpenKindFromFlags(flags int32) OpenKind {
	for _, k := range openKindBits {
		if flags&k.bit != 0 {
			return k.kind
		}
	}

	return OpenKindUnknown
}

// IsTemp reports whether the kind is one SQLite deletes when it is done.
func (k OpenKind) IsTemp() bool {
	return k == OpenKindTempDb || k == OpenKindTempJournal || k == OpenKindTransientDb
}

func (k OpenKind) String() string {
	switch k {
	case OpenKindMainDb:
		return "MainDb"
	case OpenKindMainJournal:
		return "MainJournal"
	case OpenKindTempDb:
		return "TempDb"
	case OpenKindTempJournal:
		return "TempJournal"
	case OpenKindTransientDb:
		return "TransientDb"
	case OpenKindSubJournal:
		return "SubJournal"
	case OpenKindSuperJournal:
		return "SuperJournal"
	case OpenKindWal:
		return "Wal"
	default:
		return "Unknown"
	}
}

type CreateMode int

const (
	CreateModeNone CreateMode = iota
	CreateModeCreate
	CreateModeMustCreate
)

func (c CreateMode) String() string {
	switch c {
	case CreateModeCreate:
		return "Create"
	case CreateModeMustCreate:
		return "MustCreate"
	default:
		return "None"
	}
}

// OpenMode is either read-only or read-write with a create mode. Create is
// always CreateModeNone when ReadOnly is set.
type OpenMode struct {
	ReadOnly bool
	Create   CreateMode
}

// OpenModeFromFlags decodes the access mode of an xOpen flags word. The
// read-only bit wins over everything else, and a word with neither the
// read-only nor the read-write bit decodes as read-only.
func OpenModeFromFlags(flags int32) OpenMode {
	const mustCreate = sqlite3.SQLITE_OPEN_CREATE | sqlite3.SQLITE_OPEN_EXCLUSIVE

	if flags&sqlite3.SQLITE_OPEN_READONLY != 0 {
		return OpenMode{ReadOnly: true}
	}

	if flags&sqlite3.SQLITE_OPEN_READWRITE == 0 {
		return OpenMode{ReadOnly: true}
	}

	switch {
	case flags&mustCreate == mustCreate:
		return OpenMode{Create: CreateModeMustCreate}
	case flags&sqlite3.SQLITE_OPEN_CREATE != 0:
		return OpenMode{Create: CreateModeCreate}
	default:
		return OpenMode{Create: CreateModeNone}
	}
}

func (m OpenMode) IsReadOnly() bool {
	return m.ReadOnly
}

func (m OpenMode) MustCreate() bool {
	return !m.ReadOnly && m.Create == CreateModeMustCreate
}

// CanCreate reports whether a missing file may be created.
func (m OpenMode) CanCreate() bool {
	return !m.ReadOnly && m.Create != CreateModeNone
}

func (m OpenMode) String() string {
	if m.ReadOnly {
		return "ReadOnly"
	}

	return fmt.Sprintf("ReadWrite{create: %s}", m.Create)
}

// OpenOpts wraps the flags word passed to xOpen. The word only changes
// through SetReadOnly.
type OpenOpts struct {
	flags int32
}

func NewOpenOpts(flags int32) OpenOpts {
	return OpenOpts{flags: flags}
}

func (o OpenOpts) Flags() int32 {
	return o.flags
}

func (o OpenOpts) Kind() OpenKind {
	return OpenKindFromFlags(o.flags)
}

func (o OpenOpts) Mode() OpenMode {
	return OpenModeFromFlags(o.flags)
}

func (o OpenOpts) DeleteOnClose() bool {
	return o.flags&sqlite3.SQLITE_OPEN_DELETEONCLOSE != 0
}

// SetReadOnly downgrades the open to read-only, for backends that refuse a
// requested read-write open but can still serve reads.
func (o *OpenOpts) SetReadOnly() {
	o.flags &^= sqlite3.SQLITE_OPEN_READWRITE
	o.flags |= sqlite3.SQLITE_OPEN_READONLY
}

func (o OpenOpts) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "OpenOpts{flags: %#x, kind: %s, mode: %s, delete_on_close: %t}",
		o.flags, o.Kind(), o.Mode(), o.DeleteOnClose())

	return b.String()
}

type AccessFlags int

const (
	AccessExists AccessFlags = iota
	AccessRead
	AccessReadWrite
)

// AccessFlagsFromInt decodes the xAccess flags argument. An exact EXISTS
// match is checked first, then the READ bit, then the READWRITE bit.
func AccessFlagsFromInt(flags int32) AccessFlags {
	switch {
	case flags == sqlite3.SQLITE_ACCESS_EXISTS:
		return AccessExists
	case flags&sqlite3.SQLITE_ACCESS_READ != 0:
		return AccessRead
	case flags&sqlite3.SQLITE_ACCESS_READWRITE != 0:
		return AccessReadWrite
	default:
		return AccessExists
	}
}

func (a AccessFlags) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessReadWrite:
		return "ReadWrite"
	default:
		return "Exists"
	}
}

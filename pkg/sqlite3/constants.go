package sqlite3

// The values below mirror sqlite3.h. They are part of SQLite's stable ABI and
// are used by code that must not depend on the C header.

// Minimum SQLite version the plugin layer supports, as reported by
// sqlite3_libversion_number().
const MinVersionNumber = 3044000

// Result codes.
const (
	SQLITE_OK         = 0
	SQLITE_ERROR      = 1
	SQLITE_INTERNAL   = 2
	SQLITE_PERM       = 3
	SQLITE_ABORT      = 4
	SQLITE_BUSY       = 5
	SQLITE_LOCKED     = 6
	SQLITE_NOMEM      = 7
	SQLITE_READONLY   = 8
	SQLITE_INTERRUPT  = 9
	SQLITE_IOERR      = 10
	SQLITE_CORRUPT    = 11
	SQLITE_NOTFOUND   = 12
	SQLITE_FULL       = 13
	SQLITE_CANTOPEN   = 14
	SQLITE_PROTOCOL   = 15
	SQLITE_EMPTY      = 16
	SQLITE_SCHEMA     = 17
	SQLITE_TOOBIG     = 18
	SQLITE_CONSTRAINT = 19
	SQLITE_MISMATCH   = 20
	SQLITE_MISUSE     = 21
	SQLITE_NOLFS      = 22
	SQLITE_AUTH       = 23
	SQLITE_FORMAT     = 24
	SQLITE_RANGE      = 25
	SQLITE_NOTADB     = 26
	SQLITE_NOTICE     = 27
	SQLITE_WARNING    = 28
)

// Extended result codes.
const (
	SQLITE_OK_LOAD_PERMANENTLY     = SQLITE_OK | (1 << 8)
	SQLITE_IOERR_READ              = SQLITE_IOERR | (1 << 8)
	SQLITE_IOERR_SHORT_READ        = SQLITE_IOERR | (2 << 8)
	SQLITE_IOERR_WRITE             = SQLITE_IOERR | (3 << 8)
	SQLITE_IOERR_FSYNC             = SQLITE_IOERR | (4 << 8)
	SQLITE_IOERR_DIR_FSYNC         = SQLITE_IOERR | (5 << 8)
	SQLITE_IOERR_TRUNCATE          = SQLITE_IOERR | (6 << 8)
	SQLITE_IOERR_FSTAT             = SQLITE_IOERR | (7 << 8)
	SQLITE_IOERR_UNLOCK            = SQLITE_IOERR | (8 << 8)
	SQLITE_IOERR_RDLOCK            = SQLITE_IOERR | (9 << 8)
	SQLITE_IOERR_DELETE            = SQLITE_IOERR | (10 << 8)
	SQLITE_IOERR_NOMEM             = SQLITE_IOERR | (12 << 8)
	SQLITE_IOERR_ACCESS            = SQLITE_IOERR | (13 << 8)
	SQLITE_IOERR_CHECKRESERVEDLOCK = SQLITE_IOERR | (14 << 8)
	SQLITE_IOERR_LOCK              = SQLITE_IOERR | (15 << 8)
	SQLITE_IOERR_CLOSE             = SQLITE_IOERR | (16 << 8)
	SQLITE_IOERR_DELETE_NOENT      = SQLITE_IOERR | (23 << 8)
	SQLITE_CANTOPEN_FULLPATH       = SQLITE_CANTOPEN | (3 << 8)
)

// Flags for sqlite3_vfs.xOpen.
const (
	SQLITE_OPEN_READONLY      = 0x00000001
	SQLITE_OPEN_READWRITE     = 0x00000002
	SQLITE_OPEN_CREATE        = 0x00000004
	SQLITE_OPEN_DELETEONCLOSE = 0x00000008
	SQLITE_OPEN_EXCLUSIVE     = 0x00000010
	SQLITE_OPEN_AUTOPROXY     = 0x00000020
	SQLITE_OPEN_URI           = 0x00000040
	SQLITE_OPEN_MEMORY        = 0x00000080
	SQLITE_OPEN_MAIN_DB       = 0x00000100
	SQLITE_OPEN_TEMP_DB       = 0x00000200
	SQLITE_OPEN_TRANSIENT_DB  = 0x00000400
	SQLITE_OPEN_MAIN_JOURNAL  = 0x00000800
	SQLITE_OPEN_TEMP_JOURNAL  = 0x00001000
	SQLITE_OPEN_SUBJOURNAL    = 0x00002000
	SQLITE_OPEN_SUPER_JOURNAL = 0x00004000
	SQLITE_OPEN_NOMUTEX       = 0x00008000
	SQLITE_OPEN_FULLMUTEX     = 0x00010000
	SQLITE_OPEN_SHAREDCACHE   = 0x00020000
	SQLITE_OPEN_PRIVATECACHE  = 0x00040000
	SQLITE_OPEN_WAL           = 0x00080000
	SQLITE_OPEN_NOFOLLOW      = 0x01000000
)

// Flags for sqlite3_vfs.xAccess.
const (
	SQLITE_ACCESS_EXISTS    = 0
	SQLITE_ACCESS_READWRITE = 1
	SQLITE_ACCESS_READ      = 2
)

// File locking levels.
const (
	SQLITE_LOCK_NONE      = 0
	SQLITE_LOCK_SHARED    = 1
	SQLITE_LOCK_RESERVED  = 2
	SQLITE_LOCK_PENDING   = 3
	SQLITE_LOCK_EXCLUSIVE = 4
)

// Sync flags passed to xSync.
const (
	SQLITE_SYNC_NORMAL   = 0x00002
	SQLITE_SYNC_FULL     = 0x00003
	SQLITE_SYNC_DATAONLY = 0x00010
)

// Device characteristics returned by xDeviceCharacteristics.
const (
	SQLITE_IOCAP_ATOMIC                = 0x00000001
	SQLITE_IOCAP_ATOMIC512             = 0x00000002
	SQLITE_IOCAP_ATOMIC1K              = 0x00000004
	SQLITE_IOCAP_ATOMIC2K              = 0x00000008
	SQLITE_IOCAP_ATOMIC4K              = 0x00000010
	SQLITE_IOCAP_ATOMIC8K              = 0x00000020
	SQLITE_IOCAP_ATOMIC16K             = 0x00000040
	SQLITE_IOCAP_ATOMIC32K             = 0x00000080
	SQLITE_IOCAP_ATOMIC64K             = 0x00000100
	SQLITE_IOCAP_SAFE_APPEND           = 0x00000200
	SQLITE_IOCAP_SEQUENTIAL            = 0x00000400
	SQLITE_IOCAP_UNDELETABLE_WHEN_OPEN = 0x00000800
	SQLITE_IOCAP_POWERSAFE_OVERWRITE   = 0x00001000
	SQLITE_IOCAP_IMMUTABLE             = 0x00002000
	SQLITE_IOCAP_BATCH_ATOMIC          = 0x00004000
)

// File control opcodes.
const (
	SQLITE_FCNTL_LOCKSTATE       = 1
	SQLITE_FCNTL_SIZE_HINT       = 5
	SQLITE_FCNTL_CHUNK_SIZE      = 6
	SQLITE_FCNTL_FILE_POINTER    = 7
	SQLITE_FCNTL_SYNC_OMITTED    = 8
	SQLITE_FCNTL_PERSIST_WAL     = 10
	SQLITE_FCNTL_OVERWRITE       = 11
	SQLITE_FCNTL_VFSNAME         = 12
	SQLITE_FCNTL_PRAGMA          = 14
	SQLITE_FCNTL_BUSYHANDLER     = 15
	SQLITE_FCNTL_TEMPFILENAME    = 16
	SQLITE_FCNTL_MMAP_SIZE       = 18
	SQLITE_FCNTL_HAS_MOVED       = 20
	SQLITE_FCNTL_SYNC            = 21
	SQLITE_FCNTL_COMMIT_PHASETWO = 22
)

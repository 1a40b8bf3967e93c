package sqlite3

import (
	"errors"
	"fmt"
)

// ErrorCode is a SQLite primary or extended result code used as a Go error.
// Backends return one (optionally wrapped) to control the exact status the
// host receives.
type ErrorCode int32

const (
	ErrError            ErrorCode = SQLITE_ERROR
	ErrInternal         ErrorCode = SQLITE_INTERNAL
	ErrPerm             ErrorCode = SQLITE_PERM
	ErrBusy             ErrorCode = SQLITE_BUSY
	ErrNoMem            ErrorCode = SQLITE_NOMEM
	ErrReadOnly         ErrorCode = SQLITE_READONLY
	ErrIOErr            ErrorCode = SQLITE_IOERR
	ErrNotFound         ErrorCode = SQLITE_NOTFOUND
	ErrFull             ErrorCode = SQLITE_FULL
	ErrCantOpen         ErrorCode = SQLITE_CANTOPEN
	ErrMisuse           ErrorCode = SQLITE_MISUSE
	ErrIORead           ErrorCode = SQLITE_IOERR_READ
	ErrIOShortRead      ErrorCode = SQLITE_IOERR_SHORT_READ
	ErrIOWrite          ErrorCode = SQLITE_IOERR_WRITE
	ErrIOFsync          ErrorCode = SQLITE_IOERR_FSYNC
	ErrIOTruncate       ErrorCode = SQLITE_IOERR_TRUNCATE
	ErrIOFstat          ErrorCode = SQLITE_IOERR_FSTAT
	ErrIOUnlock         ErrorCode = SQLITE_IOERR_UNLOCK
	ErrIODelete         ErrorCode = SQLITE_IOERR_DELETE
	ErrIOAccess         ErrorCode = SQLITE_IOERR_ACCESS
	ErrIOCheckReserved  ErrorCode = SQLITE_IOERR_CHECKRESERVEDLOCK
	ErrIOLock           ErrorCode = SQLITE_IOERR_LOCK
	ErrIOClose          ErrorCode = SQLITE_IOERR_CLOSE
	ErrIODeleteNoEnt    ErrorCode = SQLITE_IOERR_DELETE_NOENT
	ErrCantOpenFullPath ErrorCode = SQLITE_CANTOPEN_FULLPATH
)

var codeNames = map[ErrorCode]string{
	SQLITE_OK:           "SQLITE_OK",
	ErrError:            "SQLITE_ERROR",
	ErrInternal:         "SQLITE_INTERNAL",
	ErrPerm:             "SQLITE_PERM",
	SQLITE_ABORT:        "SQLITE_ABORT",
	ErrBusy:             "SQLITE_BUSY",
	SQLITE_LOCKED:       "SQLITE_LOCKED",
	ErrNoMem:            "SQLITE_NOMEM",
	ErrReadOnly:         "SQLITE_READONLY",
	SQLITE_INTERRUPT:    "SQLITE_INTERRUPT",
	ErrIOErr:            "SQLITE_IOERR",
	SQLITE_CORRUPT:      "SQLITE_CORRUPT",
	ErrNotFound:         "SQLITE_NOTFOUND",
	ErrFull:             "SQLITE_FULL",
	ErrCantOpen:         "SQLITE_CANTOPEN",
	SQLITE_PROTOCOL:     "SQLITE_PROTOCOL",
	SQLITE_TOOBIG:       "SQLITE_TOOBIG",
	ErrMisuse:           "SQLITE_MISUSE",
	SQLITE_NOTICE:       "SQLITE_NOTICE",
	SQLITE_WARNING:      "SQLITE_WARNING",
	ErrIORead:           "SQLITE_IOERR_READ",
	ErrIOShortRead:      "SQLITE_IOERR_SHORT_READ",
	ErrIOWrite:          "SQLITE_IOERR_WRITE",
	ErrIOFsync:          "SQLITE_IOERR_FSYNC",
	ErrIOTruncate:       "SQLITE_IOERR_TRUNCATE",
	ErrIOFstat:          "SQLITE_IOERR_FSTAT",
	ErrIOUnlock:         "SQLITE_IOERR_UNLOCK",
	ErrIODelete:         "SQLITE_IOERR_DELETE",
	SQLITE_IOERR_NOMEM:  "SQLITE_IOERR_NOMEM",
	ErrIOAccess:         "SQLITE_IOERR_ACCESS",
	ErrIOCheckReserved:  "SQLITE_IOERR_CHECKRESERVEDLOCK",
	ErrIOLock:           "SQLITE_IOERR_LOCK",
	ErrIOClose:          "SQLITE_IOERR_CLOSE",
	ErrIODeleteNoEnt:    "SQLITE_IOERR_DELETE_NOENT",
	ErrCantOpenFullPath: "SQLITE_CANTOPEN_FULLPATH",
}

func (e ErrorCode) Error() string {
	if name, ok := codeNames[e]; ok {
		return fmt.Sprintf("%s (%d)", name, int32(e))
	}

	if name, ok := codeNames[e.Primary()]; ok {
		return fmt.Sprintf("%s[%d] (%d)", name, int32(e)>>8, int32(e))
	}

	return fmt.Sprintf("SQLite3 Error[%d]", int32(e))
}

// Code returns the numeric status sent to the host.
func (e ErrorCode) Code() int32 {
	return int32(e)
}

// Primary strips the extended bits from the code.
func (e ErrorCode) Primary() ErrorCode {
	return e & 0xff
}

// CodeOf translates err into a host status. A nil error is SQLITE_OK, an
// error wrapping an ErrorCode yields that code and anything else yields the
// fallback.
func CodeOf(err error, fallback ErrorCode) int32 {
	if err == nil {
		return SQLITE_OK
	}

	var code ErrorCode

	if errors.As(err, &code) {
		return code.Code()
	}

	return fallback.Code()
}

package flags

import (
	"fmt"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

// LockLevel is one of the five SQLite locking levels. Levels compare with
// the usual integer operators: Unlocked < Shared < Reserved < Pending <
// Exclusive. See https://www.sqlite.org/lockingv3.html.
type LockLevel int

const (
	// No locks are held; the database may be neither read nor written.
	LockUnlocked LockLevel = iota

	// The database may be read but not written. Any number of shared locks
	// can coexist.
	LockShared

	// A shared lock held with the intention of writing. Only one reserved
	// lock can exist at a time.
	LockReserved

	// A lock on its way to exclusive. Existing shared locks may remain but no
	// new ones are granted.
	LockPending

	// The database may be read or written and no other lock can be held.
	LockExclusive
)

// ParseLockLevel decodes a SQLITE_LOCK_* constant.
func ParseLockLevel(lock int32) (LockLevel, error) {
	switch lock {
	case sqlite3.SQLITE_LOCK_NONE:
		return LockUnlocked, nil
	case sqlite3.SQLITE_LOCK_SHARED:
		return LockShared, nil
	case sqlite3.SQLITE_LOCK_RESERVED:
		return LockReserved, nil
	case sqlite3.SQLITE_LOCK_PENDING:
		return LockPending, nil
	case sqlite3.SQLITE_LOCK_EXCLUSIVE:
		return LockExclusive, nil
	}

	return LockUnlocked, fmt.Errorf("invalid lock level: %d", lock)
}

// LockLevelFromInt decodes a lock level received from SQLite. SQLite only
// ever passes the five known constants, so anything else panics.
func LockLevelFromInt(lock int32) LockLevel {
	level, err := ParseLockLevel(lock)

	if err != nil {
		panic(err)
	}

	return level
}

// Int returns the SQLITE_LOCK_* constant for the level.
func (l LockLevel) Int() int32 {
	return int32(l)
}

func (l LockLevel) String() string {
	switch l {
	case LockUnlocked:
		return "Unlocked"
	case LockShared:
		return "Shared"
	case LockReserved:
		return "Reserved"
	case LockPending:
		return "Pending"
	case LockExclusive:
		return "Exclusive"
	}

	return fmt.Sprintf("LockLevel(%d)", int(l))
}

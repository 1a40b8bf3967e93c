package vfs

/*
#include "vfs.h"
*/
import "C"

import (
	"time"
	"unsafe"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
)

// The callbacks below have no backend counterpart, or an optional one, and
// otherwise forward to the VFS that was SQLite's default when the backend
// was registered.

const (
	unixEpochJulianDay = 2440587.5
	// Milliseconds between the Julian day epoch and the Unix epoch.
	unixEpochJulianMillis = 210866760000000
	millisPerDay          = 86400000
)

// baseOf returns the default VFS recorded for pVfs, or nil.
func baseOf(pVfs *C.sqlite3_vfs) *C.sqlite3_vfs {
	if _, err := registrationOf(pVfs); err != nil {
		return nil
	}

	return (*C.govfs_app_data)(pVfs.pAppData).pBase
}

//export goVfsDlOpen
func goVfsDlOpen(pVfs *C.sqlite3_vfs, zPath *C.char) unsafe.Pointer {
	return guard("xDlOpen", unsafe.Pointer(nil), func() unsafe.Pointer {
		base := baseOf(pVfs)

		if base == nil || base.xDlOpen == nil {
			return nil
		}

		return C.govfs_base_dlopen(base, zPath)
	})
}

//export goVfsDlError
func goVfsDlError(pVfs *C.sqlite3_vfs, nByte C.int, zErrMsg *C.char) {
	guardVoid("xDlError", func() {
		base := baseOf(pVfs)

		if base == nil || base.xDlError == nil {
			return
		}

		C.govfs_base_dlerror(base, nByte, zErrMsg)
	})
}

//export goVfsDlSym
func goVfsDlSym(pVfs *C.sqlite3_vfs, pHandle unsafe.Pointer, zSymbol *C.char) unsafe.Pointer {
	return guard("xDlSym", unsafe.Pointer(nil), func() unsafe.Pointer {
		base := baseOf(pVfs)

		if base == nil || base.xDlSym == nil {
			return nil
		}

		return C.govfs_base_dlsym(base, pHandle, zSymbol)
	})
}

//export goVfsDlClose
func goVfsDlClose(pVfs *C.sqlite3_vfs, pHandle unsafe.Pointer) {
	guardVoid("xDlClose", func() {
		base := baseOf(pVfs)

		if base == nil || base.xDlClose == nil {
			return
		}

		C.govfs_base_dlclose(base, pHandle)
	})
}

//export goVfsRandomness
func goVfsRandomness(pVfs *C.sqlite3_vfs, nByte C.int, zOut *C.char) C.int {
	return C.int(guard("xRandomness", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if nByte > 0 && zOut != nil {
			if n, ok := reg.fs.randomness(unsafe.Slice((*byte)(unsafe.Pointer(zOut)), int(nByte))); ok {
				return int32(min(max(n, 0), int(nByte)))
			}
		}

		base := reg.appData.pBase

		if base == nil || base.xRandomness == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return int32(C.govfs_base_randomness(base, nByte, zOut))
	}))
}

//export goVfsSleep
func goVfsSleep(pVfs *C.sqlite3_vfs, microseconds C.int) C.int {
	return C.int(guard("xSleep", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if slept, ok := reg.fs.sleep(time.Duration(microseconds) * time.Microsecond); ok {
			return int32(min(slept.Microseconds(), int64(^uint32(0)>>1)))
		}

		base := reg.appData.pBase

		if base == nil || base.xSleep == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return int32(C.govfs_base_sleep(base, microseconds))
	}))
}

//export goVfsCurrentTime
func goVfsCurrentTime(pVfs *C.sqlite3_vfs, pTime *C.double) C.int {
	return C.int(guard("xCurrentTime", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil || pTime == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if now, ok := reg.fs.currentTime(); ok {
			*pTime = C.double(float64(now.UnixMilli())/millisPerDay + unixEpochJulianDay)

			return sqlite3.SQLITE_OK
		}

		base := reg.appData.pBase

		if base == nil || base.xCurrentTime == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return int32(C.govfs_base_current_time(base, pTime))
	}))
}

//export goVfsCurrentTimeInt64
func goVfsCurrentTimeInt64(pVfs *C.sqlite3_vfs, pTime *C.sqlite3_int64) C.int {
	return C.int(guard("xCurrentTimeInt64", int32(sqlite3.SQLITE_INTERNAL), func() int32 {
		reg, err := registrationOf(pVfs)

		if err != nil || pTime == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		if now, ok := reg.fs.currentTime(); ok {
			*pTime = C.sqlite3_int64(now.UnixMilli() + unixEpochJulianMillis)

			return sqlite3.SQLITE_OK
		}

		base := reg.appData.pBase

		if base == nil || base.iVersion < 2 || base.xCurrentTimeInt64 == nil {
			return sqlite3.SQLITE_INTERNAL
		}

		return int32(C.govfs_base_current_time_int64(base, pTime))
	}))
}

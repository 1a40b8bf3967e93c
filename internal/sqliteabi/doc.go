// Package sqliteabi holds sqlite3_abi.h, the C declarations shared by the
// cgo packages that talk to SQLite's VFS interface. It lets those packages
// build without sqlite3.h, since the engine itself is linked in by whichever
// driver the final binary uses.
//
// Packages include it with:
//
//	#cgo CFLAGS: -I${SRCDIR}/../../internal/sqliteabi
//	#include "sqlite3_abi.h"
package sqliteabi

package vfs

import (
	"log/slog"
	"runtime/debug"
)

// guard runs a callback body invoked by SQLite. A panic must never unwind
// into C, so it is logged and turned into fallback.
func guard[T any](op string, fallback T, fn func() T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered from panic in VFS callback", "op", op, "panic", r, "stack", string(debug.Stack()))
			result = fallback
		}
	}()

	return fn()
}

func guardVoid(op string, fn func()) {
	guard(op, struct{}{}, func() struct{} {
		fn()

		return struct{}{}
	})
}

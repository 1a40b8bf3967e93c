package vfs

import (
	"time"

	"github.com/litebase/sqliteplugin/pkg/flags"
)

// fileSystem is the type-erased view of a backend that the exported
// trampolines call. Handles travel as the Handle interface and are asserted
// back to the backend's handle type by the adapter.
type fileSystem interface {
	registerLogger(logger *Logger)
	open(path *string, opts flags.OpenOpts) (Handle, error)
	delete(path string) error
	access(path string, access flags.AccessFlags) (bool, error)
	canonicalPath(path string) (string, error)

	read(h Handle, p []byte, off int64) (int, error)
	write(h Handle, p []byte, off int64) (int, error)
	truncate(h Handle, size int64) error
	sync(h Handle) error
	fileSize(h Handle) (int64, error)
	lock(h Handle, level flags.LockLevel) error
	unlock(h Handle, level flags.LockLevel) error
	checkReservedLock(h Handle) (bool, error)
	pragma(h Handle, pragma Pragma) (string, error)
	close(h Handle) error

	sectorSize() int
	deviceCharacteristics() int

	randomness(p []byte) (int, bool)
	sleep(d time.Duration) (time.Duration, bool)
	currentTime() (time.Time, bool)
}

// adapter binds a backend and the optional interfaces it implements. The
// optional interfaces are resolved once, when the backend is registered.
type adapter[H Handle] struct {
	backend  VFS[H]
	locker   Locker[H]
	reserved ReservedLockChecker[H]
	syncer   Syncer[H]
	pragmas  PragmaHandler[H]
	paths    PathCanonicalizer
	sectors  SectorSizer
	device   DeviceCharacterizer
	random   Randomizer
	sleeper  Sleeper
	clock    Clock
}

func newAdapter[H Handle](backend VFS[H]) *adapter[H] {
	a := &adapter[H]{backend: backend}

	a.locker, _ = backend.(Locker[H])
	a.reserved, _ = backend.(ReservedLockChecker[H])
	a.syncer, _ = backend.(Syncer[H])
	a.pragmas, _ = backend.(PragmaHandler[H])
	a.paths, _ = backend.(PathCanonicalizer)
	a.sectors, _ = backend.(SectorSizer)
	a.device, _ = backend.(DeviceCharacterizer)
	a.random, _ = backend.(Randomizer)
	a.sleeper, _ = backend.(Sleeper)
	a.clock, _ = backend.(Clock)

	return a
}

func (a *adapter[H]) registerLogger(logger *Logger) {
	a.backend.RegisterLogger(logger)
}

func (a *adapter[H]) open(path *string, opts flags.OpenOpts) (Handle, error) {
	h, err := a.backend.Open(path, opts)

	if err != nil {
		return nil, err
	}

	return h, nil
}

func (a *adapter[H]) delete(path string) error {
	return a.backend.Delete(path)
}

func (a *adapter[H]) access(path string, access flags.AccessFlags) (bool, error) {
	return a.backend.Access(path, access)
}

func (a *adapter[H]) canonicalPath(path string) (string, error) {
	if a.paths == nil {
		return path, nil
	}

	return a.paths.CanonicalPath(path)
}

func (a *adapter[H]) read(h Handle, p []byte, off int64) (int, error) {
	return a.backend.Read(h.(H), p, off)
}

func (a *adapter[H]) write(h Handle, p []byte, off int64) (int, error) {
	return a.backend.Write(h.(H), p, off)
}

func (a *adapter[H]) truncate(h Handle, size int64) error {
	return a.backend.Truncate(h.(H), size)
}

func (a *adapter[H]) sync(h Handle) error {
	if a.syncer == nil {
		return nil
	}

	return a.syncer.Sync(h.(H))
}

func (a *adapter[H]) fileSize(h Handle) (int64, error) {
	return a.backend.FileSize(h.(H))
}

func (a *adapter[H]) lock(h Handle, level flags.LockLevel) error {
	if a.locker == nil {
		return nil
	}

	return a.locker.Lock(h.(H), level)
}

func (a *adapter[H]) unlock(h Handle, level flags.LockLevel) error {
	if a.locker == nil {
		return nil
	}

	return a.locker.Unlock(h.(H), level)
}

func (a *adapter[H]) checkReservedLock(h Handle) (bool, error) {
	if a.reserved == nil {
		return false, nil
	}

	return a.reserved.CheckReservedLock(h.(H))
}

func (a *adapter[H]) pragma(h Handle, pragma Pragma) (string, error) {
	if a.pragmas == nil {
		return "", ErrPragmaNotFound
	}

	return a.pragmas.Pragma(h.(H), pragma)
}

func (a *adapter[H]) close(h Handle) error {
	return a.backend.Close(h.(H))
}

func (a *adapter[H]) sectorSize() int {
	if a.sectors == nil {
		return DefaultSectorSize
	}

	return a.sectors.SectorSize()
}

func (a *adapter[H]) deviceCharacteristics() int {
	if a.device == nil {
		return DefaultDeviceCharacteristics
	}

	return a.device.DeviceCharacteristics()
}

func (a *adapter[H]) randomness(p []byte) (int, bool) {
	if a.random == nil {
		return 0, false
	}

	return a.random.Randomness(p), true
}

func (a *adapter[H]) sleep(d time.Duration) (time.Duration, bool) {
	if a.sleeper == nil {
		return 0, false
	}

	return a.sleeper.Sleep(d), true
}

func (a *adapter[H]) currentTime() (time.Time, bool) {
	if a.clock == nil {
		return time.Time{}, false
	}

	return a.clock.CurrentTime(), true
}

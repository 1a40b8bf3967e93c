package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/litebase/sqliteplugin/pkg/config"
	"github.com/litebase/sqliteplugin/pkg/memvfs"
	"github.com/litebase/sqliteplugin/pkg/objectvfs"
	"github.com/litebase/sqliteplugin/pkg/vfs"
)

// registerBackend registers the VFS selected by c. A name registered
// earlier in the process is reused as is.
func registerBackend(ctx context.Context, c *config.Config) error {
	if vfs.IsRegistered(c.VFSName) {
		return nil
	}

	opts := vfs.RegisterOpts{MakeDefault: c.MakeDefault}

	switch c.Backend {
	case config.BackendMemory:
		if _, err := memvfs.Register(c.VFSName, opts); err != nil {
			return err
		}
	case config.BackendObject:
		client, err := objectvfs.NewClient(ctx, c)

		if err != nil {
			return err
		}

		if _, err := objectvfs.Register(c.VFSName, client, objectvfs.OptionsFromConfig(c), opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	slog.Debug("Registered VFS", "name", c.VFSName, "backend", c.Backend)

	return nil
}

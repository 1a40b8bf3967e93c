package cmd

import (
	"fmt"

	"github.com/litebase/sqliteplugin/pkg/sqlite3"
	gosqlite "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return NewCommand("version", "Show the CLI and SQLite versions").
		WithRunE(func(cmd *cobra.Command, args []string) error {
			version, number, _ := gosqlite.Version()

			fmt.Fprintf(cmd.OutOrStdout(), "sqlitevfs %s\n", cliVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "SQLite %s (%d), minimum supported %d\n", version, number, sqlite3.MinVersionNumber)

			return nil
		}).
		Build()
}

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/litebase/sqliteplugin/pkg/config"
	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"
)

func NewQueryCmd() *cobra.Command {
	var c *config.Config

	return NewCommand("query <database> <sql>...", "Run SQL statements against a database").
		WithLong("Open a database through the configured VFS and run each statement in order on one connection. Rows are printed tab separated with a header line.").
		WithArgs(cobra.MinimumNArgs(2)).
		WithFlags(func(cmd *cobra.Command) {
			cmd.Flags().String("backend", config.BackendMemory, "The VFS backend: mem or object")
			cmd.Flags().String("vfs", "", "The name the VFS is registered under")
			cmd.Flags().Bool("read-only", false, "Open the database read-only")
		}).
		WithConfigE(func(cmd *cobra.Command) error {
			var err error

			c, err = loadConfig(cmd)

			if err != nil {
				return err
			}

			return registerBackend(cmd.Context(), c)
		}).
		WithRunE(func(cmd *cobra.Command, args []string) error {
			readOnly, _ := cmd.Flags().GetBool("read-only")

			db, err := sql.Open("sqlite3", databaseURI(args[0], c.VFSName, readOnly))

			if err != nil {
				return err
			}

			defer db.Close()

			db.SetMaxOpenConns(1)

			for _, statement := range args[1:] {
				if err := runStatement(cmd.OutOrStdout(), db, statement); err != nil {
					return err
				}
			}

			return nil
		}).
		Build()
}

func databaseURI(name, vfsName string, readOnly bool) string {
	query := url.Values{"vfs": {vfsName}}

	if readOnly {
		query.Set("mode", "ro")
	}

	// SQLite decodes %HH escapes in the path, so ? # and % survive.
	path := (&url.URL{Path: name}).EscapedPath()

	return (&url.URL{Scheme: "file", Opaque: path, RawQuery: query.Encode()}).String()
}

func runStatement(w io.Writer, db *sql.DB, statement string) error {
	rows, err := db.Query(statement)

	if err != nil {
		return fmt.Errorf("%s: %w", statement, err)
	}

	defer rows.Close()

	columns, err := rows.Columns()

	if err != nil {
		return err
	}

	if len(columns) > 0 {
		fmt.Fprintln(w, strings.Join(columns, "\t"))
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))

	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return err
		}

		fields := make([]string, len(values))

		for i, value := range values {
			fields[i] = formatValue(value)
		}

		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}

	return rows.Err()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

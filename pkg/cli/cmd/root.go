package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/litebase/sqliteplugin/pkg/config"
	"github.com/spf13/cobra"
)

const cliVersion = "v0.1.0"

// RootCmd builds the sqlitevfs command tree.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "sqlitevfs <command> [flags]",
		Short:             "SQLite virtual file systems written in Go",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Long:              "Run SQL against databases stored by the in-memory or object storage VFS.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sqlitevfs %s\n\nFor help type \"sqlitevfs help\"\n", cliVersion)

			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().String("env-file", ".env", "Path to a file of environment variables")

	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewRoot runs the command line and exits with a non-zero status on
// failure.
func NewRoot() {
	cmd := RootCmd()

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment file, the configuration file and the
// flag overrides of cmd, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var c *config.Config
	var err error

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		c, err = config.LoadFile(path)

		if err != nil {
			return nil, err
		}
	} else {
		c = config.NewConfig()
	}

	if cmd.Flags().Changed("backend") {
		c.Backend, _ = cmd.Flags().GetString("backend")
	}

	if cmd.Flags().Changed("vfs") {
		c.VFSName, _ = cmd.Flags().GetString("vfs")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return c, nil
}

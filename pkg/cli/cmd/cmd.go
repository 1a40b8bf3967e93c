package cmd

import "github.com/spf13/cobra"

// Command assembles a cobra command in steps so the commands of this
// package share their configuration loading.
type Command struct {
	// The underlying cobra command.
	command *cobra.Command
	// Runs before the command and stops it when it returns an error.
	configFuncE func(cmd *cobra.Command) error
	// Adds the flags of the command.
	flagsFunc func(cmd *cobra.Command)
}

func NewCommand(use, short string) *Command {
	return &Command{
		command: &cobra.Command{
			Use:           use,
			Short:         short,
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}
}

func (c *Command) Build() *cobra.Command {
	if c.flagsFunc != nil {
		c.flagsFunc(c.command)
	}

	return c.command
}

func (c *Command) WithArgs(args cobra.PositionalArgs) *Command {
	c.command.Args = args

	return c
}

func (c *Command) WithConfigE(config func(cmd *cobra.Command) error) *Command {
	c.configFuncE = config

	return c
}

func (c *Command) WithFlags(flags func(cmd *cobra.Command)) *Command {
	c.flagsFunc = flags

	return c
}

func (c *Command) WithLong(long string) *Command {
	c.command.Long = long

	return c
}

func (c *Command) WithRunE(run func(cmd *cobra.Command, args []string) error) *Command {
	c.command.RunE = func(cmd *cobra.Command, args []string) error {
		if c.configFuncE != nil {
			if err := c.configFuncE(cmd); err != nil {
				return err
			}
		}

		return run(cmd, args)
	}

	return c
}

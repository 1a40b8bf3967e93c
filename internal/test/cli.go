package test

import (
	"bytes"

	"github.com/litebase/sqliteplugin/pkg/cli/cmd"
	"github.com/spf13/cobra"
)

type TestCLI struct {
	Cmd          *cobra.Command
	outputBuffer *bytes.Buffer
}

func NewTestCLI() *TestCLI {
	c := &TestCLI{
		outputBuffer: bytes.NewBuffer(make([]byte, 0)),
	}

	c.Cmd = cmd.RootCmd()
	c.Cmd.SetOut(c.outputBuffer)
	c.Cmd.SetErr(c.outputBuffer)

	return c
}

// ClearOutput resets the output buffer for the CLI
func (c *TestCLI) ClearOutput() {
	c.outputBuffer.Reset()
}

// GetOutput returns the current output buffer content for debugging
func (c *TestCLI) GetOutput() string {
	return c.outputBuffer.String()
}

// Run executes the CLI command with the provided arguments
func (c *TestCLI) Run(args ...string) error {
	c.Cmd.SetArgs(append(args, "--env-file", ""))

	return c.Cmd.Execute()
}

// Check if the output buffer does not contain the expected text
func (c *TestCLI) DoesntSee(text string) bool {
	return !c.Sees(text)
}

// Check if the output buffer contains the expected text
func (c *TestCLI) Sees(text string) bool {
	return bytes.Contains(c.outputBuffer.Bytes(), []byte(text))
}

package cmd_test

import (
	"testing"

	"github.com/litebase/sqliteplugin/internal/test"
)

func TestRootCmd(t *testing.T) {
	cli := test.NewTestCLI()

	if err := cli.Run(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !cli.Sees("sqlitevfs v") {
		t.Error("expected output to contain 'sqlitevfs v'")
	}

	if !cli.Sees("sqlitevfs help") {
		t.Error("expected output to contain 'sqlitevfs help'")
	}
}

func TestVersionCmd(t *testing.T) {
	cli := test.NewTestCLI()

	if err := cli.Run("version"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !cli.Sees("SQLite 3.") {
		t.Errorf("expected output to contain the SQLite version, got %q", cli.GetOutput())
	}

	if !cli.Sees("minimum supported 3044000") {
		t.Errorf("expected output to contain the minimum version, got %q", cli.GetOutput())
	}
}

package main

import (
	"log"

	"github.com/litebase/sqliteplugin/pkg/cli/cmd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cmd.NewRoot()
}

package main

import (
	"fmt"
	"os"

	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/cmd/palanaeum/cli/admin"
	"github.com/mwantia/palanaeum/cmd/palanaeum/cli/client"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}))

	root.AddCommand(admin.NewConfigCommand())
	root.AddCommand(admin.NewMigrateCommand())
	root.AddCommand(admin.NewTaxonomyCommand())

	root.AddCommand(client.NewTagCommand())
	root.AddCommand(client.NewDocumentCommand())
	root.AddCommand(client.NewPartCommand())
	root.AddCommand(client.NewAssemblyCommand())
	root.AddCommand(client.NewImageCommand())
	root.AddCommand(client.NewNoteCommand())

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

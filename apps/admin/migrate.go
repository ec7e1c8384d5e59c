package main

import (
	"context"

	"github.com/pressly/goose/v3"

	appfs "github.com/kmande/chuo/fs"
)

var gooseRunFunc = goose.RunContext // mockable

// migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations.
func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), args[0], cli.db.DB, "migrations", arguments...)
}

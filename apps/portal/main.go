// Command portal is a terminal client for the campus portal. It restores the
// persisted session on startup, then runs one subcommand against the shared
// database the way a browser tab would against the API.
package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/event"
	"github.com/kmande/chuo/core/material"
	"github.com/kmande/chuo/core/notice"
	"github.com/kmande/chuo/core/session"
	"github.com/kmande/chuo/core/user"
	appfs "github.com/kmande/chuo/fs"
	emailsvc "github.com/kmande/chuo/services/email"
	"github.com/kmande/chuo/storage/database"
	sqlxrepos "github.com/kmande/chuo/storage/database/sqlx"
	"github.com/kmande/chuo/storage/local"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "", 0)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// set up validation
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.InitEmailTemplates(appfs.FS, conf)

	// set up services
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf), conf)

	store, err := local.NewStorage("")
	errAndDie(err)

	manager := session.NewManager(usrSvc, store, session.NavigatorFunc(printRoute), validate)
	manager.Restore(context.Background())

	cli := commandLine{
		manager:     manager,
		materialSvc: material.NewService(sqlxrepos.NewMaterialRepository(db)),
		eventSvc:    event.NewService(sqlxrepos.NewEventRepository(db)),
		noticeSvc:   notice.NewService(sqlxrepos.NewNoticeRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}

func printRoute(route string) {
	logger.Printf("-> %s", route)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/storage/database"
	sqlxrepos "github.com/trezcool/studyclub/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	sdb, err := database.Open(conf)
	errAndDie(err)
	defer sdb.Close()
	errAndDie(sdb.Ping())
	db := sqlx.NewDb(sdb, conf.Database.Engine)

	// start CLI
	cli := commandLine{
		db:      sdb,
		admRepo: sqlxrepos.NewAdminRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

package main

import (
	"log"
	"os"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/storage/database"
	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	sdb := sqlxrepos.NewDB(db, conf.Database.Engine)
	subRepo := sqlxrepos.NewSubjectRepository(sdb)

	// start CLI
	cli := commandLine{
		db: db,
		svc: timetable.NewService(
			sqlxrepos.NewClassRepository(sdb),
			sqlxrepos.NewStableLessonRepository(sdb),
			sqlxrepos.NewWeekLessonRepository(sdb),
			subRepo,
		),
		subSvc: subject.NewService(subRepo),
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

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/tafakari/core"
	logsvc "github.com/trezcool/tafakari/services/logger"
	"github.com/trezcool/tafakari/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up DB
	repos, err := database.OpenRepositories(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		conf:     conf,
		logger:   logger,
		clock:    core.SystemClock(conf.Location()),
		usrRepo:  repos.Users,
		reflRepo: repos.Reflections,
		out:      os.Stdout,
	}
	if repos.DB != nil {
		cli.db = repos.DB.DB
	}

	code := 0
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		code = 1
	}
	_ = repos.Close()
	logger.Close()
	os.Exit(code)
}

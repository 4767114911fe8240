package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	clock    core.Clock
	db       *sql.DB // nil for the inmem engine
	usrRepo  user.Repository
	reflRepo reflection.Repository
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                   - load the mock cohort into the database")
	fmt.Fprintln(cli.out, "  report [-roster]       - print the dashboard stats, histogram & action-required list")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportRoster := reportCmd.Bool("roster", false, "Also print the student roster.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		return cli.report(*reportRoster)
	default:
		cli.printUsage()
		return errHelp
	}
}

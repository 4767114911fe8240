package main

import (
	"context"
	"fmt"

	"github.com/trezcool/tafakari/storage/database"
)

func (cli *commandLine) seed() error {
	if err := database.Seed(context.Background(), cli.usrRepo, cli.reflRepo, cli.clock); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded %d users and %d reflections\n",
		len(database.MockUsers), len(database.MockReflections(cli.clock())))
	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/storage/database"
)

func (cli *commandLine) report(withRoster bool) error {
	ctx := context.Background()
	board := dashboard.NewBoard(database.NewRecordStore(cli.usrRepo, cli.reflRepo), cli.clock, cli.conf.NegativeWindow)

	stats, err := board.Stats(ctx)
	if err != nil {
		return err
	}
	hist, err := board.Histogram(ctx)
	if err != nil {
		return err
	}
	actions, err := board.ActionRequired(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATS")
	fmt.Fprintf(w, "  reflections:\t%d\n", stats.TotalReflections)
	fmt.Fprintf(w, "  avg satisfaction:\t%.1f\n", stats.AvgSatisfaction)
	fmt.Fprintf(w, "  negative:\t%d\n", stats.NegativeSentimentCount)
	fmt.Fprintf(w, "  reflected today:\t%d/%d\n", stats.StudentsWithTodayCount, stats.TotalStudents)

	fmt.Fprintln(w, "\nSATISFACTION")
	for _, b := range hist {
		fmt.Fprintf(w, "  %d\t%s\t%d\n", b.Rating, strings.Repeat("#", b.Count), b.Count)
	}

	fmt.Fprintln(w, "\nACTION REQUIRED")
	if len(actions) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, item := range actions {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", item.Student.StudentID, item.Student.Name, item.Reason)
	}

	if withRoster {
		rows, err := board.Roster(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "\nROSTER")
		for _, row := range rows {
			last := "-"
			if row.LastReflection != nil {
				last = fmt.Sprintf("%d/5 %s", row.LastReflection.Satisfaction, row.LastSentiment)
			}
			fmt.Fprintf(w, "  %s\t%s\t%d\t%s\t%d%%\n",
				row.Student.StudentID, row.Student.Name, row.ReflectionCount, last, row.Participation)
		}
	}
	return w.Flush()
}

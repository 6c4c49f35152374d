package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"github.com/runwaysim/runways/internal/batch"
	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/internal/model"
	"github.com/runwaysim/runways/internal/util"
	"github.com/runwaysim/runways/pkg/core"
)

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

// printReport writes the headline state of one game.
func printReport(w io.Writer, g *game.Game) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "seed\t%d\n", g.Seed())
	fmt.Fprintf(tw, "time\t%s\n", util.FormatHours(uint64(g.Time())))
	fmt.Fprintf(tw, "cash\t%s\n", money(g.Cash()))
	fmt.Fprintf(tw, "deliveries\t%s\n", humanize.Comma(int64(len(g.Deliveries()))))

	for _, p := range g.Fleet() {
		where := "in transit"
		if at, ok := p.AtAirport(); ok {
			where = fmt.Sprintf("at %d", at)
		}
		fmt.Fprintf(tw, "plane %d\t%s\t%s\t%s\tfuel %.0f/%.0f\n",
			p.ID, p.Specs.Model, p.Status, where, p.Fuel, p.Specs.FuelCapacity)
	}
	for _, s := range g.Stats() {
		fmt.Fprintf(tw, "%s day\tincome %s\texpenses %s\tcash %s\n",
			humanize.Ordinal(int(s.Day)+1), money(s.Income), money(s.Expenses), money(s.NetCash))
	}
}

// printResults writes one line per game of a batch.
func printResults(w io.Writer, results []batch.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "seed\ttime\tcash")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Seed, util.FormatHours(uint64(r.Time)), money(r.Cash))
	}
}

// printSaves lists saved games.
func printSaves(w io.Writer, saves []model.SavedGame, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "name\tseed\ttime\tcash\tfleet\tsaved")
	for _, s := range saves {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\n",
			s.Name, s.Seed, util.FormatHours(s.GameTime), money(s.Cash), s.FleetSize, humanize.RelTime(s.SavedAt, now, "ago", "from now"))
	}
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// writeStatsCSV writes the closed days of a game.
func writeStatsCSV(path string, stats []core.DailyStats) error {
	return writeCSV(path, &stats)
}

// writeResultsCSV writes the headline state of every game of a batch.
func writeResultsCSV(path string, results []batch.Result) error {
	return writeCSV(path, &results)
}

package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"seatmap/model"
)

var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "List the sectors of a venue with seat counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := resolveSource(cmd.Context(), true)
		if err != nil {
			return err
		}
		venue, err := src.load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", venue.Name, venue.Id)
		t := sectorTable(venue)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.Render()
		return nil
	},
}

func sectorTable(v *model.Venue) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Sector", "Id", "Seats", "Available", "Unavailable", "Pairs", "Unplaced"})
	right := []table.ColumnConfig{}
	for n := 4; n <= 8; n++ {
		right = append(right, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	t.SetColumnConfigs(append([]table.ColumnConfig{{Number: 2, WidthMax: 24}}, right...))
	t.Style().Options.SeparateRows = true

	unplacedTotal := 0
	for i := range v.Sectors {
		sector := &v.Sectors[i]
		stats := sector.Stats()
		unplaced := 0
		for _, seat := range sector.Seats {
			if seat.Position == nil {
				unplaced++
			}
		}
		unplacedTotal += unplaced
		t.AppendRow(table.Row{i + 1, sector.Name, sector.Id, stats.Total, stats.Available, stats.Unavailable, stats.Pairs, unplaced})
	}

	total := v.Stats()
	t.AppendFooter(table.Row{"", "Total", "", total.Total, total.Available, total.Unavailable, total.Pairs, unplacedTotal})
	return t
}

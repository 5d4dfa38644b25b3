package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"seatmap/model"
	"seatmap/seating"
)

type generateOptions struct {
	sector  string
	row     string
	start   int
	end     int
	spacing float64
	x       float64
	y       float64
	dryRun  bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a row of seats in a sector",
	Long: `Generate a row of seats in a sector and save them.

Seats that already exist in the row are skipped. Unset flags default to a new
row below the lowest seat of the sector.`,
	Example: `  seatmap generate -f teatro.json --sector Plateia --row C --end 12
  seatmap generate -f teatro.json --sector s1 --row AA --start 5 --end 20 --spacing 25 --x 40 --y 300`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.sector, "sector", "", "sector id or name (prompted when empty)")
	f.StringVar(&genOpts.row, "row", "", "row label, 1 to 3 letters")
	f.IntVar(&genOpts.start, "start", 1, "first seat number")
	f.IntVar(&genOpts.end, "end", seating.DefaultRowSize, "last seat number")
	f.Float64Var(&genOpts.spacing, "spacing", seating.DefaultSpacing, "horizontal distance between seats")
	f.Float64Var(&genOpts.x, "x", seating.DefaultAnchor.X, "x of the first seat")
	f.Float64Var(&genOpts.y, "y", 0, "y of the row (default below the lowest seat)")
	f.BoolVar(&genOpts.dryRun, "dry-run", false, "print the seats without saving them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src, err := resolveSource(ctx, true)
	if err != nil {
		return err
	}
	venue, err := src.load(ctx)
	if err != nil {
		return err
	}

	var sectorID string
	if genOpts.sector != "" {
		sectorID, err = findSector(venue, genOpts.sector)
	} else {
		sectorID, err = promptSector(venue)
	}
	if err != nil {
		return err
	}
	sector := venue.Sector(sectorID)

	req := rowRequest(cmd, sector)
	result, err := seating.GenerateRow(sector, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	t := seatTable(result.Seats)
	t.SetOutputMirror(out)
	t.Render()
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped existing seats: %s\n", strings.Join(result.Skipped, ", "))
	}
	if genOpts.dryRun {
		fmt.Fprintf(out, "Dry run: %d seats not saved.\n", result.Created)
		return nil
	}

	changes := model.ChangeSet{VenueId: venue.Id, Created: result.Seats}
	if err := src.committer.Commit(ctx, changes); err != nil {
		return fmt.Errorf("save generated seats: %w", err)
	}
	log.WithVenue(venue.Id).WithSector(sectorID).Info("seats generated",
		"row", req.Row, "created", result.Created, "skipped", len(result.Skipped))
	fmt.Fprintf(out, "Saved %d seats in %s row %s.\n", result.Created, sector.Name, req.Row)
	return nil
}

// rowRequest starts from the suggested row and applies the flags the user
// set.
func rowRequest(cmd *cobra.Command, sector *model.Sector) seating.RowRequest {
	req := seating.Suggest(sector)
	flags := cmd.Flags()
	if flags.Changed("row") {
		req.Row = strings.ToUpper(strings.TrimSpace(genOpts.row))
	}
	if flags.Changed("start") {
		req.Start = genOpts.start
	}
	if flags.Changed("end") {
		req.End = genOpts.end
	}
	if flags.Changed("spacing") {
		req.Spacing = genOpts.spacing
	}
	if flags.Changed("x") {
		req.Anchor.X = genOpts.x
	}
	if flags.Changed("y") {
		req.Anchor.Y = genOpts.y
	}
	return req
}

func seatTable(seats []model.Seat) table.Writer {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Row", "Seat", "X", "Y", "Id"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, seat := range seats {
		var x, y string
		if seat.Position != nil {
			x = fmt.Sprintf("%.0f", seat.Position.X)
			y = fmt.Sprintf("%.0f", seat.Position.Y)
		}
		t.AppendRow(table.Row{seat.Row, seat.Label(), x, y, seat.Id}, rowConfigAutoMerge)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d seats", len(seats))})
	return t
}

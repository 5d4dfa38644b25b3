package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"seatmap/layout"
	"seatmap/model"
)

type renderOptions struct {
	sector      string
	zoom        float64
	out         string
	terminal    bool
	hideNumbers bool
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the venue or one sector to a PNG image",
	Example: `  seatmap render -f teatro.json
  seatmap render -f teatro.json --sector Plateia --zoom 1.5 --out plateia.png
  seatmap render --api https://venues.example --venue v1 --terminal`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.sector, "sector", "", "sector id or name to render in detail")
	f.Float64Var(&renderOpts.zoom, "zoom", 1, fmt.Sprintf("zoom factor between %.1f and %.1f", layout.MinZoom, layout.MaxZoom))
	f.StringVarP(&renderOpts.out, "out", "o", "", "output PNG path (default <venue id>.png)")
	f.BoolVar(&renderOpts.terminal, "terminal", false, "print the seat map to the terminal instead")
	f.BoolVar(&renderOpts.hideNumbers, "hide-numbers", false, "hide seat labels")
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := resolveSource(cmd.Context(), false)
	if err != nil {
		return err
	}
	venue, err := src.load(cmd.Context())
	if err != nil {
		return err
	}

	scene := layout.Scene{
		Venue:      venue,
		Transform:  layout.Identity().SetZoom(renderOpts.zoom),
		HideLabels: renderOpts.hideNumbers,
	}
	if renderOpts.sector != "" {
		if scene.Focus, err = findSector(venue, renderOpts.sector); err != nil {
			return err
		}
	}

	if renderOpts.terminal {
		cells := layout.NewCells(layout.SurfaceWidth/layout.CellUnitsX, layout.SurfaceHeight/layout.CellUnitsY)
		if err := drawScene(cells, scene); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cells.String())
		return nil
	}

	raster := layout.NewRaster(layout.SurfaceWidth, layout.SurfaceHeight)
	if err := drawScene(raster, scene); err != nil {
		return err
	}
	out := renderOpts.out
	if out == "" {
		out = defaultImageName(venue, scene.Focus)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := raster.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.WithVenue(venue.Id).Info("rendered venue", "path", out, "sector_id", scene.Focus)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}

// drawScene renders one frame. The surface stays usable afterwards.
func drawScene(surface layout.Surface, scene layout.Scene) error {
	return layout.NewRenderer(surface).RenderScene(scene)
}

func defaultImageName(v *model.Venue, focus string) string {
	name := v.Id
	if name == "" {
		name = "venue"
	}
	if focus != "" {
		name += "-" + focus
	}
	return strings.NewReplacer("/", "_", " ", "_").Replace(name) + ".png"
}

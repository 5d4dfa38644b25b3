package cmd

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"seatmap/model"
	"seatmap/store"
)

func sampleVenue() *model.Venue {
	return &model.Venue{
		Id:   "v1",
		Name: "Teatro",
		Sectors: []model.Sector{
			{Id: "s1", VenueId: "v1", Name: "Plateia", Color: "#2255AA", Seats: []model.Seat{
				{Id: "a1", SectorId: "s1", Row: "A", Number: "01", Position: &model.Point{X: 50, Y: 80}, Available: true},
				{Id: "a2", SectorId: "s1", Row: "A", Number: "02", Available: true},
			}},
			{Id: "s2", VenueId: "v1", Name: "Balcony", Color: "#AA5522"},
		},
	}
}

func writeVenue(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "teatro.json")
	if err := store.SaveVenue(path, sampleVenue()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return path
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the command line in an isolated home and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("SEATMAP_LOG_FILE", filepath.Join(dir, "seatmap.log"))
	t.Setenv("SEATMAP_VENUE_FILE", "")
	t.Setenv("SEATMAP_API_URL", "")

	resetFlags(rootCmd)
	opts = globalOptions{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit = "1.2.3", "abc123"
	defer func() { buildVersion, buildCommit = "dev", "none" }()

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.TrimSpace(out) != "seatmap 1.2.3 (abc123)" {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestGenerate_SavesToFile(t *testing.T) {
	path := writeVenue(t, t.TempDir())

	out, err := run(t, "generate", "--file", path, "--sector", "plateia", "--row", "b", "--end", "3")
	if err != nil {
		t.Fatalf("expected nil error, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "B01") || !strings.Contains(out, "Saved 3 seats in Plateia row B.") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	venue, err := store.LoadVenue(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	sector := venue.Sector("s1")
	if len(sector.Seats) != 5 {
		t.Fatalf("expected 5 seats, got %d", len(sector.Seats))
	}
	first := sector.Seats[2]
	if first.Label() != "B01" || first.Position == nil || *first.Position != (model.Point{X: 40, Y: 110}) {
		t.Fatalf("unexpected first generated seat: %+v %+v", first, first.Position)
	}

	out, err = run(t, "generate", "--file", path, "--sector", "s1", "--row", "B", "--end", "3")
	if err == nil {
		t.Fatalf("expected rerun to fail with no new seats, got:\n%s", out)
	}
}

func TestGenerate_DryRun(t *testing.T) {
	path := writeVenue(t, t.TempDir())

	out, err := run(t, "generate", "-f", path, "--sector", "s2", "--end", "2", "--dry-run")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "A02") || !strings.Contains(out, "Dry run: 2 seats not saved.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	venue, _ := store.LoadVenue(path)
	if n := len(venue.Sector("s2").Seats); n != 0 {
		t.Fatalf("expected file untouched, got %d seats", n)
	}
}

func TestRender_PNG(t *testing.T) {
	dir := t.TempDir()
	path := writeVenue(t, dir)
	img := filepath.Join(dir, "plateia.png")

	out, err := run(t, "render", "--file", path, "--sector", "s1", "--zoom", "2", "--out", img)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "Wrote "+img) {
		t.Fatalf("unexpected output: %q", out)
	}
	f, err := os.Open(img)
	if err != nil {
		t.Fatalf("expected image, got %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("expected valid png, got %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("unexpected image size %v", b)
	}
}

func TestRender_Terminal(t *testing.T) {
	path := writeVenue(t, t.TempDir())
	out, err := run(t, "render", "--file", path, "--terminal")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "Plateia") || !strings.Contains(out, "Teatro") {
		t.Fatalf("expected sector names in output:\n%s", out)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := run(t, "render"); !errors.Is(err, errNoSource) {
		t.Fatalf("expected missing source error, got %v", err)
	}
	path := writeVenue(t, t.TempDir())
	if _, err := run(t, "render", "--file", path, "--sector", "nope"); !model.IsNotFound(err) {
		t.Fatalf("expected sector not found, got %v", err)
	}
	if _, err := run(t, "render", "--venue", "v1"); err == nil || !strings.Contains(err.Error(), "API URL") {
		t.Fatalf("expected missing API URL error, got %v", err)
	}
}

func TestSectors(t *testing.T) {
	path := writeVenue(t, t.TempDir())
	out, err := run(t, "sectors", "--file", path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for _, want := range []string{"Teatro (v1)", "PLATEIA", "Balcony", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSectorTable_Totals(t *testing.T) {
	out := sectorTable(sampleVenue()).Render()
	lines := strings.Split(out, "\n")
	footer := lines[len(lines)-2]
	if !strings.Contains(strings.ToUpper(footer), "TOTAL") {
		t.Fatalf("expected totals footer, got %q", footer)
	}
	fields := strings.Fields(strings.NewReplacer("|", " ").Replace(footer))
	// TOTAL seats available unavailable pairs unplaced
	want := []string{"TOTAL", "2", "2", "0", "1", "1"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected footer fields %v", fields)
	}
}

func TestFindSector(t *testing.T) {
	v := sampleVenue()
	for ref, want := range map[string]string{"s2": "s2", "balcony": "s2", " Plateia ": "s1"} {
		got, err := findSector(v, ref)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s (%v)", ref, want, got, err)
		}
	}
	if _, err := findSector(v, "x"); !model.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestContainsSearcher(t *testing.T) {
	search := containsSearcher([]string{"Plateia", "Balcony"})
	if !search("PLAT", 0) || search("plat", 1) || !search("", 1) {
		t.Fatal("unexpected searcher result")
	}
}

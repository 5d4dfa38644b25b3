package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"seatmap/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the interactive seat map editor",
	Long: `Open the interactive seat map editor.

Click a sector to open it, drag seats to move them, press g to generate a
row of seats and s to save. Without --file or --venue a recent venue can be
picked from a list.`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	src, err := resolveSource(cmd.Context(), true)
	if err != nil {
		return err
	}

	app := tui.New(tui.Options{
		Title:     src.title,
		Load:      src.load,
		Committer: src.committer,
		Logger:    log.Logger,
	})
	_, err = tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(cmd.Context()),
	).Run()
	return err
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"seatmap/layout"
	"seatmap/model"
	"seatmap/seating"
	"seatmap/selection"
	"seatmap/session"
)

type appState int

const (
	stateLoading appState = iota
	stateEdit
	stateSelectSector
	stateGenerate
	stateError
)

const (
	headerHeight = 2
	// canvasTop is the first terminal row of the seat map, below the
	// header and one blank line.
	canvasTop = headerHeight + 1

	panStep       = 40
	commitTimeout = 30 * time.Second
)

// Loader fetches the venue being edited.
type Loader func(ctx context.Context) (*model.Venue, error)

type Options struct {
	// Title names the venue source in the header, e.g. a file path.
	Title     string
	Load      Loader
	Committer session.Committer
	Logger    *slog.Logger
	// Generator overrides seat id generation.
	Generator *seating.Generator
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusWarn
	statusError
)

type status struct {
	text  string
	level statusLevel
}

type appModel struct {
	opts  Options
	log   *slog.Logger
	cells *layout.Cells
	sess  *session.Session

	state     appState
	lastState appState
	err       error

	width  int
	height int

	keys       keyMap
	help       help.Model
	spinner    spinner.Model
	sectorList list.Model
	form       rowForm

	status  status
	saving  bool
	pressed bool
}

type errMsg struct {
	err error
}

type venueMsg struct {
	venue *model.Venue
	err   error
}

type commitMsg struct {
	ack session.Ack
	err error
}

func New(opts Options) tea.Model {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cells := layout.NewCells(layout.SurfaceWidth/layout.CellUnitsX, layout.SurfaceHeight/layout.CellUnitsY)

	sessOpts := []session.Option{session.WithLogger(log)}
	if opts.Generator != nil {
		sessOpts = append(sessOpts, session.WithGenerator(*opts.Generator))
	}

	m := appModel{
		opts:       opts,
		log:        log,
		cells:      cells,
		sess:       session.New(cells, sessOpts...),
		state:      stateLoading,
		keys:       newKeyMap(),
		help:       help.New(),
		sectorList: newList("Select Sector"),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadVenueCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateSelectSector && m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
		// fallthrough to component update

	case tea.MouseMsg:
		if m.state == stateEdit {
			m.handleMouse(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateLoading || m.saving {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.lastState = recoverStateFrom(m.state)
		m.state = stateError
		return m, nil

	case venueMsg:
		if msg.err != nil {
			if m.sess.Venue() == nil {
				return m, errCmd(msg.err)
			}
			m.state = stateEdit
			m.setStatus(statusError, "Reload failed: "+msg.err.Error())
			return m, nil
		}
		if err := m.sess.SetVenue(msg.venue); err != nil {
			return m, errCmd(err)
		}
		m.state = stateEdit
		stats := msg.venue.Stats()
		m.setStatus(statusInfo, fmt.Sprintf("Loaded %s: %d sectors, %d seats.", msg.venue.Name, len(msg.venue.Sectors), stats.Total))
		return m, nil

	case commitMsg:
		m.saving = false
		if msg.err != nil {
			unsent := msg.ack.Unsent(msg.err)
			m.sess.Restore(unsent)
			m.log.Error("commit failed",
				slog.String("venue_id", msg.ack.VenueId),
				slog.Int("saved", msg.ack.Saved-unsent.Saved),
				slog.Any("error", msg.err),
			)
			text := fmt.Sprintf("Save failed: %v. %d edits kept.", msg.err, m.sess.Pending())
			if saved := msg.ack.Saved - unsent.Saved; saved > 0 {
				text = fmt.Sprintf("Saved %d of %d seats. ", saved, msg.ack.Saved) + text
			}
			m.setStatus(statusError, text)
			return m, nil
		}
		m.setStatus(statusOK, fmt.Sprintf("Saved %d seats.", msg.ack.Saved))
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectSector:
		m.sectorList, cmd = m.sectorList.Update(msg)
	case stateGenerate:
		m.form, cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + m.loadingView()
	case stateEdit:
		return header + "\n\n" + m.cells.String() + "\n" + m.footerView()
	case stateSelectSector:
		return header + "\n\n" + m.sectorList.View()
	case stateGenerate:
		return header + "\n\n" + m.form.View()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press r to retry, esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

// headerView always renders headerHeight lines so mouse rows map onto the
// canvas.
func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Seatmap")
	if m.opts.Title != "" {
		title += " " + hint(m.opts.Title)
	}

	v := m.sess.Venue()
	if v == nil {
		return title + "\n" + hint("No venue loaded")
	}

	sub := []string{fmt.Sprintf("Venue: %s", v.Name)}
	stats := v.Stats()
	if sector := m.sess.FocusedSector(); sector != nil {
		sub = append(sub, fmt.Sprintf("Sector: %s", sector.Name))
		stats = sector.Stats()
	}
	sub = append(sub,
		fmt.Sprintf("Available: %d/%d", stats.Available, stats.Total),
		fmt.Sprintf("Pairs: %d", stats.Pairs),
		fmt.Sprintf("Zoom: %.0f%%", m.sess.View().Zoom*100),
	)
	if n := m.sess.Pending(); n > 0 {
		sub = append(sub, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("%d unsaved", n)))
	}
	if m.sess.LabelsHidden() {
		sub = append(sub, "Numbers hidden")
	}
	return title + "\n" + lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))
}

func (m appModel) footerView() string {
	line := m.statusView()
	if !m.saving {
		if hover := m.hoverLine(); hover != "" {
			line = hint(hover)
		}
	}
	return line + "\n" + m.help.View(m.keys)
}

func (m appModel) statusView() string {
	if m.saving {
		return fmt.Sprintf("%s %s", m.spinner.View(), "Saving...")
	}
	style := lipgloss.NewStyle()
	switch m.status.level {
	case statusOK:
		style = style.Foreground(lipgloss.Color("2"))
	case statusWarn:
		style = style.Foreground(lipgloss.Color("3"))
	case statusError:
		style = style.Foreground(lipgloss.Color("1"))
	default:
		style = style.Faint(true)
	}
	return style.Render(m.status.text)
}

// hoverLine describes the sector or seat under the pointer.
func (m appModel) hoverLine() string {
	v := m.sess.Venue()
	id := m.sess.Hovered()
	if v == nil || id == "" {
		return ""
	}
	if m.sess.Mode() == selection.Overview {
		sector := v.Sector(id)
		if sector == nil {
			return ""
		}
		stats := sector.Stats()
		return fmt.Sprintf("%s: %d seats, %d available. Click to open.", sector.Name, stats.Total, stats.Available)
	}
	seat := m.sess.FocusedSector().Seat(id)
	if seat == nil {
		return ""
	}
	state := "available"
	if !seat.Available {
		state = "unavailable"
	}
	pos := "no position"
	if seat.Position != nil {
		pos = fmt.Sprintf("at %.0f,%.0f", seat.Position.X, seat.Position.Y)
	}
	return fmt.Sprintf("Seat %s, %s, %s. Drag to move.", seat.Label(), state, pos)
}

func (m appModel) loadingView() string {
	title := "Loading venue"
	if m.opts.Title != "" {
		title = fmt.Sprintf("Loading %s", m.opts.Title)
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit, true
	}

	switch m.state {
	case stateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit, true
		}
		return m, nil, true

	case stateError:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit, true
		case key.Matches(msg, m.keys.Reload):
			m.state = stateLoading
			return m, tea.Batch(m.loadVenueCmd(), m.spinner.Tick), true
		case key.Matches(msg, m.keys.Back):
			next, cmd := m.goBack()
			return next, cmd, true
		}
		return m, nil, true

	case stateSelectSector:
		switch msg.Type {
		case tea.KeyEsc:
			next, cmd := m.goBack()
			return next, cmd, true
		case tea.KeyEnter:
			item, ok := m.sectorList.SelectedItem().(sectorItem)
			if !ok {
				return m, nil, true
			}
			m.state = stateEdit
			m.apply(m.sess.FocusSector(item.sector.Id))
			return m, nil, true
		}
		return m, nil, false

	case stateGenerate:
		switch msg.Type {
		case tea.KeyEsc:
			next, cmd := m.goBack()
			return next, cmd, true
		case tea.KeyTab, tea.KeyDown:
			m.form.next(1)
			return m, nil, true
		case tea.KeyShiftTab, tea.KeyUp:
			m.form.next(-1)
			return m, nil, true
		case tea.KeyEnter:
			return m.submitRow()
		}
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Back):
		next, cmd := m.goBack()
		return next, cmd, true
	case key.Matches(msg, m.keys.ZoomIn):
		m.apply(m.sess.ZoomIn())
	case key.Matches(msg, m.keys.ZoomOut):
		m.apply(m.sess.ZoomOut())
	case key.Matches(msg, m.keys.Reset):
		m.apply(m.sess.ResetView())
	case key.Matches(msg, m.keys.PanUp):
		m.apply(m.sess.Pan(0, panStep))
	case key.Matches(msg, m.keys.PanDown):
		m.apply(m.sess.Pan(0, -panStep))
	case key.Matches(msg, m.keys.PanLeft):
		m.apply(m.sess.Pan(panStep, 0))
	case key.Matches(msg, m.keys.PanRight):
		m.apply(m.sess.Pan(-panStep, 0))
	case key.Matches(msg, m.keys.Next):
		m.apply(m.sess.CycleSector(1))
	case key.Matches(msg, m.keys.Prev):
		m.apply(m.sess.CycleSector(-1))
	case key.Matches(msg, m.keys.Labels):
		m.apply(m.sess.ToggleLabels())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Sectors):
		return m.openSectorList()
	case key.Matches(msg, m.keys.Generate):
		sector := m.sess.FocusedSector()
		if sector == nil {
			m.setStatus(statusWarn, "Open a sector before generating seats.")
			return m, nil, true
		}
		m.form = newRowForm(sector)
		m.state = stateGenerate
		return m, textinput.Blink, true
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Reload):
		m.state = stateLoading
		return m, tea.Batch(m.loadVenueCmd(), m.spinner.Tick), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateEdit:
		if m.sess.Mode() == selection.SectorDetail {
			m.apply(m.sess.ClearFocus())
		}
	case stateSelectSector, stateGenerate:
		m.state = stateEdit
	case stateError:
		if m.lastState == stateLoading && m.sess.Venue() == nil {
			m.state = stateLoading
			return m, tea.Batch(m.loadVenueCmd(), m.spinner.Tick)
		}
		m.state = m.lastState
	}
	return m, nil
}

func (m *appModel) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.cells.Dimensions()
	col, row := msg.X, msg.Y-canvasTop
	inside := col >= 0 && row >= 0 && col < cols && row < rows
	p := m.cells.CellCenter(col, row)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.apply(m.sess.ZoomIn())
	case msg.Button == tea.MouseButtonWheelDown:
		m.apply(m.sess.ZoomOut())
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inside {
			return
		}
		before := m.sess.Focus()
		m.pressed = true
		m.apply(m.sess.PointerDown(p))
		if focus := m.sess.Focus(); focus != before {
			if sector := m.sess.FocusedSector(); sector != nil {
				m.setStatus(statusInfo, fmt.Sprintf("Editing %s. Drag seats to move them, esc to go back.", sector.Name))
			}
		}
	case msg.Action == tea.MouseActionMotion:
		m.apply(m.sess.PointerMove(p))
	case msg.Action == tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		before := m.sess.Pending()
		m.apply(m.sess.PointerUp(p))
		if m.sess.Pending() > before {
			m.setStatus(statusInfo, "Seat moved. Press s to save.")
		}
	}
}

func (m appModel) submitRow() (appModel, tea.Cmd, bool) {
	req, err := m.form.request()
	if err != nil {
		m.form.err = err
		return m, nil, true
	}
	result, err := m.sess.GenerateRow(req)
	if err != nil {
		if errors.Is(err, seating.ErrNoNewSeats) {
			m.state = stateEdit
			m.setStatus(statusWarn, err.Error())
			return m, nil, true
		}
		m.form.err = err
		return m, nil, true
	}
	m.state = stateEdit
	text := fmt.Sprintf("Generated %d seats in row %s.", result.Created, req.Row)
	if n := len(result.Skipped); n > 0 {
		text += fmt.Sprintf(" Skipped %d existing.", n)
	}
	m.setStatus(statusOK, text+" Press s to save.")
	return m, nil, true
}

func (m appModel) save() (appModel, tea.Cmd, bool) {
	if m.saving {
		return m, nil, true
	}
	ack := m.sess.ConfirmEdits()
	if ack.Saved == 0 {
		m.setStatus(statusInfo, "Nothing to save.")
		return m, nil, true
	}
	if m.opts.Committer == nil {
		m.sess.Restore(ack)
		m.setStatus(statusWarn, "No destination configured; edits kept.")
		return m, nil, true
	}
	m.saving = true
	return m, tea.Batch(m.commitCmd(ack), m.spinner.Tick), true
}

func (m appModel) openSectorList() (appModel, tea.Cmd, bool) {
	v := m.sess.Venue()
	if v == nil || len(v.Sectors) == 0 {
		m.setStatus(statusWarn, "This venue has no sectors.")
		return m, nil, true
	}
	m.sectorList.ResetFilter()
	m.sectorList.SetItems(buildSectorItems(v))
	if i := v.SectorIndex(m.sess.Focus()); i >= 0 {
		m.sectorList.Select(i)
	}
	m.state = stateSelectSector
	return m, nil, true
}

// apply reports the error of a session operation on the status line.
func (m *appModel) apply(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, selection.ErrNotInDetail) {
		m.setStatus(statusWarn, "Open a sector first.")
		return
	}
	m.log.Warn("session operation failed", slog.Any("error", err))
	m.setStatus(statusError, err.Error())
}

func (m *appModel) setStatus(level statusLevel, text string) {
	m.status = status{text: text, level: level}
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	rows := m.height - canvasTop - 1 - m.helpHeight()
	m.cells.Resize(m.width, max(rows, 4))
	m.apply(m.sess.Render())

	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.sectorList.SetSize(m.width, h)
}

func (m appModel) helpHeight() int {
	if !m.help.ShowAll {
		return 1
	}
	lines := 1
	for _, column := range m.keys.FullHelp() {
		lines = max(lines, len(column))
	}
	return lines
}

func (m appModel) loadVenueCmd() tea.Cmd {
	load := m.opts.Load
	return func() tea.Msg {
		if load == nil {
			return venueMsg{err: errors.New("no venue source configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		venue, err := load(ctx)
		return venueMsg{venue: venue, err: err}
	}
}

func (m appModel) commitCmd(ack session.Ack) tea.Cmd {
	committer := m.opts.Committer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		defer cancel()
		return commitMsg{ack: ack, err: committer.Commit(ctx, ack.ChangeSet())}
	}
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateSelectSector, stateGenerate:
		return stateEdit
	default:
		return state
	}
}

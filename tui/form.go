package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"seatmap/model"
	"seatmap/seating"
)

const (
	fieldRow = iota
	fieldStart
	fieldEnd
	fieldSpacing
	fieldX
	fieldY
	fieldCount
)

var fieldLabels = [fieldCount]string{"Row", "First seat", "Last seat", "Spacing", "Anchor X", "Anchor Y"}

// rowForm collects a seating.RowRequest.
type rowForm struct {
	inputs []textinput.Model
	focus  int
	err    error
}

func newRowForm(sector *model.Sector) rowForm {
	req := seating.Suggest(sector)
	values := [fieldCount]string{
		req.Row,
		strconv.Itoa(req.Start),
		strconv.Itoa(req.End),
		formatFloat(req.Spacing),
		formatFloat(req.Anchor.X),
		formatFloat(req.Anchor.Y),
	}

	f := rowForm{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 12
		in.Width = 12
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldRow].CharLimit = 3
	f.inputs[fieldRow].Focus()
	return f
}

func (f *rowForm) next(step int) {
	f.inputs[f.focus].Blur()
	f.focus = ((f.focus+step)%fieldCount + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f rowForm) update(msg tea.Msg) (rowForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = nil
	return f, cmd
}

// request parses the inputs. Range and label rules are left to the
// generator so the form and the CLI report the same errors.
func (f rowForm) request() (seating.RowRequest, error) {
	var req seating.RowRequest
	req.Row = strings.ToUpper(strings.TrimSpace(f.inputs[fieldRow].Value()))

	ints := []struct {
		field int
		dst   *int
	}{{fieldStart, &req.Start}, {fieldEnd, &req.End}}
	for _, in := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(f.inputs[in.field].Value()))
		if err != nil {
			return req, fmt.Errorf("%s must be a whole number", strings.ToLower(fieldLabels[in.field]))
		}
		*in.dst = n
	}

	floats := []struct {
		field int
		dst   *float64
	}{{fieldSpacing, &req.Spacing}, {fieldX, &req.Anchor.X}, {fieldY, &req.Anchor.Y}}
	for _, in := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[in.field].Value()), 64)
		if err != nil {
			return req, fmt.Errorf("%s must be a number", strings.ToLower(fieldLabels[in.field]))
		}
		*in.dst = v
	}
	return req, nil
}

func (f rowForm) View() string {
	label := lipgloss.NewStyle().Width(12)
	focused := lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("5")).Bold(true)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Generate row"))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		style := label
		if i == f.focus {
			style = focused
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hint("tab next field • enter generate • esc cancel"))
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"seatmap/model"
)

type sectorItem struct {
	sector model.Sector
	stats  model.SeatStats
}

func (s sectorItem) Title() string {
	return s.sector.Name
}

func (s sectorItem) Description() string {
	parts := []string{fmt.Sprintf("%d seats", s.stats.Total)}
	if s.stats.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d available", s.stats.Available))
	}
	if s.stats.Pairs > 0 {
		parts = append(parts, fmt.Sprintf("%d pairs", s.stats.Pairs))
	}
	return strings.Join(parts, " • ")
}

func (s sectorItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{s.sector.Name, s.sector.Id}, " "))
}

func buildSectorItems(v *model.Venue) []list.Item {
	items := make([]list.Item, 0, len(v.Sectors))
	for i := range v.Sectors {
		items = append(items, sectorItem{sector: v.Sectors[i], stats: v.Sectors[i].Stats()})
	}
	return items
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

// handleFilterInput types straight into the sector filter.
func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	if !m.sectorList.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.sectorList.SetFilterText(m.sectorList.FilterValue() + string(msg.Runes))
		return true
	case tea.KeySpace:
		m.sectorList.SetFilterText(m.sectorList.FilterValue() + " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		value := m.sectorList.FilterValue()
		if value == "" {
			return false
		}
		value = trimLastRune(value)
		if value == "" {
			m.sectorList.ResetFilter()
			return true
		}
		m.sectorList.SetFilterText(value)
		return true
	default:
		return false
	}
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

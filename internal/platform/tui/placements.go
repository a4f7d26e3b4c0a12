package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

// placementsRefreshRate is how often the table is rebuilt, per second.
const placementsRefreshRate = 2

// PlacementsKeyMap defines the key bindings for the placements screen.
type PlacementsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlacementsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlacementsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Back, k.Quit},
	}
}

// DefaultPlacementsKeyMap returns default key bindings.
func DefaultPlacementsKeyMap() PlacementsKeyMap {
	return PlacementsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PlacementsModel shows every ad slot known to the registry.
type PlacementsModel struct {
	registry  *registry.Registry
	entries   []registry.Entry
	table     table.Model
	help      help.Model
	keys      PlacementsKeyMap
	gen       int
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewPlacementsModel creates a new placements model.
func NewPlacementsModel(reg *registry.Registry, gen, width, height int) PlacementsModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := PlacementsModel{
		registry: reg,
		keys:     DefaultPlacementsKeyMap(),
		help:     h,
		gen:      gen,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.refresh(time.Now())
	return m
}

// createTable creates a new table with appropriate columns.
func (m *PlacementsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Placement", Width: 40},
		{Title: "State", Width: 8},
		{Title: "Expires in", Width: 10},
		{Title: "Ad", Width: 24},
	}

	// Shrink the placement column on narrow terminals
	if spare := m.width - 4 - 52; spare < 40 {
		columns[0].Width = max(spare, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// refresh reloads the registry snapshot into the table.
func (m *PlacementsModel) refresh(now time.Time) {
	if m.registry == nil {
		m.entries = nil
	} else {
		m.entries = m.registry.List()
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		expires := "-"
		ad := "-"
		if e.State == ads.StateLoaded {
			left := e.ValidUntil.Sub(now)
			if left > 0 {
				expires = left.Truncate(time.Second).String()
			} else {
				expires = "stale"
			}
			ad = fmt.Sprintf("%s (%s)", e.Ad.Title, e.Ad.Source)
		}
		rows[i] = table.Row{e.PlacementID, e.State.String(), expires, ad}
	}
	m.table.SetRows(rows)
}

// Init starts the refresh loop.
func (m PlacementsModel) Init() tea.Cmd {
	return tickCmd(placementsRefreshRate, m.gen)
}

// Update handles messages for the placements screen.
func (m PlacementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		}

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.refresh(msg.Time)
		return m, tickCmd(placementsRefreshRate, m.gen)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.refresh(time.Now())
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the placements screen.
func (m PlacementsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("AD PLACEMENTS (%d)", len(m.entries))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(" "+title+" "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var content string
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		content = emptyStyle.Render("No placements yet.\nStart a game to request the first ad!")
	} else {
		content = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableStyle.Render(content)))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m PlacementsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m PlacementsModel) IsQuitting() bool {
	return m.quitting
}

// Package tui is a terminal browser for itineraries.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/mapview"
	"github.com/evcraddock/build-your-day/internal/slot"
)

const failureMessage = "That didn't go quite as planned! Please try again."

const (
	previewWidth  = 48
	previewHeight = 16
)

// previewMsg carries a rendered image for one venue.
type previewMsg struct {
	venue string
	art   string
}

// Model is the root Bubble Tea model.
type Model struct {
	tables    *dataset.Tables
	assembler *itinerary.Assembler
	images    *asset.Resolver
	rng       itinerary.Rand

	sel    *itinerary.Selection
	it     *itinerary.Itinerary
	view   *mapview.View
	cursor slot.Slot

	preview      string
	previewVenue string

	width  int
	height int
	error  string

	keys KeyMap
}

// New creates a browser over the given tables. images may be nil to disable
// previews.
func New(tables *dataset.Tables, images *asset.Resolver, rng itinerary.Rand) Model {
	return Model{
		tables:    tables,
		assembler: itinerary.NewAssembler(tables),
		images:    images,
		rng:       rng,
		sel:       itinerary.NewSelection(),
		cursor:    slot.Brunch,
		keys:      DefaultKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case previewMsg:
		if msg.venue == m.selectedVenue() {
			m.preview = msg.art
			m.previewVenue = msg.venue
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Generate):
			m.generate()
		case key.Matches(msg, m.keys.Up):
			if m.cursor > slot.Brunch {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < slot.Evening {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Next):
			m.navigate(m.sel.Advance)
		case key.Matches(msg, m.keys.Prev):
			m.navigate(m.sel.Retreat)
		default:
			return m, nil
		}
		return m, m.previewCmd()
	}

	return m, nil
}

func (m *Model) generate() {
	if err := m.sel.Generate(m.rng, m.tables.RouteCount()); err != nil {
		m.failed(err)
		return
	}
	m.resolve()
}

// resolve rebuilds the whole itinerary and map.
func (m *Model) resolve() {
	it, err := m.assembler.Resolve(m.sel.RouteIndex, m.sel.States)
	if err != nil {
		m.failed(err)
		return
	}
	view, errs := mapview.Render(it)
	for _, e := range errs {
		slog.Debug("skipping marker", "error", e)
	}
	m.it, m.view, m.error = it, view, ""
}

// navigate moves the selected slot and re-resolves only that slot.
func (m *Model) navigate(move func(slot.Slot) slot.State) {
	state := move(m.cursor)
	if !m.sel.HasRoute {
		return
	}
	if m.it == nil {
		m.resolve()
		return
	}
	stop, err := m.assembler.ResolveSlot(m.sel.RouteIndex, m.cursor, state)
	if err != nil {
		m.failed(err)
		return
	}
	m.it.Replace(stop)
	if err := m.view.Update(stop); err != nil {
		slog.Debug("skipping marker", "error", err)
	}
	m.error = ""
}

func (m *Model) failed(err error) {
	slog.Debug("itinerary failed", "error", err)
	m.it, m.view = nil, nil
	m.error = failureMessage
}

func (m Model) selectedVenue() string {
	if m.it == nil {
		return ""
	}
	return m.it.Stops[m.cursor].Venue.Name
}

// previewCmd renders the selected venue's image off the update loop.
func (m Model) previewCmd() tea.Cmd {
	venue := m.selectedVenue()
	if m.images == nil || venue == "" || venue == m.previewVenue {
		return nil
	}
	images := m.images
	return func() tea.Msg {
		art, err := loadPreview(images, venue, previewWidth, previewHeight)
		if err != nil && !asset.IsMissing(err) {
			slog.Debug("preview failed", "venue", venue, "error", err)
		}
		return previewMsg{venue: venue, art: art}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Manchester: Build Your Day!"))
	b.WriteString("\n\n")

	switch {
	case m.error != "":
		b.WriteString(ErrorStyle.Render(m.error))
		b.WriteString("\n")
	case m.it == nil:
		b.WriteString(NormalRowStyle.Render("Press g to generate an itinerary."))
		b.WriteString("\n")
	default:
		b.WriteString(m.stopsView())
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) stopsView() string {
	var rows []string
	for _, stop := range m.it.Stops {
		line := fmt.Sprintf("%-20s %s", stop.Title, stop.Venue.Name)
		label := LabelStyle.Render(" (" + stop.State.Label() + ")")
		if stop.Slot == m.cursor {
			rows = append(rows, SelectedRowStyle.Render("> "+line)+label)
		} else {
			rows = append(rows, NormalRowStyle.Render("  "+line)+label)
		}
	}
	list := strings.Join(rows, "\n")

	sel := m.it.Stops[m.cursor]
	details := []string{
		"Address: " + sel.Venue.Address,
		"Link: " + string(mapview.SafeLink(sel.Venue.Link)),
	}
	if marker := m.view.Markers[m.cursor]; marker != nil {
		details = append(details, fmt.Sprintf("Location: %.4f, %.4f", marker.Position.Lat, marker.Position.Long))
	}
	if len(m.view.Plotted()) > 0 {
		details = append(details, fmt.Sprintf("Map center: %.4f, %.4f", m.view.Center.Lat, m.view.Center.Long))
	}
	if sel.Venue.ImageSource != "" {
		details = append(details, "Source: "+sel.Venue.ImageSource)
	}
	detail := DetailStyle.Render(strings.Join(details, "\n"))

	out := list + "\n\n" + detail + "\n"
	if m.preview != "" && m.previewVenue == sel.Venue.Name {
		out = lipgloss.JoinVertical(lipgloss.Left, out, m.preview)
	}
	return out
}

func (m Model) helpView() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, HelpKeyStyle.Render(h.Key)+" "+HelpDescStyle.Render(h.Desc))
	}
	return FooterStyle.Render(strings.Join(parts, "  "))
}

// Selection returns the current route and slot states.
func (m Model) Selection() itinerary.Selection {
	return *m.sel
}

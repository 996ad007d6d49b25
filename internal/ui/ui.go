package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/desertthunder/champr/internal/orchestrator"
	"github.com/desertthunder/champr/internal/state"
)

// Options configures a [Model].
type Options struct {
	Orchestrator    *orchestrator.Orchestrator
	Store           *state.Store
	RefreshInterval time.Duration
	Logger          *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	orch     *orchestrator.Orchestrator
	store    *state.Store
	interval time.Duration
	logger   *log.Logger

	frame  orchestrator.Frame
	input  orchestrator.Input
	cursor int
	picker sourcePicker
	notice string

	width   int
	height  int
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model driving orch from store snapshots.
func NewModel(opts Options) *Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Model{
		orch:     opts.Orchestrator,
		store:    opts.Store,
		interval: opts.RefreshInterval,
		logger:   opts.Logger.With("component", "ui"),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.warn)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Frame returns the most recent frame.
func (m *Model) Frame() orchestrator.Frame {
	return m.frame
}

// Init runs the first cycle and starts the refresh tick.
func (m *Model) Init() tea.Cmd {
	m.cycle()
	return tea.Batch(tick(m.interval), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		m.cycle()
		if msg.kind == MsgTick {
			return m, tick(m.interval)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.picker.open {
			return m.handlePickerKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

// cycle runs one orchestration pass with the input gathered since the last one.
func (m *Model) cycle() {
	m.frame = m.orch.Cycle(m.store.Snapshot(), m.input)
	m.input = orchestrator.Input{}

	if n := len(m.runes()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if name := m.frame.ApplyRune.Applied; name != "" {
		m.notice = fmt.Sprintf("Applied rune page %q", name)
	}
}

func (m *Model) runes() []orchestrator.RuneView {
	var out []orchestrator.RuneView
	for _, s := range m.frame.Builds.Sections {
		out = append(out, s.Runes...)
	}
	return out
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.orch.Post(orchestrator.ToggleVisibility{})
		m.cycle()
		return m, nil
	}

	if m.frame.Hidden {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.runes())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.enter):
		runes := m.runes()
		if m.cursor < len(runes) {
			r := runes[m.cursor].Rune
			m.input.ApplyRune = &r
			m.notice = ""
			m.cycle()
		}
	case key.Matches(msg, m.keys.sources):
		m.picker.reset()
		m.picker.open = true
	case key.Matches(msg, m.keys.bulk):
		m.input.BulkApply = true
		m.cycle()
	case key.Matches(msg, m.keys.reload):
		m.logger.Info("reloading client catalog")
		m.orch.ResetCatalog()
		m.cycle()
	}
	return m, nil
}

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.picker.matches(m.frame.Sources.Items)

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.picker.reset()
	case tea.KeyUp:
		m.picker.move(-1, len(items))
	case tea.KeyDown:
		m.picker.move(1, len(items))
	case tea.KeyBackspace:
		m.picker.backspace()
	case tea.KeyEnter:
		if m.picker.cursor < len(items) {
			m.input.SelectSource = items[m.picker.cursor].Value
			m.cursor = 0
			m.cycle()
		}
		m.picker.reset()
	case tea.KeyRunes, tea.KeySpace:
		m.picker.typeRunes(string(msg.Runes))
	}
	return m, nil
}

// View renders the latest frame.
func (m *Model) View() string {
	f := m.frame
	if f.Hidden {
		return styles.help.Render("champr is hidden. Press t to show, q to quit.") + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("champr"))
	b.WriteString("\n")

	if !f.Connected {
		fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), styles.warn.Render("Waiting for the game client..."))
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.quit}))
		return b.String()
	}

	region := ""
	if f.AlternateRegion {
		region = " (alternate region)"
	}
	fmt.Fprintf(&b, "%s%s\n", styles.ok.Render(fmt.Sprintf("Connected on port %d", f.Port)), region)

	m.renderCatalog(&b)
	m.renderChampion(&b)
	m.renderSources(&b)
	if m.picker.open {
		m.renderPicker(&b)
	} else {
		m.renderBuilds(&b)
	}
	m.renderStatus(&b)

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderCatalog(b *strings.Builder) {
	c := m.frame.Catalog
	if c.Pending {
		fmt.Fprintf(b, "%s loading client data\n", m.spinner.View())
	}
	for _, e := range m.frame.CatalogErrors() {
		b.WriteString(styles.err.Render(e))
		b.WriteString("\n")
	}
}

func (m *Model) renderChampion(b *strings.Builder) {
	c := m.frame.Champion
	switch {
	case c.ID <= 0:
		b.WriteString(styles.help.Render("No champion selected"))
	case !c.Resolved:
		fmt.Fprintf(b, "Champion #%d", c.ID)
	default:
		fmt.Fprintf(b, "%s %s", m.icon(c.Avatar), styles.ok.Render(c.Name))
	}
	b.WriteString("\n")
}

func (m *Model) renderSources(b *strings.Builder) {
	s := m.frame.Sources
	switch {
	case s.Pending:
		fmt.Fprintf(b, "%s loading sources\n", m.spinner.View())
	case s.Err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Failed to load sources: %v", s.Err)))
		b.WriteString("\n")
	case s.Selected != "":
		mode := ""
		for _, item := range s.Items {
			if item.Value == s.Selected {
				mode = " " + item.Mode()
			}
		}
		fmt.Fprintf(b, "Source: %s%s\n", s.Selected, mode)
	}
}

func (m *Model) renderPicker(b *strings.Builder) {
	fmt.Fprintf(b, "\nSource: %s_\n", m.picker.query)
	items := m.picker.matches(m.frame.Sources.Items)
	if len(items) == 0 {
		b.WriteString(styles.help.Render("  no matching sources"))
		b.WriteString("\n")
		return
	}
	for i, item := range items {
		line := fmt.Sprintf("  %-24s %-20s %s", item.Value, item.Label, item.Mode())
		if i == m.picker.cursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) renderBuilds(b *strings.Builder) {
	bv := m.frame.Builds
	if !bv.Visible {
		return
	}
	b.WriteString("\n")

	switch {
	case bv.Pending:
		fmt.Fprintf(b, "%s fetching %s builds from %s\n", m.spinner.View(), bv.Alias, bv.Source)
		return
	case bv.Err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Failed to load builds: %v", bv.Err)))
		b.WriteString("\n")
		return
	case len(bv.Sections) == 0:
		b.WriteString(styles.help.Render("No builds for this champion"))
		b.WriteString("\n")
		return
	}

	i := 0
	for _, s := range bv.Sections {
		b.WriteString(styles.section.Render(strings.TrimSpace(s.Section.Name + " " + s.Section.Position)))
		b.WriteString("\n")
		for _, r := range s.Runes {
			line := fmt.Sprintf("%s %s %s  picks %d  win %s%%",
				m.icon(r.Primary), m.icon(r.Sub), r.Rune.PageName(), r.Rune.PickCount, r.Rune.WinRate)
			if r.Pending {
				line += " " + m.spinner.View()
			}
			if i == m.cursor {
				line = styles.selected.Render(line)
			}
			b.WriteString("  " + line + "\n")
			i++
		}
	}
}

func (m *Model) renderStatus(b *strings.Builder) {
	a := m.frame.ApplyRune
	switch {
	case a.Pending && a.Target != nil:
		fmt.Fprintf(b, "\n%s applying %s\n", m.spinner.View(), a.Target.PageName())
	case a.Err != nil && a.Target != nil:
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Failed to apply %s: %v", a.Target.PageName(), a.Err)) + "\n")
	case m.notice != "":
		b.WriteString("\n" + styles.ok.Render(m.notice) + "\n")
	}

	if m.frame.Bulk.Pending {
		fmt.Fprintf(b, "%s writing item sets from %s\n", m.spinner.View(), m.frame.Bulk.Source)
	}
}

// icon draws an icon slot; the terminal shows the downloaded size in place of the image.
func (m *Model) icon(v orchestrator.IconView) string {
	switch v.State() {
	case orchestrator.IconSpinner:
		return m.spinner.View()
	case orchestrator.IconImage:
		return styles.help.Render("[" + humanize.Bytes(uint64(len(v.Bytes))) + "]")
	default:
		return styles.help.Render("[ ]")
	}
}

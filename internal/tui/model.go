// Package tui provides an interactive browser for discovered executables:
// navigate the list, extract icons with Enter, toggle largest-only mode.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcdonaldj/icograb/internal/adapters/exec7z"
	"github.com/mcdonaldj/icograb/internal/adapters/tuisvc"
	"github.com/mcdonaldj/icograb/internal/config"
	"github.com/mcdonaldj/icograb/internal/extract"
	"github.com/mcdonaldj/icograb/internal/ports"
)

// Model is the main TUI model
type Model struct {
	svc      ports.TUIService
	items    []ports.ExeItem
	cursor   int
	width    int
	height   int
	quitting bool

	// Extraction mode
	largestOnly bool
	extracting  bool

	// Status message
	statusMsg string
	statusErr bool
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Extract key.Binding
	Largest key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Extract: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "extract"),
	),
	Largest: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "toggle largest-only"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// extractDoneMsg reports a finished extraction.
type extractDoneMsg struct {
	path  string
	count int
	err   error
}

// NewModelWithService creates a model over the given service, discovering
// executables under the given paths.
func NewModelWithService(svc ports.TUIService, paths []string, recursive bool) (*Model, error) {
	items, err := svc.Discover(paths, recursive)
	if err != nil {
		return nil, fmt.Errorf("discovering executables: %w", err)
	}
	return &Model{
		svc:   svc,
		items: items,
	}, nil
}

// NewModel creates a model with real production dependencies, using the
// config file for defaults. With no paths the current directory is scanned.
func NewModel(paths []string) (*Model, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	zipPath := cfg.SevenZip
	if zipPath == "" {
		if zipPath, err = exec7z.Locate(); err != nil {
			return nil, fmt.Errorf("could not locate 7-Zip: %w", err)
		}
	}

	outputDir, err := filepath.Abs(config.ExpandPath(cfg.OutputDir))
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(config.ExpandPath(p))
		if err != nil {
			return nil, err
		}
		abs = append(abs, a)
	}

	// Listing warnings go to stderr so they survive the alternate screen.
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "warning:", msg) }
	m, err := NewModelWithService(tuisvc.New(zipPath, outputDir, warn), abs, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	m.largestOnly = cfg.LargestOnly
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case extractDoneMsg:
		m.extracting = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("extraction failed for %s: %v", filepath.Base(msg.path), msg.err)
			m.statusErr = true
		} else {
			m.statusMsg = fmt.Sprintf("extracted %d icon(s) from %s into %s",
				msg.count, filepath.Base(msg.path), m.svc.OutputDir())
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, keys.Largest):
			m.largestOnly = !m.largestOnly
			if m.largestOnly {
				m.statusMsg = "largest-only mode on"
			} else {
				m.statusMsg = "largest-only mode off"
			}
			m.statusErr = false
			return m, nil

		case key.Matches(msg, keys.Extract):
			if m.extracting || len(m.items) == 0 {
				return m, nil
			}
			item := m.items[m.cursor]
			if item.ListFailed || item.IconCount == 0 {
				m.statusMsg = fmt.Sprintf("nothing to extract from %s", filepath.Base(item.Path))
				m.statusErr = true
				return m, nil
			}
			m.extracting = true
			m.statusMsg = fmt.Sprintf("extracting from %s...", filepath.Base(item.Path))
			m.statusErr = false
			return m, m.extractCmd(item.Path)
		}
	}

	return m, nil
}

// extractCmd runs one extraction off the update loop.
func (m *Model) extractCmd(path string) tea.Cmd {
	largest := m.largestOnly
	return func() tea.Msg {
		count, err := m.svc.Extract(path, largest)
		return extractDoneMsg{path: path, count: count, err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := " icograb "
	if m.largestOnly {
		title = " icograb · largest only "
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("No executables found."))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		line := m.renderItem(item)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorBadge.Render("x ") + m.statusMsg)
		} else {
			b.WriteString(successBadge.Render("* ") + m.statusMsg)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ navigate · enter extract · l largest-only · q quit"))

	return appStyle.Render(b.String())
}

// renderItem formats one executable row.
func (m *Model) renderItem(item ports.ExeItem) string {
	name := filepath.Base(item.Path)
	switch {
	case item.ListFailed:
		return fmt.Sprintf("%-40s %s", name, dimStyle.Render("listing failed"))
	case item.IconCount == 0:
		return fmt.Sprintf("%-40s %s", name, dimStyle.Render("no icons"))
	default:
		return fmt.Sprintf("%-40s %3d icons  largest %s",
			name, item.IconCount, extract.FormatSize(item.LargestSize))
	}
}

// Run starts the TUI, discovering executables under the given paths.
func Run(paths []string) error {
	m, err := NewModel(paths)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

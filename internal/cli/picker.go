package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// dirPickerModel is the bubbletea model for interactive selection of the
// run directory.
type dirPickerModel struct {
	Path     string
	Entries  []string
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

func newDirPickerModel(start string) (dirPickerModel, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return dirPickerModel{}, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	m := dirPickerModel{Path: abs, Height: 15}
	m.loadEntries()
	return m, nil
}

// loadEntries lists the visible subdirectories of the current path.
func (m *dirPickerModel) loadEntries() {
	m.Entries = nil
	m.Cursor = 0
	m.Offset = 0

	entries, err := os.ReadDir(m.Path)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			m.Entries = append(m.Entries, entry.Name())
		}
	}
}

func (m dirPickerModel) Init() tea.Cmd {
	return nil
}

func (m dirPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if len(m.Entries) > 0 {
				m.Path = filepath.Join(m.Path, m.Entries[m.Cursor])
				m.loadEntries()
			}
		case "backspace", "left", "h":
			parent := filepath.Dir(m.Path)
			if parent != m.Path {
				m.Path = parent
				m.loadEntries()
			}
		case ".":
			m.Selected = m.Path
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m dirPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Run Directory"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ descend  ⌫ parent  . choose here  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleHighlight.Render(m.Path))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  (no subdirectories)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.Entries[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.Entries[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickDirectory runs the interactive picker and returns the chosen path.
func pickDirectory(start string) (string, error) {
	model, err := newDirPickerModel(start)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("directory selection failed: %w", err)
	}

	m, ok := finalModel.(dirPickerModel)
	if !ok || m.Selected == "" {
		return "", errors.New("no directory selected")
	}
	return m.Selected, nil
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/tree"
)

var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive outline editor.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [map.json]",
		Short: "Browse and edit a mind map as an interactive outline",
		Long: `Browse and edit a mind map as an interactive outline.

The outline shows the map depth-first in sibling order. Branches can be
collapsed and expanded, and nodes can be moved up and down among their
siblings. Saving writes the edited map back to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mapdoc.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load map %s: %w", args[0], err)
			}

			model := newBrowseModel(t, args[0])
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return fmt.Errorf("run browser: %w", err)
			}

			m := final.(browseModel)
			if m.saveErr != nil {
				return m.saveErr
			}
			if m.saved {
				printSuccess("Saved")
				printFile(args[0])
			} else if m.dirty {
				printWarning("Changes discarded")
			}
			return nil
		},
	}
}

// outlineRow is one visible line of the outline.
type outlineRow struct {
	id    string
	depth int
}

// browseModel is the bubbletea model for the outline editor.
type browseModel struct {
	tree   *tree.Tree
	path   string
	rows   []outlineRow
	cursor int
	height int
	offset int

	dirty   bool
	saved   bool
	saveErr error
}

func newBrowseModel(t *tree.Tree, path string) browseModel {
	m := browseModel{tree: t, path: path, height: 20}
	m.rebuild()
	return m
}

// rebuild flattens the visible part of the tree depth-first in sibling
// order, skipping children of collapsed branches.
func (m *browseModel) rebuild() {
	m.rows = m.rows[:0]
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := m.tree.Node(id)
		if !ok {
			return
		}
		m.rows = append(m.rows, outlineRow{id: id, depth: depth})
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(m.tree.RootID(), 0)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}

		case "enter", " ":
			m.toggleCollapse()

		case "K", "shift+up":
			m.moveSibling(true)

		case "J", "shift+down":
			m.moveSibling(false)

		case "s":
			m.saveErr = mapdoc.WriteFile(m.tree, m.path)
			if m.saveErr == nil {
				m.saved = true
				m.dirty = false
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// toggleCollapse flips the collapsed flag of the node under the cursor.
func (m *browseModel) toggleCollapse() {
	row := m.rows[m.cursor]
	n, ok := m.tree.Node(row.id)
	if !ok || len(n.Children) == 0 {
		return
	}
	n.Collapsed = !n.Collapsed
	m.dirty = true
	m.rebuild()
}

// moveSibling swaps the node under the cursor with its previous or next
// sibling. Moves across parents are not offered in the outline.
func (m *browseModel) moveSibling(up bool) {
	row := m.rows[m.cursor]
	n, ok := m.tree.Node(row.id)
	if !ok || n.ParentID == "" {
		return
	}

	siblings := m.tree.Children(n.ParentID)
	idx := -1
	for i, s := range siblings {
		if s == row.id {
			idx = i
			break
		}
	}
	var target string
	switch {
	case up && idx > 0:
		target = siblings[idx-1]
	case !up && idx >= 0 && idx < len(siblings)-1:
		target = siblings[idx+1]
	default:
		return
	}

	next, applied := m.tree.ReorderSibling(row.id, target, up)
	if !applied {
		return
	}
	m.tree = next
	m.dirty = true
	m.rebuild()

	for i, r := range m.rows {
		if r.id == row.id {
			m.cursor = i
			break
		}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mindgrid Outline"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ fold  J/K move  s save  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		n, _ := m.tree.Node(row.id)

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := "· "
		if len(n.Children) > 0 {
			if n.Collapsed {
				marker = "+ "
			} else {
				marker = "- "
			}
		}

		title := n.Title
		if title == "" {
			title = n.ID
		}
		line := cursor + strings.Repeat("  ", row.depth) + marker + title

		if i == m.cursor {
			b.WriteString(browseSelectedStyle.Render(line))
		} else {
			b.WriteString(browseNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))
	if m.dirty {
		status += "  modified"
	}
	b.WriteString(browseDimStyle.Render(status))

	return b.String()
}

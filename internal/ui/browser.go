package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"spinet/internal/hier"
)

// Browse runs the interactive hierarchy browser until the user quits.
// build runs on the event loop's side so large decks keep the spinner
// animated while the tree is expanded.
func Browse(title string, build func() (*hier.TreeNode, error)) error {
	_, err := tea.NewProgram(newBrowserModel(title, build), tea.WithAltScreen()).Run()
	return err
}

type browserModel struct {
	title string
	build func() (*hier.TreeNode, error)

	spinner   spinner.Model
	root      *hier.TreeNode
	collapsed map[*hier.TreeNode]bool
	rows      []browserRow
	cursor    int
	offset    int
	width     int
	height    int
	loading   bool
	err       error
}

type browserRow struct {
	node  *hier.TreeNode
	depth int
}

type treeMsg struct{ root *hier.TreeNode }
type treeErrMsg struct{ err error }

func newBrowserModel(title string, build func() (*hier.TreeNode, error)) *browserModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &browserModel{
		title:     title,
		build:     build,
		spinner:   sp,
		collapsed: make(map[*hier.TreeNode]bool),
		width:     80,
		height:    24,
		loading:   true,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.buildTree())
}

func (m *browserModel) buildTree() tea.Cmd {
	return func() tea.Msg {
		root, err := m.build()
		if err != nil {
			return treeErrMsg{err: err}
		}
		return treeMsg{root: root}
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case treeMsg:
		m.loading = false
		m.root = msg.root
		m.refresh()
		return m, nil
	case treeErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *browserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "pgup":
		m.cursor -= m.pageSize()
	case "pgdown":
		m.cursor += m.pageSize()
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.rows) - 1
	case "enter", " ":
		m.toggle()
	case "e":
		m.collapsed = make(map[*hier.TreeNode]bool)
		m.refresh()
	case "c":
		m.collapseAll(m.root)
		m.refresh()
	}
	m.clampCursor()
	return m, nil
}

func (m *browserModel) toggle() {
	if m.cursor >= len(m.rows) {
		return
	}
	node := m.rows[m.cursor].node
	if len(node.Children) == 0 {
		return
	}
	m.collapsed[node] = !m.collapsed[node]
	m.refresh()
}

func (m *browserModel) collapseAll(node *hier.TreeNode) {
	if node == nil {
		return
	}
	if len(node.Children) > 0 && node != m.root {
		m.collapsed[node] = true
	}
	for _, child := range node.Children {
		m.collapseAll(child)
	}
}

// refresh rebuilds the visible rows, keeping the cursor on a valid row.
func (m *browserModel) refresh() {
	m.rows = m.rows[:0]
	m.appendRows(m.root, 0)
	m.clampCursor()
}

func (m *browserModel) appendRows(node *hier.TreeNode, depth int) {
	if node == nil {
		return
	}
	m.rows = append(m.rows, browserRow{node: node, depth: depth})
	if m.collapsed[node] {
		return
	}
	for _, child := range node.Children {
		m.appendRows(child, depth+1)
	}
}

func (m *browserModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if page := m.pageSize(); m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

// pageSize is the number of tree rows that fit between the header and the
// status bar.
func (m *browserModel) pageSize() int {
	return max(m.height-4, 1)
}

func (m *browserModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	faintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	if m.loading {
		b.WriteString(fmt.Sprintf("%s expanding %s\n", m.spinner.View(), m.title))
		return b.String()
	}
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		b.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
		b.WriteString(faintStyle.Render("q quit") + "\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	page := m.pageSize()
	endRow := min(m.offset+page, len(m.rows))
	for i := m.offset; i < endRow; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("%d/%d  ↑/↓ move  enter fold  e/c expand/collapse all  q quit",
		m.cursor+1, len(m.rows))
	b.WriteString(faintStyle.Render(status))
	b.WriteString("\n")
	return b.String()
}

func (m *browserModel) renderRow(i int) string {
	row := m.rows[i]
	marker := "  "
	switch {
	case len(row.node.Children) == 0:
	case m.collapsed[row.node]:
		marker = "▸ "
	default:
		marker = "▾ "
	}

	label := row.node.Name
	if row.node.SubcktRef != "" {
		label += " (" + row.node.SubcktRef + ")"
	}
	line := strings.Repeat("  ", row.depth) + marker + label
	line = truncate(line, m.width-2)

	if i == m.cursor {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).Render("> " + line)
	}
	return "  " + line
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

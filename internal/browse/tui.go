// Package browse is an interactive terminal view of one search: every
// fetched posting on the left, the ones not yet in the seen set on the right.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobwatch/internal/diff"
	"github.com/amishk599/jobwatch/internal/model"
)

// Lines per posting in the list view (title + link + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

const (
	paneAll = iota
	paneNew
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle   = headerStyle.Foreground(lipgloss.Color("39"))
	inactiveHeaderStyle = headerStyle.Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	newBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	all   []model.Posting
	fresh []model.Posting
	seen  model.SeenSet

	panes  [2]viewport.Model
	cursor [2]int
	active int
	width  int
	height int
	ready  bool

	view           viewState
	detail         model.Posting
	detailViewport viewport.Model

	// openURL is swapped in tests.
	openURL func(string)
}

func newBrowseModel(postings []model.Posting, seen model.SeenSet) browseModel {
	if seen == nil {
		seen = model.NewSeenSet()
	}
	return browseModel{
		all:     postings,
		fresh:   diff.New(postings, seen),
		seen:    seen,
		openURL: openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right":
		m.active = 1 - m.active
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "o":
		if p, ok := m.selected(); ok {
			m.openURL(p.RawLink)
		}
		return m, nil
	case "enter":
		return m.openDetailView(), nil
	}

	// pgup/pgdn/home/end scroll the active pane.
	var cmd tea.Cmd
	m.panes[m.active], cmd = m.panes[m.active].Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.openURL(m.detail.RawLink)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) list(pane int) []model.Posting {
	if pane == paneAll {
		return m.all
	}
	return m.fresh
}

func (m *browseModel) selected() (model.Posting, bool) {
	postings := m.list(m.active)
	if len(postings) == 0 {
		return model.Posting{}, false
	}
	return postings[m.cursor[m.active]], true
}

func (m *browseModel) moveCursor(delta int) {
	last := max(len(m.list(m.active))-1, 0)
	m.cursor[m.active] = clamp(m.cursor[m.active]+delta, 0, last)
	m.recalcContent()

	vp := &m.panes[m.active]
	top := m.cursor[m.active] * itemHeight
	bottom := top + itemHeight - 1
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() browseModel {
	p, ok := m.selected()
	if !ok {
		return m
	}
	m.view = viewDetail
	m.detail = p
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)
	// Header + border top/bottom + status bar.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.panes[paneAll] = viewport.New(paneWidth, paneHeight)
		m.panes[paneNew] = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		for i := range m.panes {
			m.panes[i].Width = paneWidth
			m.panes[i].Height = paneHeight
		}
	}
	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	for pane := range m.panes {
		m.panes[pane].SetContent(m.renderPostings(m.list(pane), m.cursor[pane], m.active == pane))
	}
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.panes[paneAll].Width

	headers := [2]string{
		fmt.Sprintf(" All Results (%d)", len(m.all)),
		fmt.Sprintf(" New (%d)", len(m.fresh)),
	}
	var renderedHeaders, renderedPanes [2]string
	for pane := range m.panes {
		header, border := inactiveHeaderStyle, inactiveBorderStyle
		if pane == m.active {
			header, border = activeHeaderStyle, activeBorderStyle
		}
		renderedHeaders[pane] = lipgloss.NewStyle().Width(paneWidth + 2).Render(header.Render(headers[pane]))
		renderedPanes[pane] = border.Width(paneWidth).Render(m.panes[pane].View())
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, renderedHeaders[0], " ", renderedHeaders[1])
	panes := lipgloss.JoinHorizontal(lipgloss.Top, renderedPanes[0], " ", renderedPanes[1])

	statusText := fmt.Sprintf(" %d fetched | %d new | %d already seen    ←/→/Tab switch  ↑/↓ cursor  Enter detail  o open  q quit",
		len(m.all), len(m.fresh), len(m.all)-len(m.fresh))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Posting")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open link  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	p := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", p.Title)
	status := "new"
	if m.seen.Has(p.ID) {
		status = "seen"
	}
	addField("Status", status)
	addField("Link", p.RawLink)
	if p.ID != p.RawLink {
		addField("ID", p.ID)
	}

	if p.Snippet != "" {
		b.WriteByte('\n')
		b.WriteString(snippetStyle.Render(wordWrap(p.Snippet, max(m.width-8, 20))))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m browseModel) renderPostings(postings []model.Posting, cursor int, isActive bool) string {
	if len(postings) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, p := range postings {
		title, subtitle, prefix := titleStyle, subtitleStyle, "  "
		if isActive && i == cursor {
			title, subtitle, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		b.WriteString(prefix)
		if !m.seen.Has(p.ID) {
			b.WriteString(newBadgeStyle.Render("● "))
		}
		b.WriteString(title.Render(p.Title))
		b.WriteByte('\n')
		b.WriteString(prefix)
		b.WriteString(subtitle.Render(p.ID))
		b.WriteByte('\n')

		if i < len(postings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the split-pane browser over postings. seen marks which
// postings were already notified; it is never modified.
func Run(postings []model.Posting, seen model.SeenSet) error {
	p := tea.NewProgram(newBrowseModel(postings, seen), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

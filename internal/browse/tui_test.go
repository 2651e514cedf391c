package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobwatch/internal/model"
)

func testPostings() []model.Posting {
	return []model.Posting{
		{RawLink: "https://il.linkedin.com/jobs/view/1?trk=x", ID: "https://il.linkedin.com/jobs/view/1", Title: "Junior Go Developer", Snippet: "Tel Aviv"},
		{RawLink: "https://il.linkedin.com/jobs/view/2", ID: "https://il.linkedin.com/jobs/view/2", Title: "Junior Backend Engineer"},
		{RawLink: "https://il.linkedin.com/jobs/view/3", ID: "https://il.linkedin.com/jobs/view/3", Title: "Junior Full Stack"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(m browseModel) browseModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(browseModel)
}

func press(m browseModel, keys ...string) browseModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(browseModel)
	}
	return m
}

func TestNewBrowseModel_SplitsNewFromSeen(t *testing.T) {
	postings := testPostings()
	m := newBrowseModel(postings, model.NewSeenSet(postings[1].ID))

	if len(m.all) != 3 {
		t.Errorf("all = %d, want 3", len(m.all))
	}
	if len(m.fresh) != 2 || m.fresh[0].ID != postings[0].ID || m.fresh[1].ID != postings[2].ID {
		t.Errorf("fresh = %+v", m.fresh)
	}
}

func TestBrowse_CursorClampsAndSwitchesPane(t *testing.T) {
	postings := testPostings()
	m := sized(newBrowseModel(postings, model.NewSeenSet(postings[0].ID)))

	m = press(m, "down", "down", "down", "down")
	if m.cursor[paneAll] != 2 {
		t.Errorf("all cursor = %d, want 2", m.cursor[paneAll])
	}

	m = press(m, "tab", "down", "down")
	if m.active != paneNew || m.cursor[paneNew] != 1 {
		t.Errorf("active = %d, new cursor = %d", m.active, m.cursor[paneNew])
	}
	if p, _ := m.selected(); p.ID != postings[2].ID {
		t.Errorf("selected = %q, want %q", p.ID, postings[2].ID)
	}
}

func TestBrowse_OpenUsesRawLink(t *testing.T) {
	var opened []string
	m := sized(newBrowseModel(testPostings(), nil))
	m.openURL = func(u string) { opened = append(opened, u) }

	m = press(m, "o", "enter", "o")
	if m.view != viewDetail {
		t.Fatalf("view = %v, want detail", m.view)
	}
	if len(opened) != 2 || opened[0] != "https://il.linkedin.com/jobs/view/1?trk=x" || opened[1] != opened[0] {
		t.Errorf("opened = %v", opened)
	}

	m = press(m, "esc")
	if m.view != viewList {
		t.Errorf("view = %v, want list after esc", m.view)
	}
}

func TestBrowse_DetailShowsStatus(t *testing.T) {
	postings := testPostings()
	m := sized(newBrowseModel(postings, model.NewSeenSet(postings[0].ID)))
	m = press(m, "enter")

	out := m.renderDetail()
	if !strings.Contains(out, "seen") || !strings.Contains(out, "Junior Go Developer") {
		t.Errorf("detail = %q", out)
	}
	if !strings.Contains(out, postings[0].ID) {
		t.Errorf("detail should show canonical id when it differs from the link: %q", out)
	}
}

func TestBrowse_EmptyPane(t *testing.T) {
	postings := testPostings()
	seen := model.NewSeenSet(postings[0].ID, postings[1].ID, postings[2].ID)
	m := sized(newBrowseModel(postings, seen))
	m = press(m, "tab", "enter")

	if m.view != viewList {
		t.Error("enter on an empty pane should stay in the list")
	}
	if out := m.renderPostings(m.fresh, 0, true); !strings.Contains(out, "no postings") {
		t.Errorf("empty pane = %q", out)
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wordWrap = %q", got)
	}
}

package search

import "testing"

func TestQuery_Start(t *testing.T) {
	q := Query{PageSize: 10}
	for page, want := range []int{1, 11, 21} {
		if got := q.Start(page); got != want {
			t.Errorf("Start(%d) = %d, want %d", page, got, want)
		}
	}
}

func TestQuery_FullText(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"no sites", Query{Query: "junior developer"}, "junior developer"},
		{"one site", Query{Query: "dev", Sites: []string{"a.com"}}, "dev (site:a.com)"},
		{"many sites", Query{Query: "dev", Sites: []string{"a.com", "b.com/jobs"}}, "dev (site:a.com OR site:b.com/jobs)"},
		{"blank sites skipped", Query{Query: "dev", Sites: []string{" ", "a.com"}}, "dev (site:a.com)"},
		{"sites only", Query{Sites: []string{"a.com"}}, "(site:a.com)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.FullText(); got != tt.want {
				t.Errorf("FullText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain  title\n", "Plain title"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<b>Junior</b> Developer", "Junior Developer"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

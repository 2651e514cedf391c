package notifier

import (
	"fmt"

	"github.com/amishk599/jobwatch/internal/model"
)

const (
	// MaxMessageLen is the longest message text sent, in characters.
	MaxMessageLen = 4000
	// MaxSnippetLen is how much of a posting's snippet is kept, in characters.
	MaxSnippetLen = 80

	ellipsis = "..."
)

// FormatPosting renders the message for the index-th (1-based) posting of a batch.
func FormatPosting(index int, p model.Posting) string {
	snippet := p.Snippet
	if n := []rune(snippet); len(n) > MaxSnippetLen {
		snippet = string(n[:MaxSnippetLen]) + ellipsis
	}
	text := fmt.Sprintf("%d. %s\n%s\n%s", index, p.Title, p.RawLink, snippet)
	return truncate(text, MaxMessageLen)
}

// truncate caps s at max characters, ellipsis included.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}

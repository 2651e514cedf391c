package filter

import (
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

// TitleFilter rejects postings whose title contains any exclude keyword.
// The provider's excludeTerms is applied to the whole page text and is not
// always honoured, so titles are checked again locally.
// Matching is case-insensitive. An empty keyword list matches everything.
type TitleFilter struct {
	excludeKeywords []string
}

var _ model.PostingFilter = (*TitleFilter)(nil)

// NewTitleFilter returns a filter rejecting titles that contain any of excludeKeywords.
func NewTitleFilter(excludeKeywords []string) *TitleFilter {
	lowered := make([]string, 0, len(excludeKeywords))
	for _, kw := range excludeKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &TitleFilter{excludeKeywords: lowered}
}

// Match returns false if the posting's title contains any exclude keyword.
func (f *TitleFilter) Match(p model.Posting) bool {
	titleLower := strings.ToLower(p.Title)
	for _, kw := range f.excludeKeywords {
		if strings.Contains(titleLower, kw) {
			return false
		}
	}
	return true
}

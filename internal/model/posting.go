package model

import (
	"context"
	"sort"
)

// Posting is one job listing returned by the search provider in one cycle.
type Posting struct {
	RawLink string // link exactly as returned by the provider
	ID      string // canonical identifier, the dedupe key
	Title   string
	Snippet string
}

// SeenSet is the set of canonical identifiers that were already notified.
// Ids are only ever added.
type SeenSet map[string]struct{}

// NewSeenSet returns a set holding ids.
func NewSeenSet(ids ...string) SeenSet {
	s := make(SeenSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s SeenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s SeenSet) Add(id string) {
	s[id] = struct{}{}
}

func (s SeenSet) Len() int { return len(s) }

// Union returns a new set containing the ids of s and other.
func (s SeenSet) Union(other SeenSet) SeenSet {
	out := make(SeenSet, len(s)+len(other))
	for id := range s {
		out.Add(id)
	}
	for id := range other {
		out.Add(id)
	}
	return out
}

// Sorted returns the ids in lexical order.
func (s SeenSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PostingFetcher fetches one cycle's worth of postings from the search provider.
type PostingFetcher interface {
	FetchAll(ctx context.Context) ([]Posting, error)
}

// SeenStore loads and persists the seen set.
// Load returns an empty set when nothing has been stored yet. When stored
// content cannot be decoded it returns an empty set and an error wrapping
// ErrStoreCorrupt.
type SeenStore interface {
	Load() (SeenSet, error)
	Save(seen SeenSet) error
}

// Sender delivers one text message over a messaging channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// PostingFilter decides whether a posting is worth notifying about.
type PostingFilter interface {
	Match(p Posting) bool
}

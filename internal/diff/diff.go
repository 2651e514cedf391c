// Package diff selects the postings of a cycle that have not been notified yet.
package diff

import "github.com/amishk599/jobwatch/internal/model"

// New returns the postings of fetched whose ID is not in seen, in their
// original order. fetched is expected to be deduplicated already.
func New(fetched []model.Posting, seen model.SeenSet) []model.Posting {
	var fresh []model.Posting
	for _, p := range fetched {
		if !seen.Has(p.ID) {
			fresh = append(fresh, p)
		}
	}
	return fresh
}

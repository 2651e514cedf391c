// Package search queries the Google Programmable Search (Custom Search JSON)
// API for job postings and merges paginated results into one cycle's postings.
package search

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxPageSize is the largest page the provider serves per request.
const MaxPageSize = 10

// Query describes one logical search. It is immutable for the process lifetime.
type Query struct {
	Query        string   // free-text query
	ExactTerms   string   // phrase every result must contain
	ExcludeTerms []string // words no result may contain
	Sites        []string // domains (or domain/path prefixes) to restrict to
	Geolocation  string   // gl, e.g. "il"
	Country      string   // cr, e.g. "countryIL"
	DateRestrict string   // e.g. "d3" for the last three days
	MaxPages     int
	PageSize     int
}

// Start returns the 1-based result offset of the given 0-based page.
func (q Query) Start(page int) int {
	return 1 + page*q.PageSize
}

// FullText returns the q parameter: the query followed by the site filters
// OR-joined in parentheses.
func (q Query) FullText() string {
	text := strings.TrimSpace(q.Query)
	if len(q.Sites) == 0 {
		return text
	}
	sites := make([]string, 0, len(q.Sites))
	for _, s := range q.Sites {
		if s = strings.TrimSpace(s); s != "" {
			sites = append(sites, "site:"+s)
		}
	}
	if len(sites) == 0 {
		return text
	}
	filter := "(" + strings.Join(sites, " OR ") + ")"
	if text == "" {
		return filter
	}
	return text + " " + filter
}

// params builds the request parameters for the page starting at start.
func (q Query) params(apiKey, engineID string, start int) url.Values {
	v := url.Values{}
	v.Set("key", apiKey)
	v.Set("cx", engineID)
	v.Set("q", q.FullText())
	if q.ExactTerms != "" {
		v.Set("exactTerms", q.ExactTerms)
	}
	if len(q.ExcludeTerms) > 0 {
		v.Set("excludeTerms", strings.Join(q.ExcludeTerms, " "))
	}
	if q.Geolocation != "" {
		v.Set("gl", q.Geolocation)
	}
	if q.Country != "" {
		v.Set("cr", q.Country)
	}
	if q.DateRestrict != "" {
		v.Set("dateRestrict", q.DateRestrict)
	}
	v.Set("num", strconv.Itoa(q.PageSize))
	v.Set("start", strconv.Itoa(start))
	return v
}

// Package search ranks catalog products against free-text queries. The
// weights below are observable by shoppers as result order, so they are part
// of the product's behavior, not tuning constants to adjust casually.
package search

import (
	"sort"
	"strings"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

const (
	weightNameExact    = 1000
	weightNamePrefix   = 500
	weightNameContains = 300
	weightCategoryFull = 200
	weightWordInName   = 100
	weightWordInCat    = 75
	weightWordInDesc   = 50
	weightShortName    = 25

	shortNameLimit = 20
)

type Result struct {
	Product domain.Product
	Score   int
	Exact   bool
}

// Search returns candidates ranked by relevance, deduplicated by product ID.
// An empty or whitespace query yields nil; the caller shows the unfiltered
// catalog instead.
func Search(query string, catalog []domain.Product) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	words := strings.Fields(q)

	var results []Result
	seen := make(map[string]bool)
	for _, p := range catalog {
		if seen[p.ID] {
			continue
		}
		f := fieldsOf(p)
		if !f.candidate(words) {
			continue
		}
		seen[p.ID] = true
		results = append(results, Result{
			Product: p,
			Score:   f.score(q, words),
			Exact:   f.name == q,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		return fieldsOf(a.Product).name < fieldsOf(b.Product).name
	})
	return results
}

type fields struct {
	name     string
	desc     string
	cats     string
	keywords string
}

func fieldsOf(p domain.Product) fields {
	return fields{
		name:     strings.ToLower(p.Name),
		desc:     strings.ToLower(p.Description),
		cats:     strings.ToLower(strings.Join(p.Categories, " ")),
		keywords: strings.ToLower(strings.Join(p.Keywords, " ")),
	}
}

// candidate reports whether at least one query word appears somewhere.
func (f fields) candidate(words []string) bool {
	for _, w := range words {
		if strings.Contains(f.name, w) || strings.Contains(f.desc, w) ||
			strings.Contains(f.cats, w) || strings.Contains(f.keywords, w) {
			return true
		}
	}
	return false
}

func (f fields) score(q string, words []string) int {
	var score int

	// the three name-vs-full-query tiers are mutually exclusive
	switch {
	case f.name == q:
		score += weightNameExact
	case strings.HasPrefix(f.name, q):
		score += weightNamePrefix
	case strings.Contains(f.name, q):
		score += weightNameContains
	}

	if strings.Contains(f.cats, q) {
		score += weightCategoryFull
	}

	for _, w := range words {
		if strings.Contains(f.name, w) {
			score += weightWordInName
		}
		if strings.Contains(f.cats, w) {
			score += weightWordInCat
		}
		if strings.Contains(f.desc, w) {
			score += weightWordInDesc
		}
	}

	if len(f.name) < shortNameLimit {
		score += weightShortName
	}
	return score
}

package search

import (
	"sort"
	"strings"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

const (
	// MinSuggestQuery is the keystroke threshold below which no suggestions
	// are computed.
	MinSuggestQuery = 2
	maxSuggestions  = 8
)

// Suggest is the autocomplete variant of Search: same candidate and scoring
// logic, score still the primary key, with a simpler tie-break (exact match,
// then prefix match, then alphabetical) and capped at the first 8 ranked
// entries.
func Suggest(query string, catalog []domain.Product) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < MinSuggestQuery {
		return nil
	}

	results := Search(q, catalog)
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		ap := strings.HasPrefix(strings.ToLower(a.Product.Name), q)
		bp := strings.HasPrefix(strings.ToLower(b.Product.Name), q)
		if ap != bp {
			return ap
		}
		return strings.ToLower(a.Product.Name) < strings.ToLower(b.Product.Name)
	})

	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	products := make([]domain.Product, len(results))
	for i, r := range results {
		products[i] = r.Product
	}
	return products
}

package catalog

import (
	"sort"
	"strings"

	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

// SortOrder mirrors the storefront's sort dropdown.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortName      SortOrder = "name"
)

// Filter narrows a product list to one category (empty keeps everything) and
// applies the requested sort. Newest is the repository's natural order, so it
// leaves the slice as-is.
func Filter(products []domain.Product, category string, order SortOrder) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category == "" || hasCategory(p, category) {
			filtered = append(filtered, p)
		}
	}

	switch order {
	case SortPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	case SortName:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	}
	return filtered
}

func hasCategory(p domain.Product, category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

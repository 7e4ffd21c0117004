package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanvirrrhasan/TanvirEmart/internal/domain"
)

func product(id, name, desc string, cats ...string) domain.Product {
	return domain.Product{ID: id, Name: name, Description: desc, Categories: cats}
}

func TestSearch_EmptyQueryYieldsNothing(t *testing.T) {
	catalog := []domain.Product{product("1", "Phone Case", "")}
	assert.Nil(t, Search("", catalog))
	assert.Nil(t, Search("   ", catalog))
}

func TestSearch_NonMatchingQuery(t *testing.T) {
	catalog := []domain.Product{product("1", "Phone Case", "protects your phone")}
	assert.Empty(t, Search("laptop", catalog))
}

func TestSearch_RanksSpecificMatchAboveGeneric(t *testing.T) {
	catalog := []domain.Product{
		product("charger", "Phone Charger", "fast charging", "Electronics"),
		product("case", "Red Phone Case", "protective cover", "Accessories"),
	}

	results := Search("phone case", catalog)
	require.Len(t, results, 2)
	assert.Equal(t, "case", results[0].Product.ID)
	assert.Equal(t, "charger", results[1].Product.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_ExactNameMatchScoresHighest(t *testing.T) {
	catalog := []domain.Product{
		product("a", "Phone Case Deluxe Edition Pro", ""),
		product("b", "Phone Case", ""),
	}

	results := Search("phone case", catalog)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Product.ID)
	assert.True(t, results[0].Exact)
	// exact tier + two words in name + short-name bonus
	assert.Equal(t, 1000+200+25, results[0].Score)
	// prefix tier + two words in name
	assert.Equal(t, 500+200, results[1].Score)
}

func TestSearch_CategoryAndDescriptionWeights(t *testing.T) {
	catalog := []domain.Product{
		product("p", "Winter Jacket", "warm fleece lining", "Clothing"),
	}

	results := Search("fleece", catalog)
	require.Len(t, results, 1)
	// word in description + short-name bonus only
	assert.Equal(t, 50+25, results[0].Score)

	results = Search("clothing", catalog)
	require.Len(t, results, 1)
	// full query in category list + word in category list + short name
	assert.Equal(t, 200+75+25, results[0].Score)
}

func TestSearch_KeywordsMakeCandidates(t *testing.T) {
	p := domain.Product{ID: "k", Name: "Mystery Box", Keywords: []string{"gift", "surprise"}}

	results := Search("gift", []domain.Product{p})
	require.Len(t, results, 1)
	// candidate via keywords, scored only by the short-name bonus
	assert.Equal(t, 25, results[0].Score)
}

func TestSearch_Deterministic(t *testing.T) {
	catalog := []domain.Product{
		product("1", "Phone Case", "", "Accessories"),
		product("2", "Phone Charger", "", "Electronics"),
		product("3", "Phone Stand", "", "Accessories"),
		product("4", "Smartphone", "", "Electronics"),
	}

	first := Search("phone case", catalog)
	second := Search("phone case", catalog)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Product.ID, second[i].Product.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestSearch_TieBrokenAlphabetically(t *testing.T) {
	catalog := []domain.Product{
		product("z", "Zed Phone", ""),
		product("a", "Ace Phone", ""),
	}

	results := Search("phone", catalog)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Product.ID)
	assert.Equal(t, "z", results[1].Product.ID)
}

func TestSearch_DeduplicatesByProductID(t *testing.T) {
	p := product("dup", "Phone Case", "")
	results := Search("phone", []domain.Product{p, p})
	assert.Len(t, results, 1)
}

func TestSuggest_MinimumQueryLength(t *testing.T) {
	catalog := []domain.Product{product("1", "Phone", "")}
	assert.Nil(t, Suggest("p", catalog))
	assert.NotEmpty(t, Suggest("ph", catalog))
}

func TestSuggest_CappedAtEight(t *testing.T) {
	var catalog []domain.Product
	names := []string{
		"Phone Case", "Phone Charger", "Phone Stand", "Phone Strap",
		"Phone Holder", "Phone Grip", "Phone Lens", "Phone Dock", "Phone Fan",
	}
	for i, n := range names {
		catalog = append(catalog, product(string(rune('a'+i)), n, ""))
	}

	suggestions := Suggest("phone", catalog)
	assert.Len(t, suggestions, 8)
}

func TestSuggest_ScoreOutranksPrefix(t *testing.T) {
	// "Best Phone Ever" scores 700 (contains 300 + category 200 + word in
	// name 100 + word in category 75 + short name 25); the prefix match
	// "Phone Accessories Bundle XXL" scores only 600 (prefix 500 + word 100,
	// name too long for the short bonus)
	catalog := []domain.Product{
		product("lo", "Phone Accessories Bundle XXL", ""),
		product("hi", "Best Phone Ever", "", "Phone"),
	}

	suggestions := Suggest("phone", catalog)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "hi", suggestions[0].ID)
	assert.Equal(t, "lo", suggestions[1].ID)
}

func TestSuggest_ExactThenPrefixThenAlpha(t *testing.T) {
	catalog := []domain.Product{
		product("c", "Super Phone", ""),
		product("b", "Phone Case", ""),
		product("a", "Phone", ""),
	}

	suggestions := Suggest("phone", catalog)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "Phone", suggestions[0].Name)
	assert.Equal(t, "Phone Case", suggestions[1].Name)
	assert.Equal(t, "Super Phone", suggestions[2].Name)
}

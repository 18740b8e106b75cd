package catalog

import "strings"

// Field weights for search relevance, in order of importance to a
// shopper looking for fabric.
const (
	weightName        = 10
	weightCategory    = 8
	weightMaterial    = 6
	weightDescription = 5
	weightColor       = 4
	weightPattern     = 3

	featuredBonus = 5
	discountBonus = 2
)

type scoredField struct {
	text   string
	weight int
}

func searchFields(it *Item) [6]scoredField {
	return [6]scoredField{
		{strings.ToLower(it.Name), weightName},
		{strings.ToLower(it.Category), weightCategory},
		{strings.ToLower(it.Material), weightMaterial},
		{strings.ToLower(it.Description), weightDescription},
		{strings.ToLower(it.Color), weightColor},
		{strings.ToLower(it.Pattern), weightPattern},
	}
}

// SearchScore ranks an item against lowercased search terms. Every
// (term, field) containment adds the field weight scaled by match tier:
// a full-field match counts triple, a prefix match double, a plain
// substring once. Featured items get +5 and discounted items +2 so
// merchandised stock surfaces first on equal text relevance. The score
// only orders results while a search is active.
func SearchScore(it *Item, terms []string) int {
	score := 0
	fields := searchFields(it)
	for _, term := range terms {
		for _, f := range fields {
			if !strings.Contains(f.text, term) {
				continue
			}
			switch {
			case f.text == term:
				score += f.weight * 3
			case strings.HasPrefix(f.text, term):
				score += f.weight * 2
			default:
				score += f.weight
			}
		}
	}
	if it.Featured {
		score += featuredBonus
	}
	if it.Discount > 0 {
		score += discountBonus
	}
	return score
}

// matchesAnyTerm reports if at least one term appears in at least one
// searchable field. Items matching nothing are excluded before scoring.
func matchesAnyTerm(it *Item, terms []string) bool {
	fields := searchFields(it)
	for _, term := range terms {
		for _, f := range fields {
			if strings.Contains(f.text, term) {
				return true
			}
		}
	}
	return false
}

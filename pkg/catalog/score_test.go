package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMatchTiers(t *testing.T) {
	exact := &Item{Name: "Silk"}
	prefix := &Item{Name: "Silk Saree"}
	substring := &Item{Name: "Pure Silk Saree"}
	terms := []string{"silk"}

	assert.Equal(t, weightName*3, SearchScore(exact, terms))
	assert.Equal(t, weightName*2, SearchScore(prefix, terms))
	assert.Equal(t, weightName, SearchScore(substring, terms))
}

func TestScoreFieldWeights(t *testing.T) {
	terms := []string{"silk"}

	cases := []struct {
		name string
		item *Item
		want int
	}{
		{"name", &Item{Name: "about silk here"}, weightName},
		{"category", &Item{Category: "fine silk wear"}, weightCategory},
		{"material", &Item{Material: "raw silk thread"}, weightMaterial},
		{"description", &Item{Description: "woven silk cloth"}, weightDescription},
		{"color", &Item{Color: "light silk tone"}, weightColor},
		{"pattern", &Item{Pattern: "woven silk grid"}, weightPattern},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SearchScore(tc.item, terms))
		})
	}
}

func TestScoreSumsOverTermsAndFields(t *testing.T) {
	item := &Item{Name: "Red Silk", Color: "dark red shade"}
	// "silk" hits name as substring (10), "red" hits name as prefix
	// (20) and color as substring (4).
	assert.Equal(t, 34, SearchScore(item, []string{"silk", "red"}))
}

func TestScoreMerchandisingBonuses(t *testing.T) {
	plain := &Item{Description: "soft silk"}
	featured := &Item{Description: "soft silk", Featured: true}
	discounted := &Item{Description: "soft silk", Discount: 15}
	both := &Item{Description: "soft silk", Featured: true, Discount: 15}
	terms := []string{"silk"}

	base := SearchScore(plain, terms)
	assert.Equal(t, base+featuredBonus, SearchScore(featured, terms))
	assert.Equal(t, base+discountBonus, SearchScore(discounted, terms))
	assert.Equal(t, base+featuredBonus+discountBonus, SearchScore(both, terms))
}

func TestScoreZeroWithoutMatch(t *testing.T) {
	item := &Item{Name: "Cotton Dress"}
	assert.Zero(t, SearchScore(item, []string{"silk"}))
}

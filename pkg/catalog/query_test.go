package catalog

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func f64(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func testItems() []*Item {
	return []*Item{
		{Id: "1", Name: "Red Silk Saree", Material: "Silk", Color: "Red", Category: "Saree", Price: 1000, Discount: 10, Featured: true, Created: day(1)},
		{Id: "2", Name: "Blue Cotton", Material: "Cotton", Color: "Blue", Category: "Dress", Price: 500, Discount: 0, Created: day(2)},
		{Id: "3", Name: "Navy Blue Rayon", Material: "Rayon", Color: "Navy Blue", Category: "Dress", Price: 800, Discount: 25, Created: day(3)},
		{Id: "4", Name: "Silk Blend Scarf", Material: "Silk Blend", Color: "Green", Category: "Scarf", Price: 300, Discount: 50, Featured: true, Created: day(4)},
	}
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Id
	}
	return out
}

func TestEmptyFilterReturnsAll(t *testing.T) {
	items := testItems()
	res := Query(items, &Filter{})
	assert.Len(t, res, len(items))
}

func TestDefaultOrderIsPopularComposite(t *testing.T) {
	res := Query(testItems(), &Filter{})
	// featured first, then discount desc, then created desc
	assert.Equal(t, []string{"4", "1", "3", "2"}, ids(res))

	popular := Query(testItems(), &Filter{Sort: SortPopular})
	assert.Equal(t, ids(res), ids(popular))
}

func TestAddingConstraintNeverGrowsResult(t *testing.T) {
	items := testItems()
	base := Query(items, &Filter{Category: "Dress"})
	narrowed := Query(items, &Filter{Category: "Dress", Color: "navy"})
	assert.LessOrEqual(t, len(narrowed), len(base))
	for _, it := range narrowed {
		assert.Contains(t, base, it)
	}
	for _, it := range base {
		assert.Contains(t, items, it)
	}
}

func TestEffectivePriceBand(t *testing.T) {
	items := []*Item{{Id: "a", Name: "Discounted", Price: 1000, Discount: 20}}

	res := Query(items, &Filter{MinPrice: f64(700), MaxPrice: f64(900)})
	require.Len(t, res, 1, "effective price 800 sits inside the 700-900 band")

	res = Query(items, &Filter{MinPrice: f64(900)})
	assert.Empty(t, res, "band applies to the discounted price, not the base price of 1000")
}

func TestColorOrSemantics(t *testing.T) {
	items := []*Item{{Id: "a", Name: "Shawl", Color: "Navy Blue"}}

	res := Query(items, &Filter{Color: "red,navy"})
	assert.Len(t, res, 1)

	res = Query(items, &Filter{Color: "red,green"})
	assert.Empty(t, res)
}

func TestMaterialPartialMatch(t *testing.T) {
	res := Query(testItems(), &Filter{Material: "silk"})
	assert.Equal(t, []string{"1", "4"}, sortedCopy(ids(res)))
}

func TestFeaturedFilter(t *testing.T) {
	res := Query(testItems(), &Filter{Featured: boolPtr(true)})
	assert.Equal(t, []string{"1", "4"}, sortedCopy(ids(res)))

	res = Query(testItems(), &Filter{Featured: boolPtr(false)})
	assert.Equal(t, []string{"2", "3"}, sortedCopy(ids(res)))
}

func TestCategoryAllMeansUnconstrained(t *testing.T) {
	assert.Len(t, Query(testItems(), &Filter{Category: "all"}), 4)
	assert.Len(t, Query(testItems(), &Filter{Category: "Saree"}), 1)
}

func TestSearchOverridesSort(t *testing.T) {
	items := []*Item{
		{Id: "cheap", Name: "Scarf", Description: "a silk mention", Price: 100},
		{Id: "mid", Name: "Silk Saree", Price: 500},
		{Id: "exact", Name: "Silk", Price: 900},
	}
	// price-low would order cheap, mid, exact; relevance must win while
	// searching. sortBy being silently ignored here is deliberate.
	res := Query(items, &Filter{Query: "silk", Sort: SortPriceLow})
	require.Len(t, res, 3)
	assert.Equal(t, "exact", res[0].Id, "full-field name match ranks first")
	assert.Equal(t, "mid", res[1].Id, "name prefix match ranks second")
	assert.Equal(t, "cheap", res[2].Id, "description substring ranks last")
}

func TestQueryIdempotent(t *testing.T) {
	items := testItems()
	spec := &Filter{Query: "blue dress", Sort: SortPriceHigh}
	first := Query(items, spec)
	second := Query(items, spec)
	assert.Equal(t, ids(first), ids(second))
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	items := testItems()
	before := ids(items)
	Query(items, &Filter{Sort: SortPriceLow, Color: "red"})
	assert.Equal(t, before, ids(items))
}

func TestScoreTiesKeepInputOrder(t *testing.T) {
	items := []*Item{
		{Id: "first", Name: "Silk one"},
		{Id: "second", Name: "Silk two"},
		{Id: "third", Name: "Silk three"},
	}
	res := Query(items, &Filter{Query: "silk"})
	assert.Equal(t, []string{"first", "second", "third"}, ids(res))
}

func TestSortOrders(t *testing.T) {
	items := testItems()

	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(Query(items, &Filter{Sort: SortNewest})))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Query(items, &Filter{Sort: SortOldest})))
	// effective prices: 1 -> 900, 2 -> 500, 3 -> 600, 4 -> 150
	assert.Equal(t, []string{"4", "2", "3", "1"}, ids(Query(items, &Filter{Sort: SortPriceLow})))
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(Query(items, &Filter{Sort: SortPriceHigh})))
	assert.Equal(t, []string{"4", "3", "1", "2"}, ids(Query(items, &Filter{Sort: SortDiscount})))
}

func TestScenarioSilkAndRed(t *testing.T) {
	items := []*Item{
		{Id: "saree", Name: "Red Silk Saree", Material: "Silk", Color: "Red", Price: 1000, Discount: 10, Featured: true},
		{Id: "cotton", Name: "Blue Cotton", Material: "Cotton", Color: "Blue", Price: 500, Discount: 0},
	}
	res := Query(items, &Filter{Query: "silk", Color: "red"})
	require.Len(t, res, 1)
	assert.Equal(t, "saree", res[0].Id)
}

func TestEmptyDataset(t *testing.T) {
	res := Query(nil, &Filter{Query: "silk", MinPrice: f64(10)})
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestNilFilter(t *testing.T) {
	assert.Len(t, Query(testItems(), nil), 4)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerms(t *testing.T) {
	f := &Filter{Query: "  Red   SILK\tsaree "}
	assert.Equal(t, []string{"red", "silk", "saree"}, f.Terms())
	assert.Empty(t, (&Filter{}).Terms())
	assert.Empty(t, (&Filter{Query: "   "}).Terms())
}

func TestColorSplitting(t *testing.T) {
	f := &Filter{Color: "Red, Navy Blue ,,green"}
	assert.Equal(t, []string{"red", "navy blue", "green"}, f.colors())
	assert.Nil(t, (&Filter{}).colors())
}

func TestBoundsOf(t *testing.T) {
	items := []*Item{
		{Price: 1000, Discount: 20}, // 800
		{Price: 100},                // 100
		{Price: 400, Discount: 50},  // 200
	}
	b := BoundsOf(items)
	assert.Equal(t, 100.0, b.Min)
	assert.Equal(t, 800.0, b.Max)

	empty := BoundsOf(nil)
	assert.Zero(t, empty.Min)
	assert.Zero(t, empty.Max)
}

func TestParsePrice(t *testing.T) {
	b := PriceBounds{Min: 100, Max: 800}

	assert.Nil(t, ParsePrice("", b))
	assert.Nil(t, ParsePrice("  ", b))

	v := ParsePrice("250.5", b)
	require.NotNil(t, v)
	assert.Equal(t, 250.5, *v)

	// malformed input clamps into the dataset bounds, never an error
	v = ParsePrice("cheap", b)
	require.NotNil(t, v)
	assert.Equal(t, b.Min, *v)

	v = ParsePrice("NaN", b)
	require.NotNil(t, v)
	assert.Equal(t, b.Min, *v)

	// out of range values clamp too
	v = ParsePrice("99999", b)
	require.NotNil(t, v)
	assert.Equal(t, b.Max, *v)

	v = ParsePrice("-5", b)
	require.NotNil(t, v)
	assert.Equal(t, b.Min, *v)
}

package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Filter holds one catalog view's query parameters. Every field is
// optional; an unset field never excludes an item. The filter only
// selects and orders, it never mutates items.
type Filter struct {
	Category string   `json:"category" schema:"category"`
	MinPrice *float64 `json:"minPrice" schema:"-"`
	MaxPrice *float64 `json:"maxPrice" schema:"-"`
	Color    string   `json:"color" schema:"color"`
	Material string   `json:"material" schema:"material"`
	Featured *bool    `json:"featured" schema:"featured"`
	Query    string   `json:"searchQuery" schema:"q"`
	Sort     string   `json:"sortBy" schema:"sort"`
}

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortDiscount  = "discount"
	SortPopular   = "popular"
)

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// PriceBounds is the effective-price extent of a dataset, used to
// recover malformed price input instead of rejecting it.
type PriceBounds struct {
	Min float64
	Max float64
}

// BoundsOf scans the effective prices of all items. An empty dataset
// yields the zero bounds, which clamp everything to zero.
func BoundsOf(items []*Item) PriceBounds {
	b := PriceBounds{}
	for n, it := range items {
		p := it.EffectivePrice()
		if n == 0 {
			b.Min, b.Max = p, p
			continue
		}
		if p < b.Min {
			b.Min = p
		}
		if p > b.Max {
			b.Max = p
		}
	}
	return b
}

// ParsePrice turns raw user input into a price bound. Empty input means
// no constraint. Anything that does not parse to a finite number is
// clamped into the dataset bounds rather than dropped or propagated as
// an error, so a malformed value degrades to the widest valid bound.
func ParsePrice(raw string, b PriceBounds) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = b.Min
	}
	v = clamp(v, b.Min, b.Max)
	return &v
}

// HasSearch reports if a free-text query is active after trimming.
func (f *Filter) HasSearch() bool {
	return strings.TrimSpace(f.Query) != ""
}

// Terms tokenizes the search query on whitespace, lowercased. Empty
// tokens are discarded.
func (f *Filter) Terms() []string {
	return strings.Fields(strings.ToLower(f.Query))
}

// colors splits the comma separated color spec into trimmed lowercase
// tokens. An item matches if any of them is a substring of its color.
func (f *Filter) colors() []string {
	if f.Color == "" {
		return nil
	}
	parts := strings.Split(f.Color, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package catalog

import (
	"sort"
	"strings"
)

// Query runs the filter pipeline over the items: predicate filtering,
// relevance scoring when a search is active, then ordering. The input
// slice is never mutated; the result is a fresh slice sharing the item
// pointers. For a fixed input pair the output is deterministic, score
// ties keep their prior relative order (stable sort).
func Query(items []*Item, f *Filter) []*Item {
	if f == nil {
		f = &Filter{}
	}
	terms := f.Terms()
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if f.matches(it, terms) {
			out = append(out, it)
		}
	}
	sortItems(out, f.Sort, terms)
	return out
}

// matches applies every active filter dimension as a logical AND. Only
// the color dimension is an OR across its comma separated values.
func (f *Filter) matches(it *Item, terms []string) bool {
	if f.Category != "" && f.Category != "all" && it.Category != f.Category {
		return false
	}
	if colors := f.colors(); len(colors) > 0 {
		itemColor := strings.ToLower(it.Color)
		found := false
		for _, c := range colors {
			if strings.Contains(itemColor, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Material != "" {
		m := strings.ToLower(strings.TrimSpace(f.Material))
		if m != "" && !strings.Contains(strings.ToLower(it.Material), m) {
			return false
		}
	}
	if f.Featured != nil && it.Featured != *f.Featured {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		// The band is evaluated on the discounted price, a discounted
		// item can fall inside a band its base price would miss.
		p := it.EffectivePrice()
		if f.MinPrice != nil && p < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p > *f.MaxPrice {
			return false
		}
	}
	if len(terms) > 0 && !matchesAnyTerm(it, terms) {
		return false
	}
	return true
}

// sortItems orders the filtered result. An active search always orders
// by relevance score, whatever sortBy asked for; this is a deliberate
// priority rule, not an accident of implementation.
func sortItems(items []*Item, sortBy string, terms []string) {
	if len(terms) > 0 {
		scores := make(map[*Item]int, len(items))
		for _, it := range items {
			scores[it] = SearchScore(it, terms)
		}
		sort.SliceStable(items, func(i, j int) bool {
			return scores[items[i]] > scores[items[j]]
		})
		return
	}
	switch sortBy {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Created.After(items[j].Created)
		})
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Created.Before(items[j].Created)
		})
	case SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].EffectivePrice() < items[j].EffectivePrice()
		})
	case SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].EffectivePrice() > items[j].EffectivePrice()
		})
	case SortDiscount:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Discount > items[j].Discount
		})
	default:
		// "popular" and the unset default share the same composite,
		// featured is the only popularity signal in the data model.
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a.Featured != b.Featured {
				return a.Featured
			}
			if a.Discount != b.Discount {
				return a.Discount > b.Discount
			}
			return a.Created.After(b.Created)
		})
	}
}

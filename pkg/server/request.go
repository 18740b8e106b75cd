package server

import (
	"net/http"

	"github.com/gorilla/schema"

	"github.com/viv124/Fabric-tata-matching/pkg/catalog"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// ListRequest is the query-string binding of one catalog listing:
// filter parameters plus pagination. Price bounds arrive as raw
// strings and are resolved against the dataset before querying so
// malformed values clamp instead of erroring.
type ListRequest struct {
	catalog.Filter
	RawMinPrice string `schema:"min_price"`
	RawMaxPrice string `schema:"max_price"`
	Page        int    `schema:"page"`
	PageSize    int    `schema:"size"`
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *ListRequest) Sanitize() {
	s.Page = clamp(s.Page, 0, 100)
	if s.PageSize == 0 {
		s.PageSize = 40
	}
	s.PageSize = clamp(s.PageSize, 1, 1000)
}

// ResolvePrices turns the raw price strings into effective-price
// bounds for this dataset.
func (s *ListRequest) ResolvePrices(b catalog.PriceBounds) {
	s.MinPrice = catalog.ParsePrice(s.RawMinPrice, b)
	s.MaxPrice = catalog.ParsePrice(s.RawMaxPrice, b)
}

func ListRequestFromRequest(r *http.Request) (*ListRequest, error) {
	lr := &ListRequest{}
	if err := decoder.Decode(lr, r.URL.Query()); err != nil {
		return nil, err
	}
	lr.Sanitize()
	return lr, nil
}

// Paginate slices one page out of the full result.
func Paginate(items []*catalog.Item, page, pageSize int) []*catalog.Item {
	start := page * pageSize
	if start >= len(items) {
		return []*catalog.Item{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

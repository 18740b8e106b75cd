package catalog

import "time"

// Item is one sellable fabric entry. Price is in base currency units,
// Discount is a percentage off the base price. The discounted price is
// always derived, never stored.
type Item struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Discount         float64   `json:"discount"`
	ImageUrl         string    `json:"image_url"`
	AdditionalImages []string  `json:"additional_images,omitempty"`
	InstagramUrl     string    `json:"instagram_url,omitempty"`
	PinterestUrl     string    `json:"pinterest_url,omitempty"`
	OtherLink        string    `json:"other_link,omitempty"`
	Category         string    `json:"category"`
	Material         string    `json:"material,omitempty"`
	Color            string    `json:"color,omitempty"`
	Pattern          string    `json:"pattern,omitempty"`
	Featured         bool      `json:"featured"`
	StockQuantity    int       `json:"stock_quantity"`
	MusicId          string    `json:"music_id,omitempty"`
	Created          time.Time `json:"created_at"`
	Updated          time.Time `json:"updated_at"`
}

// EffectivePrice is the price after discount. Filters and price sorting
// operate on this value, never on the base price.
func (i *Item) EffectivePrice() float64 {
	return i.Price * (1 - i.Discount/100)
}

func (i *Item) HasStock() bool {
	return i.StockQuantity > 0
}

// Category is an externally managed grouping of items. Inactive
// categories are hidden from listings but items keep their reference.
type Category struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageUrl    string `json:"image_url,omitempty"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// Banner is a festival campaign banner with an optional display window.
type Banner struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ImageUrl    string     `json:"image_url"`
	IsActive    bool       `json:"is_active"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	SortOrder   int        `json:"sort_order"`
}

// Live reports if the banner should be shown at the given instant.
func (b *Banner) Live(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && now.After(*b.EndDate) {
		return false
	}
	return true
}

// Track is a background music entry played on the storefront.
type Track struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Url      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

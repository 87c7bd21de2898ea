package ebay

import (
	"strconv"
	"strings"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// ToComparables converts eBay item summaries into comparable items.
// Items without a parseable positive price carry no pricing signal and
// are dropped.
func ToComparables(items []ItemSummary) []domain.ComparableItem {
	out := make([]domain.ComparableItem, 0, len(items))
	for i := range items {
		c, ok := toComparable(&items[i])
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func toComparable(item *ItemSummary) (domain.ComparableItem, bool) {
	if item.Price == nil {
		return domain.ComparableItem{}, false
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(item.Price.Value), 64)
	if err != nil || price <= 0 {
		return domain.ComparableItem{}, false
	}

	c := domain.ComparableItem{
		Title:      strings.TrimSpace(item.Title),
		Price:      price,
		Currency:   item.Price.Currency,
		Condition:  item.Condition,
		ListingURL: item.ItemWebURL,
	}
	if c.Currency == "" {
		c.Currency = domain.DefaultCurrency
	}

	if item.Image != nil && item.Image.ImageURL != "" {
		c.ImageURL = item.Image.ImageURL
	}

	return c, true
}

package ebay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/bluberry/internal/ebay"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func TestToComparables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []ebay.ItemSummary
		want  []domain.ComparableItem
	}{
		{
			name:  "empty input returns empty slice",
			items: nil,
			want:  []domain.ComparableItem{},
		},
		{
			name:  "complete item converts all fields",
			items: []ebay.ItemSummary{completeItem()},
			want: []domain.ComparableItem{
				{
					Title:      "Apple iPhone 11 64GB Black Unlocked",
					Price:      189.99,
					Currency:   "USD",
					Condition:  "Used",
					ListingURL: "https://www.ebay.com/itm/123456",
					ImageURL:   "https://i.ebayimg.com/images/123.jpg",
				},
			},
		},
		{
			name: "missing currency defaults to USD and title is trimmed",
			items: []ebay.ItemSummary{
				{
					ItemID:     "v1|789|0",
					Title:      "  Nintendo Switch OLED  ",
					Price:      &ebay.ItemPrice{Value: " 240.00 "},
					ItemWebURL: "https://www.ebay.com/itm/789",
				},
			},
			want: []domain.ComparableItem{
				{
					Title:      "Nintendo Switch OLED",
					Price:      240,
					Currency:   "USD",
					ListingURL: "https://www.ebay.com/itm/789",
				},
			},
		},
		{
			name: "items without a usable price are dropped",
			items: []ebay.ItemSummary{
				{ItemID: "no-price", Title: "No price"},
				{ItemID: "bad", Title: "Bad", Price: &ebay.ItemPrice{Value: "call me"}},
				{ItemID: "zero", Title: "Zero", Price: &ebay.ItemPrice{Value: "0.00", Currency: "USD"}},
				{ItemID: "neg", Title: "Negative", Price: &ebay.ItemPrice{Value: "-5", Currency: "USD"}},
				{ItemID: "ok", Title: "Keeper", Price: &ebay.ItemPrice{Value: "12.50", Currency: "GBP"}},
			},
			want: []domain.ComparableItem{
				{Title: "Keeper", Price: 12.5, Currency: "GBP"},
			},
		},
		{
			name: "image without url is ignored",
			items: []ebay.ItemSummary{
				{
					Title: "Lamp",
					Price: &ebay.ItemPrice{Value: "30", Currency: "USD"},
					Image: &ebay.ItemImage{},
				},
			},
			want: []domain.ComparableItem{
				{Title: "Lamp", Price: 30, Currency: "USD"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ebay.ToComparables(tt.items))
		})
	}
}

func completeItem() ebay.ItemSummary {
	return ebay.ItemSummary{
		ItemID:      "v1|123456|0",
		Title:       "Apple iPhone 11 64GB Black Unlocked",
		Price:       &ebay.ItemPrice{Value: "189.99", Currency: "USD"},
		ItemWebURL:  "https://www.ebay.com/itm/123456",
		Image:       &ebay.ItemImage{ImageURL: "https://i.ebayimg.com/images/123.jpg"},
		Condition:   "Used",
		ConditionID: "3000",
		Categories:  []ebay.ItemCategory{{CategoryID: "9355"}},
	}
}

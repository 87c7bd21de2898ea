package ebay

// ItemSummary represents a single item from the eBay Browse API search
// response. Only the fields needed to build comparables are decoded.
type ItemSummary struct {
	ItemID      string         `json:"itemId"`
	Title       string         `json:"title"`
	Price       *ItemPrice     `json:"price,omitempty"`
	ItemWebURL  string         `json:"itemWebUrl"`
	Image       *ItemImage     `json:"image,omitempty"`
	Condition   string         `json:"condition"`
	ConditionID string         `json:"conditionId"`
	Categories  []ItemCategory `json:"categories,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage holds eBay image information.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ItemCategory holds eBay category information.
type ItemCategory struct {
	CategoryID string `json:"categoryId"`
}

package ebay

import (
	"strings"
)

// eBay item condition IDs used in Browse API conditionIds filters.
const (
	conditionNew             = "1000"
	conditionOpenBox         = "1500"
	conditionLikeNew         = "2750"
	conditionUsed            = "3000"
	conditionVeryGood        = "4000"
	conditionGood            = "5000"
	conditionAcceptable      = "6000"
	conditionForPartsOrBroke = "7000"
)

// conditionBrackets maps seller-entered condition keywords to the eBay
// condition IDs considered comparable. Order matters: "like new" must be
// matched before "new".
var conditionBrackets = []struct {
	keywords []string
	ids      []string
}{
	{
		keywords: []string{"like new", "like-new", "excellent", "mint", "open box"},
		ids:      []string{conditionOpenBox, conditionLikeNew, conditionVeryGood},
	},
	{
		keywords: []string{"brand new", "new", "sealed", "unopened"},
		ids:      []string{conditionNew, conditionOpenBox},
	},
	{
		keywords: []string{"very good", "good"},
		ids:      []string{conditionUsed, conditionVeryGood, conditionGood},
	},
	{
		keywords: []string{"fair", "used", "acceptable", "pre-owned"},
		ids:      []string{conditionUsed, conditionGood, conditionAcceptable},
	},
	{
		keywords: []string{"poor", "damaged", "broken", "for parts", "not working"},
		ids:      []string{conditionForPartsOrBroke},
	},
}

// ConditionIDs returns the eBay condition IDs matching a free-text
// condition, or nil when the condition is empty or unrecognized (no filter).
func ConditionIDs(condition string) []string {
	normalized := strings.ToLower(strings.TrimSpace(condition))
	if normalized == "" {
		return nil
	}

	for _, b := range conditionBrackets {
		for _, kw := range b.keywords {
			if strings.Contains(normalized, kw) {
				return b.ids
			}
		}
	}

	return nil
}

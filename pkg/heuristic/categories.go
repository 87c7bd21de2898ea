package heuristic

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneralCategory is the name of the mandatory catch-all category.
const GeneralCategory = "General"

//go:embed categories.yaml
var defaultCategoriesYAML []byte

// Category is one row of the ordered category table.
type Category struct {
	Name              string   `yaml:"name"               json:"name"`
	Patterns          []string `yaml:"patterns"           json:"patterns,omitempty"`
	BasePrice         float64  `yaml:"base_price"         json:"base_price"`
	PremiumKeywords   []string `yaml:"premium_keywords"   json:"premium_keywords,omitempty"`
	PremiumMultiplier float64  `yaml:"premium_multiplier" json:"premium_multiplier"`

	compiled []*regexp.Regexp
	premium  []*regexp.Regexp
}

// Matches reports whether any of the category patterns match text.
// The catch-all category matches everything.
func (c *Category) Matches(text string) bool {
	if len(c.compiled) == 0 {
		return c.Name == GeneralCategory
	}
	for _, re := range c.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasPremium reports whether text contains any premium keyword as a whole
// word or phrase.
func (c *Category) HasPremium(text string) bool {
	for _, re := range c.premium {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DefaultCategories returns the embedded category table. It panics if the
// embedded table is invalid.
func DefaultCategories() []Category {
	cats, err := ParseCategories(defaultCategoriesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded category table: %v", err))
	}
	return cats
}

// LoadCategories reads and validates a category table from a YAML file.
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading category file: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories decodes a YAML category table, compiles its patterns and
// validates it.
func ParseCategories(data []byte) ([]Category, error) {
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parsing category table: %w", err)
	}

	if err := compileCategories(cats); err != nil {
		return nil, err
	}

	return cats, nil
}

func compileCategories(cats []Category) error {
	if len(cats) == 0 {
		return errors.New("category table is empty")
	}

	var errs []error
	seen := make(map[string]bool, len(cats))
	for i := range cats {
		c := &cats[i]
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("category %d: name is required", i))
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("category %q: duplicate name", c.Name))
		}
		seen[c.Name] = true
		if c.BasePrice <= 0 {
			errs = append(errs, fmt.Errorf("category %q: base_price must be positive", c.Name))
		}
		if c.PremiumMultiplier <= 0 {
			errs = append(errs, fmt.Errorf("category %q: premium_multiplier must be positive", c.Name))
		}

		last := i == len(cats)-1
		switch {
		case last && (c.Name != GeneralCategory || len(c.Patterns) > 0):
			errs = append(errs, fmt.Errorf(
				"last category must be %q with no patterns, got %q", GeneralCategory, c.Name))
		case !last && len(c.Patterns) == 0:
			errs = append(errs, fmt.Errorf("category %q: patterns are required", c.Name))
		}

		c.compiled = c.compiled[:0]
		for _, p := range c.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				errs = append(errs, fmt.Errorf("category %q: pattern %q: %w", c.Name, p, err))
				continue
			}
			c.compiled = append(c.compiled, re)
		}

		c.premium = c.premium[:0]
		for _, kw := range c.PremiumKeywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			c.premium = append(c.premium, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}

	return errors.Join(errs...)
}

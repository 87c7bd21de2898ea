package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// systemPrompt frames the model as a second-hand price appraiser.
const systemPrompt = `You are a pricing assistant for a second-hand marketplace.
You estimate fair resale prices in US dollars for used items.
Always respond with a single JSON object and nothing else.`

// responseSchema is appended to every pricing prompt.
const responseSchema = `Respond ONLY with a JSON object matching this schema:
{
  "estimatedPrice": number (US dollars, greater than 0),
  "confidence": "low" | "medium" | "high",
  "reasoning": string (one or two sentences)
}`

// withComparablesTmpl is the pricing prompt used when marketplace
// comparables are available.
const withComparablesTmpl = `Estimate a fair resale price for this item using the comparable listings below.

Item: {{.Item}}
Condition: {{.Condition}}
{{- if .Issues}}
Known issues: {{.Issues}}
{{- end}}

Comparable listings ({{len .Comparables}}):
{{- range $i, $c := .Comparables}}
{{inc $i}}. {{$c.Title}} | {{money $c.Price}} {{$c.Currency}}{{if $c.Condition}} | {{$c.Condition}}{{end}}
{{- end}}

Weigh comparables that match the item's condition more heavily and ignore obvious outliers.

` + responseSchema

// withoutComparablesTmpl is the pricing prompt used when no comparables
// could be found.
const withoutComparablesTmpl = `Estimate a fair resale price for this item. No comparable listings are available,
so rely on general knowledge of second-hand prices.

Item: {{.Item}}
Condition: {{.Condition}}
{{- if .Issues}}
Known issues: {{.Issues}}
{{- end}}

Use "low" confidence when the item is vague or you are unsure.

` + responseSchema

// PromptData holds the template variables for pricing prompts.
type PromptData struct {
	Item        string
	Condition   string
	Issues      string
	Comparables []domain.ComparableItem
}

var funcs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"money": domain.FormatMoney,
}

var (
	withComparablesTemplate = template.Must(
		template.New("with_comparables").Funcs(funcs).Parse(withComparablesTmpl),
	)
	withoutComparablesTemplate = template.Must(
		template.New("without_comparables").Funcs(funcs).Parse(withoutComparablesTmpl),
	)
)

// RenderWithComparablesPrompt renders the pricing prompt that lists
// marketplace comparables.
func RenderWithComparablesPrompt(q PriceQuery, comparables []domain.ComparableItem) (string, error) {
	var buf bytes.Buffer
	data := promptData(q)
	data.Comparables = comparables
	if err := withComparablesTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering with-comparables prompt: %w", err)
	}
	return buf.String(), nil
}

// RenderWithoutComparablesPrompt renders the pricing prompt used when no
// comparables are available.
func RenderWithoutComparablesPrompt(q PriceQuery) (string, error) {
	var buf bytes.Buffer
	if err := withoutComparablesTemplate.Execute(&buf, promptData(q)); err != nil {
		return "", fmt.Errorf("rendering without-comparables prompt: %w", err)
	}
	return buf.String(), nil
}

func promptData(q PriceQuery) PromptData {
	return PromptData{
		Item:      itemText(q),
		Condition: orNA(q.Condition),
		Issues:    strings.TrimSpace(q.Issues),
	}
}

// itemText combines the name and description into a single line.
func itemText(q PriceQuery) string {
	name := strings.TrimSpace(q.Name)
	desc := strings.TrimSpace(q.Description)
	switch {
	case name != "" && desc != "":
		return name + " - " + desc
	case name != "":
		return name
	case desc != "":
		return desc
	default:
		return "N/A"
	}
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "N/A"
	}
	return s
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/bluberry/internal/api/handlers"
	"github.com/donaldgifford/bluberry/pkg/heuristic"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printPriceDetail(w io.Writer, r *handlers.PriceResponse) error {
	tw := newTabWriter(w)
	tw.writef("Price:\t%s %s\n", r.Price, r.Currency)
	tw.writef("Range:\t%s - %s\n", r.PriceRange.Low, r.PriceRange.High)
	tw.writef("Confidence:\t%s (%.1f)\n", r.ConfidenceLevel, r.Confidence)
	tw.writef("Source:\t%s\n", r.Source)
	tw.writef("References:\t%d\n", r.ReferenceCount)
	if r.Cached {
		tw.writef("Cached:\tyes\n")
	}
	if r.Reasoning != "" {
		tw.writef("Reasoning:\t%s\n", r.Reasoning)
	}
	for i := range r.Comparables {
		c := &r.Comparables[i]
		tw.writef("Comparable:\t%s\t%s\t%s\n", truncate(c.Title, 50), domain.FormatMoney(c.Price), c.Condition)
	}
	return tw.finish()
}

func printEstimatesTable(w io.Writer, estimates []domain.ItemEstimate) error {
	tw := newTabWriter(w)
	tw.writef("CREATED\tPRICE\tRANGE\tCONFIDENCE\tSOURCE\tREFS\n")
	for i := range estimates {
		e := &estimates[i].Estimate
		tw.writef("%s\t%s\t%s - %s\t%s\t%s\t%d\n",
			estimates[i].CreatedAt.Format("2006-01-02 15:04:05"),
			domain.FormatMoney(e.Price),
			domain.FormatMoney(e.PriceRangeLow),
			domain.FormatMoney(e.PriceRangeHigh),
			e.Confidence,
			e.Source,
			e.ReferenceCount,
		)
	}
	return tw.finish()
}

func printStatus(w io.Writer, st *handlers.StatusBody) error {
	tw := newTabWriter(w)
	tw.writef("Marketplace:\t%v\n", st.Marketplace)
	llmBackend := st.LLMBackend
	if llmBackend == "" {
		llmBackend = "-"
	}
	tw.writef("LLM backend:\t%s\n", llmBackend)
	tw.writef("Persistence:\t%v\n", st.Persistence)
	if st.CacheEntries >= 0 {
		tw.writef("Cache entries:\t%d\n", st.CacheEntries)
	}
	for _, name := range slices.Sorted(maps.Keys(st.Breakers)) {
		tw.writef("Breaker %s:\t%d failures\n", name, st.Breakers[name].FailureCount)
	}
	if q := st.Quota; q != nil {
		tw.writef("eBay quota:\t%d/%d used, resets %s\n",
			q.DailyUsed, q.DailyLimit, q.ResetAt.Format("2006-01-02 15:04:05"))
	}
	return tw.finish()
}

func printCategoriesTable(w io.Writer, cats []heuristic.Category) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tBASE\tPREMIUM\tKEYWORDS\n")
	for i := range cats {
		tw.writef("%s\t%s\tx%.2f\t%s\n",
			cats[i].Name,
			domain.FormatMoney(cats[i].BasePrice),
			cats[i].PremiumMultiplier,
			truncate(strings.Join(cats[i].PremiumKeywords, ", "), 50),
		)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

package estimate

import (
	"regexp"
	"strings"
)

// DefaultBlockedTerms covers prohibited items and common profanity.
var DefaultBlockedTerms = []string{
	"cocaine", "heroin", "meth", "fentanyl", "mdma", "ecstasy pills",
	"handgun", "firearm", "ammunition", "ammo", "explosives", "silencer",
	"counterfeit", "replica designer", "stolen", "fake id",
	"ivory", "rhino horn", "human remains",
	"fuck", "shit", "cunt",
}

// ContentFilter rejects requests mentioning blocked terms. Terms match on
// word boundaries, case-insensitively.
type ContentFilter struct {
	re *regexp.Regexp
}

// NewContentFilter builds a filter from terms. An empty list blocks nothing.
func NewContentFilter(terms []string) *ContentFilter {
	alts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		words := strings.Fields(t)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	if len(alts) == 0 {
		return &ContentFilter{}
	}
	return &ContentFilter{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)}
}

// Blocked returns the first blocked term found in texts.
func (f *ContentFilter) Blocked(texts ...string) (string, bool) {
	if f == nil || f.re == nil {
		return "", false
	}
	for _, t := range texts {
		if m := f.re.FindString(t); m != "" {
			return strings.ToLower(m), true
		}
	}
	return "", false
}

package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/bluberry/internal/estimate"
)

func TestContentFilter_Blocked(t *testing.T) {
	t.Parallel()

	f := estimate.NewContentFilter([]string{"handgun", "fake id", "meth"})

	tests := []struct {
		name     string
		texts    []string
		wantTerm string
		wantHit  bool
	}{
		{name: "plain hit", texts: []string{"Handgun holster"}, wantTerm: "handgun", wantHit: true},
		{name: "multi-word term", texts: []string{"", "selling a FAKE  ID"}, wantTerm: "fake  id", wantHit: true},
		{name: "word boundary", texts: []string{"cooking methods book"}},
		{name: "no text", texts: nil},
		{name: "clean", texts: []string{"iPhone 11", "good condition"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			term, hit := f.Blocked(tt.texts...)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantTerm, term)
		})
	}
}

func TestContentFilter_Empty(t *testing.T) {
	t.Parallel()

	f := estimate.NewContentFilter([]string{" ", ""})
	_, hit := f.Blocked("anything goes")
	assert.False(t, hit)

	var nilFilter *estimate.ContentFilter
	_, hit = nilFilter.Blocked("anything")
	assert.False(t, hit)
}

func TestDefaultBlockedTerms(t *testing.T) {
	t.Parallel()

	f := estimate.NewContentFilter(estimate.DefaultBlockedTerms)
	_, hit := f.Blocked("counterfeit designer bag")
	assert.True(t, hit)
	_, hit = f.Blocked("vintage oak dresser")
	assert.False(t, hit)
}

package ebay_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/bluberry/internal/ebay"
)

func TestProviderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantKind ebay.ErrorKind
	}{
		{
			name:     "with status",
			err:      &ebay.ProviderError{Kind: ebay.KindUpstream, StatusCode: 502, Err: cause},
			wantMsg:  "ebay upstream error (status 502): connection reset",
			wantKind: ebay.KindUpstream,
		},
		{
			name:     "without status",
			err:      &ebay.ProviderError{Kind: ebay.KindNetwork, Err: cause},
			wantMsg:  "ebay network error: connection reset",
			wantKind: ebay.KindNetwork,
		},
		{
			name:     "wrapped",
			err:      fmt.Errorf("searching comparables: %w", &ebay.ProviderError{Kind: ebay.KindAuth, Err: cause}),
			wantMsg:  "searching comparables: ebay auth error: connection reset",
			wantKind: ebay.KindAuth,
		},
		{
			name:     "plain error has no kind",
			err:      cause,
			wantMsg:  "connection reset",
			wantKind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantKind, ebay.KindOf(tt.err))
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestEstimateQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         EstimateQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string
		wantDataNotIn []string
	}{
		{
			name:  "item only uses defaults",
			query: EstimateQuery{ItemID: "item-1"},
			wantDataHas: []string{
				"FROM item_estimates",
				"WHERE item_id = $1",
				"ORDER BY created_at DESC, id DESC",
				"LIMIT 20",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"source ="},
			wantCountSQL:  "SELECT COUNT(*) FROM item_estimates WHERE item_id = $1",
			wantArgs:      []any{"item-1"},
		},
		{
			name:         "source filter",
			query:        EstimateQuery{ItemID: "item-1", Source: ptr("local")},
			wantDataHas:  []string{"WHERE item_id = $1 AND source = $2"},
			wantCountSQL: "SELECT COUNT(*) FROM item_estimates WHERE item_id = $1 AND source = $2",
			wantArgs:     []any{"item-1", "local"},
		},
		{
			name:        "limit is clamped",
			query:       EstimateQuery{ItemID: "item-1", Limit: 5000},
			wantDataHas: []string{"LIMIT 200"},
			wantArgs:    []any{"item-1"},
		},
		{
			name:        "custom limit and offset",
			query:       EstimateQuery{ItemID: "item-1", Limit: 5, Offset: 10},
			wantDataHas: []string{"LIMIT 5", "OFFSET 10"},
			wantArgs:    []any{"item-1"},
		},
		{
			name:        "negative offset becomes zero",
			query:       EstimateQuery{ItemID: "item-1", Offset: -3},
			wantDataHas: []string{"OFFSET 0"},
			wantArgs:    []any{"item-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s)
			}
			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s)
			}
			if tt.wantCountSQL != "" {
				assert.Equal(t, tt.wantCountSQL, countSQL)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEstimateQuery_PageLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 20},
		{limit: -1, want: 20},
		{limit: 5, want: 5},
		{limit: 200, want: 200},
		{limit: 1000, want: 200},
	}

	for _, tt := range tests {
		q := EstimateQuery{ItemID: "item", Limit: tt.limit}
		assert.Equal(t, tt.want, q.PageLimit(), "limit %d", tt.limit)
	}
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 7}, UniqueIDs([]int64{3, 7, 3}))
	assert.Equal(t, []int64{7, 3}, UniqueIDs([]int64{7, 7, 3, 7}))
	assert.Nil(t, UniqueIDs(nil))
	assert.Equal(t, []int64{}, UniqueIDs([]int64{}))
}

func TestSameIDSet(t *testing.T) {
	assert.True(t, SameIDSet([]int64{3, 7}, []int64{7, 3, 3}))
	assert.True(t, SameIDSet(nil, []int64{}))
	assert.False(t, SameIDSet([]int64{3}, []int64{3, 4}))
	assert.False(t, SameIDSet([]int64{3, 5}, []int64{3, 4}))
}

func TestParseUpdatePolicy(t *testing.T) {
	p, err := ParseUpdatePolicy("changed-only")
	require.NoError(t, err)
	assert.Equal(t, ChangedOnly, p)

	p, err = ParseUpdatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, FullReplace, p)

	_, err = ParseUpdatePolicy("sometimes")
	assert.Error(t, err)
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"is_processed": true}`, true},
		{`{"is_processed": 1}`, true},
		{`{"is_processed": 0}`, false},
		{`{"is_processed": false}`, false},
		{`{"is_processed": null}`, false},
		{`{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var p Problem
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.want, bool(p.IsProcessed))
		})
	}
}

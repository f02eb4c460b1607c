package keys

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code int
		ok   bool
	}{
		{"Q", Q, true},
		{"q", Q, true},
		{"escape", Escape, true},
		{" BACKSPACE ", Backspace, true},
		{"0", Digit0, true},
		{"9", Digit9, true},
		{"num_0", Num0, true},
		{"f12", F12, true},
		{"#65307", Escape, true},
		{"#42", 42, true},
		{"#-1", 0, false},
		{"#x", 0, false},
		{"nosuchkey", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Lookup(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.code, code)
			}
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Q", Name(Q))
	assert.Equal(t, "ESCAPE", Name(Escape))
	assert.Equal(t, "5", Name(Digit5))
	assert.Equal(t, "#1", Name(1))
}

func TestAllSortedAndRoundTrips(t *testing.T) {
	all := All()
	assert.Len(t, all, len(table))
	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool { return all[i].Name < all[j].Name }))

	for _, e := range all {
		code, ok := Lookup(e.Name)
		assert.True(t, ok, e.Name)
		assert.Equal(t, e.Code, code, e.Name)
	}

	// Mutating the copy leaves the table alone.
	all[0].Code = -1
	assert.NotEqual(t, -1, All()[0].Code)
}

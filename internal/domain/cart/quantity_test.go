package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	withStock := activeLine("a", "store-1", 1000, 0, 2, true)
	withStock.Stock = IntPtr(5)
	unknownStock := activeLine("b", "store-1", 1000, 0, 2, true)

	tests := []struct {
		name      string
		line      Line
		requested int
		expected  int
	}{
		{"below one clamps to one", withStock, 0, 1},
		{"negative clamps to one", withStock, -3, 1},
		{"above stock clamps to stock", withStock, 99, 5},
		{"within range unchanged", withStock, 4, 4},
		{"exactly stock", withStock, 5, 5},
		{"unknown stock has no upper bound", unknownStock, 500, 500},
		{"unknown stock still floors at one", unknownStock, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClampQuantity(tt.line, tt.requested)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClampQuantity_RejectsIneligible(t *testing.T) {
	for _, lc := range []Lifecycle{LifecycleSoldOut, LifecycleDeleted} {
		l := withLifecycle(activeLine("a", "store-1", 1000, 0, 2, false), lc)

		got, ok := ClampQuantity(l, 3)

		assert.False(t, ok, lc)
		assert.Equal(t, 2, got)
	}
}

func TestClampQuantity_RejectsZeroStock(t *testing.T) {
	l := activeLine("a", "store-1", 1000, 0, 1, true)
	l.Stock = IntPtr(0)

	_, ok := ClampQuantity(l, 1)

	assert.False(t, ok)
}

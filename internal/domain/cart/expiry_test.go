package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func lineAddedAt(id string, age time.Duration) Line {
	return Line{LineID: id, StoreID: "store-1", Lifecycle: LifecycleActive, Quantity: 1, AddedAt: testNow.Add(-age)}
}

func TestFilterExpired_Boundary(t *testing.T) {
	lines := []Line{
		lineAddedAt("fresh", time.Hour),
		lineAddedAt("just-before", 29*24*time.Hour+23*time.Hour+59*time.Minute),
		lineAddedAt("at-boundary", 30*24*time.Hour),
		lineAddedAt("after-boundary", 30*24*time.Hour+time.Second),
	}

	got := FilterExpired(lines, testNow, DefaultRetention)

	ids := make([]string, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.LineID)
	}
	assert.Equal(t, []string{"fresh", "just-before"}, ids)
}

func TestFilterExpired_Idempotent(t *testing.T) {
	lines := []Line{
		lineAddedAt("a", 40*24*time.Hour),
		lineAddedAt("b", 2*24*time.Hour),
		lineAddedAt("c", 31*24*time.Hour),
		lineAddedAt("d", 0),
	}

	once := FilterExpired(lines, testNow, DefaultRetention)
	twice := FilterExpired(once, testNow, DefaultRetention)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 2)
	assert.Equal(t, "b", once[0].LineID)
	assert.Equal(t, "d", once[1].LineID)
}

func TestFilterExpired_DoesNotModifyInput(t *testing.T) {
	lines := []Line{lineAddedAt("old", 60*24*time.Hour)}

	got := FilterExpired(lines, testNow, DefaultRetention)

	assert.Empty(t, got)
	assert.Len(t, lines, 1)
}

func TestFilterExpired_NonPositiveRetentionUsesDefault(t *testing.T) {
	lines := []Line{lineAddedAt("week-old", 7*24*time.Hour)}

	assert.Len(t, FilterExpired(lines, testNow, 0), 1)
}

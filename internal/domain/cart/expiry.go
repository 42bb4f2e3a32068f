package cart

import "time"

// DefaultRetention is how long a line stays in the cart after being added.
const DefaultRetention = 30 * 24 * time.Hour

// FilterExpired drops lines whose age at now has reached the retention
// window. Order is preserved and the input slice is not modified.
func FilterExpired(lines []Line, now time.Time, retention time.Duration) []Line {
	if retention <= 0 {
		retention = DefaultRetention
	}
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if now.Sub(l.AddedAt) >= retention {
			continue
		}
		out = append(out, l)
	}
	return out
}

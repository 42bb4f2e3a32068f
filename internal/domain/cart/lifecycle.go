package cart

import "strings"

// Status tags reported by the cart backend.
const (
	StatusTagActive  = "ACTIVE"
	StatusTagSoldOut = "SOLDOUT"
	StatusTagDeleted = "DELETED"
)

// Classify maps a backend status tag to a lifecycle. The second return value
// is false when the tag was not recognized; such lines fail closed to DELETED
// and are never purchasable.
func Classify(tag string) (Lifecycle, bool) {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case StatusTagActive:
		return LifecycleActive, true
	case StatusTagSoldOut:
		return LifecycleSoldOut, true
	case StatusTagDeleted:
		return LifecycleDeleted, true
	default:
		return LifecycleDeleted, false
	}
}

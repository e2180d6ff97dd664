package bill

import "slices"

// CompareDatesDescending orders YYYY-MM-DD strings from most recent to earliest.
// It returns -1 when a is more recent than b, 1 when b is more recent, and 0
// when they are equal.
func CompareDatesDescending(a, b string) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// SortByDateDescending sorts bills in place, most recent first. Bills sharing
// a date keep their relative order.
func SortByDateDescending(bills []*Bill) {
	slices.SortStableFunc(bills, func(a, b *Bill) int {
		return CompareDatesDescending(a.Date, b.Date)
	})
}

package avltree

// OrderedKey lists the built-in types with a total order.
type OrderedKey interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~string
}

// Ordered is a ready-made CompareFn for the built-in ordered types.
func Ordered[K OrderedKey](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

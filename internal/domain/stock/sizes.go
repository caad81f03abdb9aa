package stock

// CanonicalSizes is the size range tracked for apparel stock, in display order
var CanonicalSizes = []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// SizeMap holds per-size unit counts
type SizeMap map[string]int

// NewSizeMap returns a map with every canonical size at zero
func NewSizeMap() SizeMap {
	m := make(SizeMap, len(CanonicalSizes))
	for _, s := range CanonicalSizes {
		m[s] = 0
	}
	return m
}

// Total sums the quantities across all sizes
func (m SizeMap) Total() int {
	total := 0
	for _, q := range m {
		total += q
	}
	return total
}

// Clone returns an independent copy
func (m SizeMap) Clone() SizeMap {
	out := make(SizeMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

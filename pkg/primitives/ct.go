package primitives

// ConstantTimeEqual compares a and b without leaking the length of the
// common prefix through branch timing. Unlike a naive implementation it
// does not return early on length mismatch: both slices are padded (by
// index, not allocation) out to the longer length and every byte position
// participates in the accumulator, with the length mismatch itself folded
// into the result rather than short-circuiting the loop.
func ConstantTimeEqual(a, b []byte) bool {
	max := len(a)
	if len(b) > max {
		max = len(b)
	}

	var diff int
	diff |= len(a) ^ len(b)
	for i := 0; i < max; i++ {
		var av, bv byte
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		diff |= int(av ^ bv)
	}
	return diff == 0
}

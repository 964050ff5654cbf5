package ecs

const (
	maskWords         = 4
	bitsPerWord       = 64
	maxComponentTypes = maskWords * bitsPerWord
)

// mask is a bitmask over registered component storage indices.
type mask [maskWords]uint64

func (m mask) has(bit int) bool {
	return m[bit/bitsPerWord]&(1<<(bit%bitsPerWord)) != 0
}

func (m mask) set(bit int) mask {
	m[bit/bitsPerWord] |= 1 << (bit % bitsPerWord)
	return m
}

func (m mask) unset(bit int) mask {
	m[bit/bitsPerWord] &^= 1 << (bit % bitsPerWord)
	return m
}

// contains reports whether every bit of other is set in m.
func (m mask) contains(other mask) bool {
	for i := 0; i < maskWords; i++ {
		if m[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}

func (m mask) isZero() bool {
	for i := 0; i < maskWords; i++ {
		if m[i] != 0 {
			return false
		}
	}
	return true
}

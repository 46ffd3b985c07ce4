package domain

// NextID returns the identifier for a new collection entry: the largest
// existing id plus one, or 1 for an empty collection.
func NextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// NextIDOf is NextID over any collection with an id accessor.
func NextIDOf[E any](items []E, id func(E) int) int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = id(item)
	}
	return NextID(ids)
}

// IndexOf returns the position of the entry with the given id, or -1.
func IndexOf[E any](items []E, id func(E) int, target int) int {
	for i, item := range items {
		if id(item) == target {
			return i
		}
	}
	return -1
}

// RemoveByID returns items without the entry carrying target. The boolean
// reports whether anything was removed.
func RemoveByID[E any](items []E, id func(E) int, target int) ([]E, bool) {
	out := make([]E, 0, len(items))
	removed := false
	for _, item := range items {
		if id(item) == target {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

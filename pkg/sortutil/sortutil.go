// Package sortutil provides a stable merge sort over a caller-supplied key.
//
// The standard library's sort is unstable by default and slices.SortStableFunc
// wants a comparison function; list views in this project are re-ordered by a
// single extracted key (total, creation time, id) with an explicit direction,
// so the primitive here takes exactly that shape. The input slice is never
// mutated.
package sortutil

import "cmp"

// Sort returns a new slice with items ordered by key. When desc is true the
// order is reversed. The sort is stable: items with equal keys keep their
// relative order from the input.
//
// Complexity is O(n log n) time and O(n) auxiliary space.
func Sort[T any, K cmp.Ordered](items []T, key func(T) K, desc bool) []T {
	if len(items) <= 1 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	mid := len(items) / 2
	left := Sort(items[:mid], key, desc)
	right := Sort(items[mid:], key, desc)

	return merge(left, right, key, desc)
}

// merge combines two sorted runs. Ties take from the left run first, which is
// what makes the sort stable; in descending mode the left element also wins
// on equality.
func merge[T any, K cmp.Ordered](left, right []T, key func(T) K, desc bool) []T {
	out := make([]T, 0, len(left)+len(right))
	i, j := 0, 0

	takeLeft := func(a, b K) bool {
		if desc {
			return a >= b
		}
		return a <= b
	}

	for i < len(left) && j < len(right) {
		if takeLeft(key(left[i]), key(right[j])) {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)

	return out
}

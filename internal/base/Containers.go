package base

import "sort"

// SetT is the teacher's minimal ordered-set-over-a-slice container,
// trimmed to the handful of operations variant.FeatureSet needs: small,
// frequently re-sorted collections where a slice beats a map.
type SetT[T comparable] []T

func NewSet[T comparable](items ...T) SetT[T] {
	result := SetT[T]{}
	result.AppendUniq(items...)
	return result
}

func (set SetT[T]) Len() int { return len(set) }

func (set SetT[T]) Contains(it T) bool {
	for _, x := range set {
		if x == it {
			return true
		}
	}
	return false
}

func (set *SetT[T]) AppendUniq(items ...T) {
	for _, it := range items {
		if !set.Contains(it) {
			*set = append(*set, it)
		}
	}
}

func (set SetT[T]) Slice() []T {
	result := make([]T, len(set))
	copy(result, set)
	return result
}

// SortedUniq sorts a copy of items and removes adjacent duplicates, using
// less for ordering and equal for duplicate detection.
func SortedUniq[T comparable](items []T, less func(a, b T) bool, equal func(a, b T) bool) []T {
	cp := make([]T, len(items))
	copy(cp, items)
	sort.Slice(cp, func(i, j int) bool { return less(cp[i], cp[j]) })

	result := make([]T, 0, len(cp))
	for i, it := range cp {
		if i == 0 || !equal(result[len(result)-1], it) {
			result = append(result, it)
		}
	}
	return result
}

package utils

import "slices"

func Filter[T any](s []T, f func(T) bool) []T {
	r := make([]T, 0, len(s))
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

func Map[T, U any](s []T, f func(T) U) []U {
	r := make([]U, len(s))
	for i, v := range s {
		r[i] = f(v)
	}
	return r
}

func Reduce[T, U any](s []T, f func(U, T) U, init U) U {
	r := init
	for _, v := range s {
		r = f(r, v)
	}
	return r
}

func Find[T any](s []T, f func(T) bool) (T, bool) {
	for _, v := range s {
		if f(v) {
			return v, true
		}
	}
	var t T
	return t, false
}

func GroupBy[T any, K comparable](s []T, key func(T) K) map[K][]T {
	r := make(map[K][]T)
	for _, v := range s {
		k := key(v)
		r[k] = append(r[k], v)
	}
	return r
}

func Unique[T comparable](s []T) []T {
	seen := make(map[T]bool, len(s))
	r := make([]T, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			r = append(r, v)
		}
	}
	return r
}

func UniqueSorted(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}

// Bag is a multiset of keys.
type Bag[K comparable] map[K]int

func NewBag[T any, K comparable](s []T, key func(T) K) Bag[K] {
	b := make(Bag[K], len(s))
	for _, v := range s {
		b[key(v)]++
	}
	return b
}

// SubtractAll removes from a one occurrence per matching element of b,
// keeping leftover duplicates. This is EXCEPT ALL, not set difference: an
// element occurring three times in a and once in b survives twice.
func SubtractAll[T any, K comparable](a []T, b []T, key func(T) K) []T {
	remaining := NewBag(b, key)
	r := make([]T, 0, len(a))
	for _, v := range a {
		k := key(v)
		if remaining[k] > 0 {
			remaining[k]--
			continue
		}
		r = append(r, v)
	}
	return r
}

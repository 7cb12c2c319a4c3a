package api

import "slices"

// MergeStrategy decides how freshly imported records combine with the
// records already held by a Context. Implementations must be pure: no I/O,
// no retained references to either argument.
type MergeStrategy[T any] interface {
	Merge(current, imported []T) []T
}

// MergeFunc adapts an ordinary function to a MergeStrategy.
type MergeFunc[T any] func(current, imported []T) []T

func (f MergeFunc[T]) Merge(current, imported []T) []T {
	return f(current, imported)
}

// Replace returns the default strategy: the imported records become the
// whole data set, whatever was there before.
func Replace[T any]() MergeStrategy[T] {
	return MergeFunc[T](func(_, imported []T) []T {
		out := make([]T, len(imported))
		copy(out, imported)
		return out
	})
}

// Append keeps the current records and adds the imported ones after them.
func Append[T any]() MergeStrategy[T] {
	return MergeFunc[T](func(current, imported []T) []T {
		out := make([]T, 0, len(current)+len(imported))
		out = append(out, current...)
		return append(out, imported...)
	})
}

// MergeByKey upserts imported records into the current ones using key.
//
// A current record whose key also occurs in imported is replaced in place
// (the last imported duplicate wins). Imported records with unseen keys are
// appended in import order.
func MergeByKey[T any, K comparable](key func(T) K) MergeStrategy[T] {
	return MergeFunc[T](func(current, imported []T) []T {
		out := slices.Clone(current)
		if out == nil {
			out = make([]T, 0, len(imported))
		}

		index := make(map[K]int, len(out))
		for i, item := range out {
			index[key(item)] = i
		}

		for _, item := range imported {
			k := key(item)
			if i, ok := index[k]; ok {
				out[i] = item
				continue
			}
			index[k] = len(out)
			out = append(out, item)
		}
		return out
	})
}

// StrategyOrDefault returns s, or Replace when s is nil.
func StrategyOrDefault[T any](s MergeStrategy[T]) MergeStrategy[T] {
	if s == nil {
		return Replace[T]()
	}
	return s
}

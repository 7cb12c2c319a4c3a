// Package registry maps (application, format) pairs to format adapters.
package registry

import (
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/petrijr/miniapp/pkg/api"
)

// maxSuggestionDistance bounds how far a requested format may be from a
// registered one to be offered as a suggestion.
const maxSuggestionDistance = 2

// Registry binds format adapters per application name.
type Registry[T any] struct {
	mu     sync.RWMutex
	byName map[string]map[string]api.FormatAdapter[T]
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{
		byName: make(map[string]map[string]api.FormatAdapter[T]),
	}
}

// normalize lower-cases format ids so "JSON" and "json" bind the same slot.
func normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// Register binds adapter under its own format id for appName, replacing any
// previous binding for the same pair.
func (r *Registry[T]) Register(appName string, adapter api.FormatAdapter[T]) error {
	if adapter == nil {
		return &api.InvalidArgumentError{Field: "adapter", Reason: "is nil"}
	}
	format := normalize(adapter.Format())
	if format == "" {
		return &api.InvalidArgumentError{Field: "adapter format", Reason: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	formats := r.byName[appName]
	if formats == nil {
		formats = make(map[string]api.FormatAdapter[T])
		r.byName[appName] = formats
	}
	formats[format] = adapter
	return nil
}

// Get returns the adapter bound to format for appName, or an
// *api.UnsupportedFormatError listing the formats that are bound.
func (r *Registry[T]) Get(appName, format string) (api.FormatAdapter[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if adapter, ok := r.byName[appName][normalize(format)]; ok {
		return adapter, nil
	}

	supported := r.supportedLocked(appName)
	return nil, &api.UnsupportedFormatError{
		AppName:    appName,
		Format:     format,
		Supported:  supported,
		Suggestion: suggest(normalize(format), supported),
	}
}

// Supports reports whether an adapter is bound to format for appName.
func (r *Registry[T]) Supports(appName, format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[appName][normalize(format)]
	return ok
}

// SupportedFormats returns the format ids bound for appName, sorted.
func (r *Registry[T]) SupportedFormats(appName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.supportedLocked(appName)
}

func (r *Registry[T]) supportedLocked(appName string) []string {
	formats := r.byName[appName]
	out := make([]string, 0, len(formats))
	for f := range formats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// suggest returns the closest candidate to format within
// maxSuggestionDistance edits, or "".
func suggest(format string, candidates []string) string {
	if format == "" {
		return ""
	}
	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(format, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

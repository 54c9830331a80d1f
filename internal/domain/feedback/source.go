// Package feedback renders coach-style natural language for shot decisions.
// Template choice is random; the randomness source is injectable so tests can
// pin the phrasing.
package feedback

import "math/rand/v2"

// Source picks a uniform integer in [0, n).
type Source interface {
	IntN(n int) int
}

// globalSource uses the process-wide generator, which is safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the shared concurrency-safe source.
func DefaultSource() Source { return globalSource{} }

func pick(src Source, options []string) string {
	return options[src.IntN(len(options))]
}

// sample returns k distinct elements of items in random order. When items has
// k or fewer elements it is returned unchanged.
func sample(src Source, items []string, k int) []string {
	if len(items) <= k {
		return items
	}
	pool := append([]string(nil), items...)
	for i := 0; i < k; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

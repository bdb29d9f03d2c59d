package stats

import (
	"math"
)

// Round rounds v to the given number of decimal places, halves away from zero
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Range tracks min, max, sum and count of a stream of values in one pass
type Range[T int | float64] struct {
	min   T
	max   T
	sum   float64
	count int
}

// Add folds v into the range
func (r *Range[T]) Add(v T) {
	if r.count == 0 || v < r.min {
		r.min = v
	}
	if r.count == 0 || v > r.max {
		r.max = v
	}
	r.sum += float64(v)
	r.count++
}

// Min returns the smallest value, false when empty
func (r *Range[T]) Min() (T, bool) {
	return r.min, r.count > 0
}

// Max returns the largest value, false when empty
func (r *Range[T]) Max() (T, bool) {
	return r.max, r.count > 0
}

// Mean returns the arithmetic mean, false when empty
func (r *Range[T]) Mean() (float64, bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.sum / float64(r.count), true
}

// Counter counts keys while remembering first-seen order
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Inc adds one occurrence of key
func (c *Counter) Inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Len returns the number of distinct keys
func (c *Counter) Len() int {
	return len(c.order)
}

// Keys returns distinct keys in first-seen order
func (c *Counter) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Count returns the occurrences of key
func (c *Counter) Count(key string) int {
	return c.counts[key]
}

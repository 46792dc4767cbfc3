package recommend

import "sort"

// counter is a frequency map that remembers the order distinct keys were
// first seen. Ranking sorts by descending count; tied counts keep their
// first-seen order, which makes rankings reproducible for a fixed item order.
type counter struct {
	counts map[string]int64
	order  []string
}

func (c *counter) add(key string, weight int64) {
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += weight
}

// top returns up to n keys ranked by count descending, ties first-seen first.
func (c *counter) top(n int) []string {
	ranked := make([]string, len(c.order))
	copy(ranked, c.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

package trainer

import "sort"

// counter tallies string occurrences and reports them most-frequent-first.
// Ties keep first-seen order, so results are deterministic across runs.
type counter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newCounter() *counter {
	return &counter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (c *counter) Add(s string) {
	if _, ok := c.counts[s]; !ok {
		c.order[s] = c.next
		c.next++
	}
	c.counts[s]++
}

func (c *counter) Count(s string) int {
	return c.counts[s]
}

// MostCommon returns up to n keys ordered by descending count; n <= 0
// returns all of them.
func (c *counter) MostCommon(n int) []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if c.counts[a] != c.counts[b] {
			return c.counts[a] > c.counts[b]
		}
		return c.order[a] < c.order[b]
	})

	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

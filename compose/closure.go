package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// closure walks the prerequisite graph of every fragment name present in
// the params and accumulates the transitive companion set. The recursion
// path doubles as the cycle detector; depend counts are sort weights only.
type closure struct {
	reg     *Registry
	params  *Params
	path    []string
	counts  map[string]int
	order   []string  // first-seen order, tie-breaker for the stable sort
	patches []*Params // params patches applied, in application order
	dynamic bool      // a dynamic prerequisite fired during discovery
}

func newClosure(reg *Registry, p *Params) *closure {
	return &closure{reg: reg, params: p, counts: make(map[string]int)}
}

// discover seeds the walk from every string-named entry of the params. The
// working params are read lazily so that a patch merged mid-walk is visible
// to later phases. Sub-filter keys come from a map and are iterated sorted;
// map order must never leak into the companion ordering.
func (c *closure) discover(ctx context.Context) error {
	p := c.params
	for i := 0; i < len(p.Fields); i++ {
		if name, ok := p.Fields[i].(string); ok {
			if err := c.seed(ctx, KindField.key(name)); err != nil {
				return err
			}
		}
	}
	for i := 0; i < len(p.Tables); i++ {
		if err := c.seed(ctx, KindTable.key(p.Tables[i])); err != nil {
			return err
		}
	}
	if err := c.seedSubqueries(ctx); err != nil {
		return err
	}
	for i := 0; i < len(p.GroupBy); i++ {
		if name, ok := p.GroupBy[i].(string); ok {
			if err := c.seed(ctx, KindGroupBy.key(name)); err != nil {
				return err
			}
		}
	}
	for i := 0; i < len(p.Sorting); i++ {
		var name string
		switch e := p.Sorting[i].(type) {
		case string:
			name = e
		case SortKey:
			name = e.Key
		default:
			continue
		}
		if err := c.seed(ctx, KindOrderBy.key(name)); err != nil {
			return err
		}
	}
	// Patches merged during the later phases may have activated new
	// sub-filters; give them one more chance to expand.
	return c.seedSubqueries(ctx)
}

func (c *closure) seedSubqueries(ctx context.Context) error {
	keys := make([]string, 0, len(c.params.Subqueries))
	for k := range c.params.Subqueries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.seed(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// seed visits a top-level key when it is registered; unregistered top-level
// names are tolerated (the per-clause fallback rules handle them later).
func (c *closure) seed(ctx context.Context, key string) error {
	if _, ok := c.reg.frags[key]; !ok {
		return nil
	}
	if c.counts[key] > 0 || c.contains(c.order, key) {
		// Already expanded as someone's prerequisite; re-seeding would
		// only re-add a zero weight.
		return nil
	}
	return c.visit(ctx, key)
}

func (c *closure) visit(ctx context.Context, key string) error {
	for _, onPath := range c.path {
		if onPath == key {
			cycle := append(append([]string{}, c.path...), key)
			return fmt.Errorf("%w: %s", ErrRecursiveDependency, strings.Join(cycle, " -> "))
		}
	}
	frag, ok := c.reg.frags[key]
	if !ok {
		return fmt.Errorf("%w: %q (via %s)", ErrUnknownCompanion, key, strings.Join(c.path, " -> "))
	}
	if !c.contains(c.order, key) {
		c.order = append(c.order, key)
	}
	// Depend count: path depth at visit time, summed across visits. A key
	// reached through several chains outweighs one reached directly.
	c.counts[key] += len(c.path)

	c.path = append(c.path, key)
	err := c.resolvePrereq(ctx, frag.prereq)
	c.path = c.path[:len(c.path)-1]
	return err
}

func (c *closure) resolvePrereq(ctx context.Context, prereq Prerequisite) error {
	switch v := prereq.(type) {
	case nil:
		return nil
	case Names:
		for _, name := range v {
			if err := c.visit(ctx, name); err != nil {
				return err
			}
		}
		return nil
	case Patch:
		c.patches = append(c.patches, v.Params)
		mergePatch(c.params, v.Params)
		return nil
	case Dynamic:
		c.dynamic = true
		resolved, err := v(ctx, c.params)
		if err != nil {
			return fmt.Errorf("dynamic prerequisite of %q: %w", c.path[len(c.path)-1], err)
		}
		return c.resolvePrereq(ctx, resolved)
	default:
		return fmt.Errorf("unsupported prerequisite type %T", prereq)
	}
}

// companions returns the discovered keys ordered for application: descending
// by accumulated depend count, ties keeping first-seen order.
func (c *closure) companions() []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}

func (c *closure) contains(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

package compose

import (
	"context"
	"sort"

	"github.com/Konsultn-Engineering/composer/utils"
)

// plan is a cached closure-discovery result: the ordered companion keys and
// the prerequisite patches applied along the way. With a static prerequisite
// graph the plan is a pure function of the requested registered names, so
// re-walking the graph per Apply is wasted work.
type plan struct {
	companions []string
	patches    []*Params
}

// planKey fingerprints the registered names requested by the params, before
// discovery mutates them. Sorted so map iteration order cannot leak in.
func (r *Registry) planKey(p *Params) uint64 {
	var seeds []string
	add := func(key string) {
		if _, ok := r.frags[key]; ok {
			seeds = append(seeds, key)
		}
	}
	for _, f := range p.Fields {
		if name, ok := f.(string); ok {
			add(KindField.key(name))
		}
	}
	for _, t := range p.Tables {
		add(KindTable.key(t))
	}
	for k := range p.Subqueries {
		add(k)
	}
	for _, g := range p.GroupBy {
		if name, ok := g.(string); ok {
			add(KindGroupBy.key(name))
		}
	}
	for _, s := range p.Sorting {
		switch e := s.(type) {
		case string:
			add(KindOrderBy.key(e))
		case SortKey:
			add(KindOrderBy.key(e.Key))
		}
	}
	sort.Strings(seeds)
	return utils.FingerprintStrings(seeds)
}

// resolveClosure expands the dependency closure, consulting the plan cache
// when no registered fragment carries a dynamic prerequisite. A cache hit
// replays the recorded patches onto the params and skips the graph walk.
func (r *Registry) resolveClosure(ctx context.Context, p *Params) ([]string, error) {
	cacheable := r.dynamic == 0 && r.plans != nil
	var key uint64
	if cacheable {
		key = r.planKey(p)
		if cached, ok := r.plans.Get(key); ok {
			for _, patch := range cached.patches {
				mergePatch(p, patch)
			}
			return cached.companions, nil
		}
	}
	c := newClosure(r, p)
	if err := c.discover(ctx); err != nil {
		return nil, err
	}
	companions := c.companions()
	if cacheable && !c.dynamic {
		r.plans.Add(key, &plan{companions: companions, patches: c.patches})
	}
	return companions, nil
}

package compose

import "context"

// Prerequisite declares what must be resolved before a fragment is applied:
// nothing, a list of companion registry keys, a params patch merged into the
// working params, or a function of the params producing one of the former.
type Prerequisite interface {
	isPrerequisite()
}

// Names lists companion registry keys ("field:total", "active", ...). Bare
// names address sub-filter fragments, prefixed ones the other kinds.
type Names []string

func (Names) isPrerequisite() {}

// Patch is a literal parameter-shaped object merged into the working params.
type Patch struct {
	Params *Params
}

func (Patch) isPrerequisite() {}

// Dynamic computes a prerequisite from the current params. It may block on
// external data; the resolver awaits it in sequence.
type Dynamic func(ctx context.Context, p *Params) (Prerequisite, error)

func (Dynamic) isPrerequisite() {}

// namesToPatch is the one explicit desugaring step: a plain companion name
// list is equivalent to a patch activating each name as a sub-filter.
func namesToPatch(names Names) Patch {
	p := &Params{Subqueries: make(map[string]any, len(names))}
	for _, name := range names {
		p.Subqueries[name] = true
	}
	return Patch{Params: p}
}

// MergePrerequisites combines two prerequisite values exhaustively per pair
// of variants. Dynamic operands are deferred: the merge result is itself
// dynamic and resolves both sides at closure time.
func MergePrerequisites(a, b Prerequisite) Prerequisite {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if da, ok := a.(Dynamic); ok {
		return Dynamic(func(ctx context.Context, p *Params) (Prerequisite, error) {
			ra, err := da(ctx, p)
			if err != nil {
				return nil, err
			}
			return MergePrerequisites(ra, b), nil
		})
	}
	if db, ok := b.(Dynamic); ok {
		return Dynamic(func(ctx context.Context, p *Params) (Prerequisite, error) {
			rb, err := db(ctx, p)
			if err != nil {
				return nil, err
			}
			return MergePrerequisites(a, rb), nil
		})
	}
	na, aIsNames := a.(Names)
	nb, bIsNames := b.(Names)
	switch {
	case aIsNames && bIsNames:
		return append(append(Names{}, na...), nb...)
	case aIsNames:
		return mergePatches(namesToPatch(na), b.(Patch))
	case bIsNames:
		return mergePatches(a.(Patch), namesToPatch(nb))
	default:
		return mergePatches(a.(Patch), b.(Patch))
	}
}

func mergePatches(a, b Patch) Patch {
	out := a.Params.Clone()
	mergePatch(out, b.Params)
	return Patch{Params: out}
}

func clonePrerequisite(p Prerequisite) Prerequisite {
	switch v := p.(type) {
	case Names:
		return append(Names{}, v...)
	case Patch:
		return Patch{Params: v.Params.Clone()}
	default:
		// Dynamic keeps function identity.
		return p
	}
}

package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Konsultn-Engineering/composer/ast"
)

// Kind partitions the registry namespace. Sub-filter fragments live under
// their bare name, every other kind under a "<kind>:<name>" key.
type Kind int

const (
	KindSubquery Kind = iota
	KindField
	KindTable
	KindGroupBy
	KindOrderBy
)

func (k Kind) prefix() string {
	switch k {
	case KindField:
		return "field:"
	case KindTable:
		return "table:"
	case KindGroupBy:
		return "groupBy:"
	case KindOrderBy:
		return "orderBy:"
	default:
		return ""
	}
}

func (k Kind) key(name string) string {
	return k.prefix() + name
}

// SourceFunc produces a partial tree from the bound value (nil for unnamed
// application) and the full params. It may block on external data.
type SourceFunc func(ctx context.Context, bound any, p *Params) (*ast.SelectStmt, error)

// FormatFunc renders one placeholder's value from the whole effective
// bound-value object.
type FormatFunc func(value map[string]any) (any, error)

// Variable binds the placeholder at its index to a named entry of the
// bound value, with an optional default and formatter.
type Variable struct {
	Name    string
	Default any
	Format  FormatFunc
}

// VarOpts carries the optional parts of a variable registration.
type VarOpts struct {
	Default any
	Format  FormatFunc
}

// Fragment is one named, registered unit producing a partial query tree.
// Identity is immutable after registration; only the variable list grows,
// and only during the setup phase.
type Fragment struct {
	name   string
	kind   Kind
	tree   *ast.SelectStmt
	fn     SourceFunc
	prereq Prerequisite
	vars   []*Variable
	logger *slog.Logger
}

func newFragment(kind Kind, name string, src any, prereq Prerequisite) (*Fragment, error) {
	f := &Fragment{name: name, kind: kind, prereq: prereq, logger: slog.Default()}
	switch s := src.(type) {
	case *ast.SelectStmt:
		f.tree = s
	case SourceFunc:
		f.fn = s
	case func(ctx context.Context, bound any, p *Params) (*ast.SelectStmt, error):
		f.fn = s
	default:
		return nil, fmt.Errorf("fragment %q: unsupported source type %T", name, src)
	}
	return f, nil
}

func (f *Fragment) Name() string { return f.name }
func (f *Fragment) Kind() Kind   { return f.kind }

// Register adds a variable at a placeholder index. Positional and
// idempotent: a later call at the same index overwrites.
func (f *Fragment) Register(name string, index int, opts ...VarOpts) *Fragment {
	for len(f.vars) <= index {
		f.vars = append(f.vars, nil)
	}
	v := &Variable{Name: name}
	if len(opts) > 0 {
		v.Default = opts[0].Default
		v.Format = opts[0].Format
	}
	f.vars[index] = v
	return f
}

// Default is the bound value used when the caller activates the fragment
// with a bare `true`: the boolean itself when no variables are registered,
// otherwise an object of per-variable defaults.
func (f *Fragment) Default() any {
	if !f.hasVars() {
		return true
	}
	out := make(map[string]any, len(f.vars))
	for _, v := range f.vars {
		if v != nil {
			out[v.Name] = v.Default
		}
	}
	return out
}

func (f *Fragment) hasVars() bool {
	for _, v := range f.vars {
		if v != nil {
			return true
		}
	}
	return false
}

// Apply realizes the fragment without placeholder binding (field, table,
// group-by and order-by fragments never consume a bound value).
func (f *Fragment) Apply(ctx context.Context, p *Params) (*ast.SelectStmt, error) {
	return f.realize(ctx, nil, p)
}

// ApplyNamed realizes a sub-filter fragment and resolves its placeholders
// from the bound value found at p.Subqueries[name].
func (f *Fragment) ApplyNamed(ctx context.Context, name string, p *Params) (*ast.SelectStmt, error) {
	raw := p.Subqueries[name]
	tree, err := f.realize(ctx, raw, p)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	placeholders := ScanPlaceholders(tree)
	if len(placeholders) == 0 {
		return tree, nil
	}
	effective := f.effectiveValue(raw)
	for i, ph := range placeholders {
		v := f.variableAt(i)
		if v == nil {
			// Permissive: a placeholder past the registered variables
			// stays unbound. Kept visible so the gap can be audited.
			f.logger.Debug("placeholder without registered variable",
				"fragment", name, "index", i, "placeholder", ph.Name)
			continue
		}
		if v.Format != nil {
			val, err := v.Format(effective)
			if err != nil {
				return nil, fmt.Errorf("fragment %q: format variable %q: %w", name, v.Name, err)
			}
			ph.Bind(val)
			continue
		}
		ph.Bind(effective[v.Name])
	}
	return tree, nil
}

func (f *Fragment) realize(ctx context.Context, bound any, p *Params) (*ast.SelectStmt, error) {
	if f.fn != nil {
		return f.fn(ctx, bound, p)
	}
	return ast.CloneSelect(f.tree), nil
}

// effectiveValue merges the raw bound value over the registered defaults.
// `true` selects the defaults as-is; a scalar is wrapped as {"value": raw}.
func (f *Fragment) effectiveValue(raw any) map[string]any {
	base, _ := f.Default().(map[string]any)
	if base == nil {
		base = map[string]any{}
	}
	switch v := raw.(type) {
	case nil, bool:
		return base
	case map[string]any:
		for k, val := range v {
			base[k] = val
		}
		return base
	default:
		base["value"] = v
		return base
	}
}

func (f *Fragment) variableAt(index int) *Variable {
	if index < 0 || index >= len(f.vars) {
		return nil
	}
	return f.vars[index]
}

// Clone deep-copies the fragment for registry duplication. Fixed trees and
// data-shaped prerequisites are copied, function sources keep identity, the
// variable list is rebuilt through Register.
func (f *Fragment) Clone() *Fragment {
	out := &Fragment{
		name:   f.name,
		kind:   f.kind,
		tree:   ast.CloneSelect(f.tree),
		fn:     f.fn,
		prereq: clonePrerequisite(f.prereq),
		logger: f.logger,
	}
	for i, v := range f.vars {
		if v != nil {
			out.Register(v.Name, i, VarOpts{Default: v.Default, Format: v.Format})
		}
	}
	return out
}

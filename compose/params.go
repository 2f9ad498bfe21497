package compose

import "github.com/Konsultn-Engineering/composer/ast"

// FieldRef is the structured shorthand for an ad-hoc select column.
type FieldRef struct {
	Table  string
	Column string
	Alias  string
}

// SortKey is the structured form of one sort entry. Direction is "asc" or
// "desc"; empty means ascending.
type SortKey struct {
	Key       string
	Direction string
}

const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Params is the run-time input to Registry.Apply. List entries accept
// fragment names (strings) as well as direct tree values:
//
//	Fields:  string | [2]string | FieldRef | *ast.ResultColumn | ast.Node
//	GroupBy: string | *ast.GroupByClause | ast.Node
//	Sorting: string | SortKey | *ast.OrderItem
//	Limit:   int | *ast.LimitClause
//
// Subqueries maps sub-filter fragment names to their bound values: true,
// a map of variable values, or a scalar (treated as {"value": v}).
type Params struct {
	Distinct   bool
	Fields     []any
	Tables     []string
	Subqueries map[string]any
	GroupBy    []any
	Sorting    []any
	Limit      any
	Conditions ast.Node
	Constants  map[string]any
}

// Clone deep-copies the parameter object so Apply never mutates caller
// state. Direct tree values are cloned; bound-value maps are copied one
// level deep (fragment application only ever shallow-merges them).
func (p *Params) Clone() *Params {
	out := &Params{Distinct: p.Distinct, Limit: p.Limit}
	if p.Fields != nil {
		out.Fields = make([]any, len(p.Fields))
		for i, f := range p.Fields {
			out.Fields[i] = cloneParamEntry(f)
		}
	}
	if p.Tables != nil {
		out.Tables = append([]string(nil), p.Tables...)
	}
	out.Subqueries = make(map[string]any, len(p.Subqueries))
	for k, v := range p.Subqueries {
		out.Subqueries[k] = cloneBoundValue(v)
	}
	if p.GroupBy != nil {
		out.GroupBy = make([]any, len(p.GroupBy))
		for i, g := range p.GroupBy {
			out.GroupBy[i] = cloneParamEntry(g)
		}
	}
	if p.Sorting != nil {
		out.Sorting = make([]any, len(p.Sorting))
		for i, s := range p.Sorting {
			out.Sorting[i] = cloneParamEntry(s)
		}
	}
	if l, ok := p.Limit.(*ast.LimitClause); ok {
		out.Limit = ast.CloneNode(l)
	}
	if p.Conditions != nil {
		out.Conditions = ast.CloneNode(p.Conditions)
	}
	if p.Constants != nil {
		out.Constants = make(map[string]any, len(p.Constants))
		for k, v := range p.Constants {
			out.Constants[k] = v
		}
	}
	return out
}

func cloneParamEntry(entry any) any {
	if n, ok := entry.(ast.Node); ok {
		return ast.CloneNode(n)
	}
	return entry
}

func cloneBoundValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	}
	return v
}

// mergePatch folds a prerequisite params-patch into the working params.
// Lists are appended (de-duplication happens during classification), the
// caller's explicit sub-filter values and constants win over the patch's.
func mergePatch(dst *Params, patch *Params) {
	if patch == nil {
		return
	}
	dst.Distinct = dst.Distinct || patch.Distinct
	for _, f := range patch.Fields {
		dst.Fields = append(dst.Fields, cloneParamEntry(f))
	}
	dst.Tables = append(dst.Tables, patch.Tables...)
	for k, v := range patch.Subqueries {
		if _, ok := dst.Subqueries[k]; !ok {
			dst.Subqueries[k] = cloneBoundValue(v)
		}
	}
	for _, g := range patch.GroupBy {
		dst.GroupBy = append(dst.GroupBy, cloneParamEntry(g))
	}
	for _, s := range patch.Sorting {
		dst.Sorting = append(dst.Sorting, cloneParamEntry(s))
	}
	if dst.Limit == nil {
		dst.Limit = patch.Limit
	}
	if patch.Conditions != nil {
		dst.Conditions = mergeConditions(dst.Conditions, ast.CloneNode(patch.Conditions))
	}
	for k, v := range patch.Constants {
		if dst.Constants == nil {
			dst.Constants = make(map[string]any)
		}
		if _, ok := dst.Constants[k]; !ok {
			dst.Constants[k] = v
		}
	}
}

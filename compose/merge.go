package compose

import "github.com/Konsultn-Engineering/composer/ast"

// Merge folds the addition into base clause by clause and returns base.
// Base is mutated; callers that need the original must clone first. Merging
// is total over well-formed partial trees: there are no error cases.
//
// Per-clause semantics:
//   - distinct: OR of both flags
//   - select: addition's columns appended after base's (output column order)
//   - from: entries keyed by table name (alias for nested-query tables);
//     an existing entry gets the addition's join clauses appended
//   - where: both sides join one implicit AND group; an existing AND group
//     is extended in place, never re-wrapped
//   - group-by: expression and having lists are concatenated; collapsing
//     the having list happens once at the end of a whole merge pass (see
//     CollapseHaving), not here
//   - order-by: concatenated
//   - limit: first writer wins; a later fragment never overrides
//   - union: the addition's union chain attaches at base's chain tail
func Merge(base, add *ast.SelectStmt) *ast.SelectStmt {
	if base == nil {
		base = &ast.SelectStmt{}
	}
	if add == nil {
		return base
	}
	base.Distinct = base.Distinct || add.Distinct
	base.Columns = append(base.Columns, add.Columns...)
	mergeFrom(base, add)
	base.Where = mergeConditions(base.Where, add.Where)
	mergeGroupBy(base, add)
	base.OrderBy = append(base.OrderBy, add.OrderBy...)
	if base.Limit == nil {
		base.Limit = add.Limit
	}
	mergeUnion(base, add)
	return base
}

func mergeFrom(base, add *ast.SelectStmt) {
	for _, entry := range add.From {
		existing := findFrom(base.From, entry.Key())
		if existing == nil {
			base.From = append(base.From, entry)
			continue
		}
		// Same table referenced again: extend its join list, never
		// duplicate the entry.
		existing.Joins = append(existing.Joins, entry.Joins...)
	}
}

func findFrom(entries []*ast.FromTable, key string) *ast.FromTable {
	if key == "" {
		return nil
	}
	for _, e := range entries {
		if e.Key() == key {
			return e
		}
	}
	return nil
}

// mergeConditions joins two where-sides into one implicit AND group. When
// base already holds an AND group it is extended in place.
func mergeConditions(base, add ast.Node) ast.Node {
	if add == nil {
		return base
	}
	if base == nil {
		return add
	}
	if group, ok := base.(*ast.LogicalExpr); ok && group.Op == ast.OpAnd {
		group.Exprs = append(group.Exprs, conditionList(add)...)
		return group
	}
	return ast.And(append([]ast.Node{base}, conditionList(add)...)...)
}

// conditionList normalizes a where-side to list form: nil is empty, an AND
// group contributes its members, anything else is a single condition.
func conditionList(n ast.Node) []ast.Node {
	if n == nil {
		return nil
	}
	if group, ok := n.(*ast.LogicalExpr); ok && group.Op == ast.OpAnd {
		return group.Exprs
	}
	return []ast.Node{n}
}

func mergeGroupBy(base, add *ast.SelectStmt) {
	if add.GroupBy == nil {
		return
	}
	if base.GroupBy == nil {
		base.GroupBy = add.GroupBy
		return
	}
	base.GroupBy.Exprs = append(base.GroupBy.Exprs, add.GroupBy.Exprs...)
	base.GroupBy.Having = append(base.GroupBy.Having, add.GroupBy.Having...)
}

// CollapseHaving combines accumulated having-conditions into a single AND
// group. Exactly one combination point per resolution pass: calling this
// after every pairwise merge would nest one-element AND wrappers, so the
// resolver invokes it once, after all contributors have merged.
func CollapseHaving(stmt *ast.SelectStmt) {
	if stmt.GroupBy == nil {
		return
	}
	switch len(stmt.GroupBy.Having) {
	case 0:
		stmt.GroupBy.Having = nil
	case 1:
		// A single condition stands alone.
	default:
		stmt.GroupBy.Having = []ast.Node{ast.And(stmt.GroupBy.Having...)}
	}
}

func mergeUnion(base, add *ast.SelectStmt) {
	if add.Union == nil {
		return
	}
	if base.Union == nil {
		base.Union = add.Union
		return
	}
	tail := base.Union
	for tail.Stmt != nil && tail.Stmt.Union != nil {
		tail = tail.Stmt.Union
	}
	if tail.Stmt == nil {
		tail.Stmt = &ast.SelectStmt{}
	}
	tail.Stmt.Union = add.Union
}

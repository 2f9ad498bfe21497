package ast

// CloneSelect deep-copies a statement. Fragment fixed sources and registry
// duplication rely on clones sharing no nodes with the original, so that
// placeholder binding in one application never leaks into another.
func CloneSelect(s *SelectStmt) *SelectStmt {
	if s == nil {
		return nil
	}
	out := &SelectStmt{Distinct: s.Distinct}
	if s.Columns != nil {
		out.Columns = make([]*ResultColumn, len(s.Columns))
		for i, c := range s.Columns {
			out.Columns[i] = &ResultColumn{Expr: CloneNode(c.Expr), Alias: c.Alias}
		}
	}
	if s.From != nil {
		out.From = make([]*FromTable, len(s.From))
		for i, f := range s.From {
			out.From[i] = cloneFromTable(f)
		}
	}
	out.Where = CloneNode(s.Where)
	if s.GroupBy != nil {
		out.GroupBy = &GroupByClause{
			Exprs:  cloneNodes(s.GroupBy.Exprs),
			Having: cloneNodes(s.GroupBy.Having),
		}
	}
	if s.OrderBy != nil {
		out.OrderBy = make([]*OrderItem, len(s.OrderBy))
		for i, o := range s.OrderBy {
			out.OrderBy[i] = &OrderItem{Expr: CloneNode(o.Expr), Desc: o.Desc}
		}
	}
	if s.Limit != nil {
		l := &LimitClause{Count: s.Limit.Count}
		if s.Limit.Offset != nil {
			o := *s.Limit.Offset
			l.Offset = &o
		}
		out.Limit = l
	}
	if s.Union != nil {
		out.Union = &UnionClause{All: s.Union.All, Stmt: CloneSelect(s.Union.Stmt)}
	}
	return out
}

// CloneNode deep-copies any expression node.
func CloneNode(n Node) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *SelectStmt:
		return CloneSelect(v)
	case *ResultColumn:
		return &ResultColumn{Expr: CloneNode(v.Expr), Alias: v.Alias}
	case *Column:
		return &Column{Table: v.Table, Name: v.Name}
	case *Table:
		return &Table{Schema: v.Schema, Name: v.Name}
	case *FromTable:
		return cloneFromTable(v)
	case *Value:
		return &Value{Val: v.Val, ValueType: v.ValueType}
	case *Array:
		return &Array{Values: cloneNodes(v.Values)}
	case *Placeholder:
		return &Placeholder{Name: v.Name, Value: v.Value, Bound: v.Bound}
	case *Function:
		return &Function{Name: v.Name, Args: cloneNodes(v.Args)}
	case *GroupedExpr:
		return &GroupedExpr{Expr: CloneNode(v.Expr)}
	case *LogicalExpr:
		return &LogicalExpr{Op: v.Op, Exprs: cloneNodes(v.Exprs)}
	case *BinaryExpr:
		return &BinaryExpr{Left: CloneNode(v.Left), Operator: v.Operator, Right: CloneNode(v.Right)}
	case *UnaryExpr:
		return &UnaryExpr{Operator: v.Operator, Operand: CloneNode(v.Operand)}
	case *BetweenExpr:
		return &BetweenExpr{Expr: CloneNode(v.Expr), Low: CloneNode(v.Low), High: CloneNode(v.High), Not: v.Not}
	case *InExpr:
		out := &InExpr{Expr: CloneNode(v.Expr), List: cloneNodes(v.List), Not: v.Not}
		if v.Subquery != nil {
			out.Subquery = &SubqueryExpr{Stmt: CloneSelect(v.Subquery.Stmt)}
		}
		return out
	case *CaseExpr:
		out := &CaseExpr{Operand: CloneNode(v.Operand), Else: CloneNode(v.Else)}
		for _, w := range v.Whens {
			out.Whens = append(out.Whens, &CaseWhen{When: CloneNode(w.When), Then: CloneNode(w.Then)})
		}
		return out
	case *SubqueryExpr:
		return &SubqueryExpr{Stmt: CloneSelect(v.Stmt)}
	case *JoinClause:
		return cloneJoin(v)
	case *GroupByClause:
		return &GroupByClause{Exprs: cloneNodes(v.Exprs), Having: cloneNodes(v.Having)}
	case *OrderItem:
		return &OrderItem{Expr: CloneNode(v.Expr), Desc: v.Desc}
	case *LimitClause:
		l := &LimitClause{Count: v.Count}
		if v.Offset != nil {
			o := *v.Offset
			l.Offset = &o
		}
		return l
	case *UnionClause:
		return &UnionClause{All: v.All, Stmt: CloneSelect(v.Stmt)}
	default:
		return n
	}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = CloneNode(n)
	}
	return out
}

func cloneFromTable(f *FromTable) *FromTable {
	out := &FromTable{Source: CloneNode(f.Source), Alias: f.Alias}
	if f.Joins != nil {
		out.Joins = make([]*JoinClause, len(f.Joins))
		for i, j := range f.Joins {
			out.Joins[i] = cloneJoin(j)
		}
	}
	return out
}

func cloneJoin(j *JoinClause) *JoinClause {
	out := &JoinClause{JoinType: j.JoinType, Alias: j.Alias, On: CloneNode(j.On)}
	if j.Table != nil {
		out.Table = &Table{Schema: j.Table.Schema, Name: j.Table.Name}
	}
	return out
}

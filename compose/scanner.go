package compose

import "github.com/Konsultn-Engineering/composer/ast"

// ScanPlaceholders walks a tree and returns its placeholders in the
// deterministic clause order that positional variable registration relies
// on: select, from (with join on-conditions), where, group expressions,
// having, order. Pure; the tree is not modified.
func ScanPlaceholders(stmt *ast.SelectStmt) []*ast.Placeholder {
	s := &placeholderScanner{}
	_ = s.VisitSelect(stmt)
	return s.found
}

type placeholderScanner struct {
	found []*ast.Placeholder
}

func (s *placeholderScanner) scan(n ast.Node) {
	if n == nil {
		return
	}
	_ = n.Accept(s)
}

func (s *placeholderScanner) VisitSelect(stmt *ast.SelectStmt) error {
	if stmt == nil {
		return nil
	}
	for _, c := range stmt.Columns {
		s.scan(c)
	}
	for _, f := range stmt.From {
		s.scan(f)
	}
	s.scan(stmt.Where)
	if stmt.GroupBy != nil {
		s.scan(stmt.GroupBy)
	}
	for _, o := range stmt.OrderBy {
		s.scan(o)
	}
	return nil
}

func (s *placeholderScanner) VisitResultColumn(c *ast.ResultColumn) error {
	s.scan(c.Expr)
	return nil
}

func (s *placeholderScanner) VisitColumn(*ast.Column) error { return nil }
func (s *placeholderScanner) VisitTable(*ast.Table) error   { return nil }

func (s *placeholderScanner) VisitFromTable(f *ast.FromTable) error {
	s.scan(f.Source)
	for _, j := range f.Joins {
		s.scan(j)
	}
	return nil
}

func (s *placeholderScanner) VisitValue(*ast.Value) error { return nil }

func (s *placeholderScanner) VisitArray(a *ast.Array) error {
	for _, v := range a.Values {
		s.scan(v)
	}
	return nil
}

func (s *placeholderScanner) VisitPlaceholder(p *ast.Placeholder) error {
	s.found = append(s.found, p)
	return nil
}

func (s *placeholderScanner) VisitFunction(f *ast.Function) error {
	for _, arg := range f.Args {
		s.scan(arg)
	}
	return nil
}

func (s *placeholderScanner) VisitGroupedExpr(g *ast.GroupedExpr) error {
	s.scan(g.Expr)
	return nil
}

func (s *placeholderScanner) VisitLogicalExpr(l *ast.LogicalExpr) error {
	for _, e := range l.Exprs {
		s.scan(e)
	}
	return nil
}

func (s *placeholderScanner) VisitBinaryExpr(b *ast.BinaryExpr) error {
	s.scan(b.Left)
	s.scan(b.Right)
	return nil
}

func (s *placeholderScanner) VisitUnaryExpr(u *ast.UnaryExpr) error {
	s.scan(u.Operand)
	return nil
}

func (s *placeholderScanner) VisitBetweenExpr(b *ast.BetweenExpr) error {
	s.scan(b.Expr)
	s.scan(b.Low)
	s.scan(b.High)
	return nil
}

func (s *placeholderScanner) VisitInExpr(i *ast.InExpr) error {
	s.scan(i.Expr)
	for _, v := range i.List {
		s.scan(v)
	}
	if i.Subquery != nil {
		s.scan(i.Subquery)
	}
	return nil
}

func (s *placeholderScanner) VisitCaseExpr(c *ast.CaseExpr) error {
	s.scan(c.Operand)
	for _, w := range c.Whens {
		s.scan(w.When)
		s.scan(w.Then)
	}
	s.scan(c.Else)
	return nil
}

func (s *placeholderScanner) VisitSubqueryExpr(sq *ast.SubqueryExpr) error {
	return s.VisitSelect(sq.Stmt)
}

func (s *placeholderScanner) VisitJoinClause(j *ast.JoinClause) error {
	s.scan(j.On)
	return nil
}

func (s *placeholderScanner) VisitGroupBy(g *ast.GroupByClause) error {
	for _, e := range g.Exprs {
		s.scan(e)
	}
	for _, h := range g.Having {
		s.scan(h)
	}
	return nil
}

func (s *placeholderScanner) VisitOrderItem(o *ast.OrderItem) error {
	s.scan(o.Expr)
	return nil
}

func (s *placeholderScanner) VisitLimitClause(*ast.LimitClause) error { return nil }
func (s *placeholderScanner) VisitUnionClause(*ast.UnionClause) error { return nil }

package compose

import (
	"regexp"

	"github.com/Konsultn-Engineering/composer/ast"
)

// PostProcessor transforms the composed tree after resolution. Processors
// run in registration order; each receives the previous one's output.
type PostProcessor func(*ast.SelectStmt) *ast.SelectStmt

// EscapeRegexpPatterns quote-escapes the string pattern on the right side of
// every regexp comparison so user input matches literally. Walks nested
// subqueries, join conditions and the union chain.
func EscapeRegexpPatterns(stmt *ast.SelectStmt) *ast.SelectStmt {
	escapeRegexpInSelect(stmt)
	return stmt
}

func escapeRegexpInSelect(stmt *ast.SelectStmt) {
	if stmt == nil {
		return
	}
	for _, c := range stmt.Columns {
		escapeRegexpInNode(c.Expr)
	}
	for _, f := range stmt.From {
		escapeRegexpInNode(f.Source)
		for _, j := range f.Joins {
			escapeRegexpInNode(j.On)
		}
	}
	escapeRegexpInNode(stmt.Where)
	if stmt.GroupBy != nil {
		for _, e := range stmt.GroupBy.Exprs {
			escapeRegexpInNode(e)
		}
		for _, h := range stmt.GroupBy.Having {
			escapeRegexpInNode(h)
		}
	}
	for _, o := range stmt.OrderBy {
		escapeRegexpInNode(o.Expr)
	}
	if stmt.Union != nil {
		escapeRegexpInSelect(stmt.Union.Stmt)
	}
}

func escapeRegexpInNode(n ast.Node) {
	switch e := n.(type) {
	case nil:
	case *ast.BinaryExpr:
		if isRegexpOperator(e.Operator) {
			escapePattern(e.Right)
			escapeRegexpInNode(e.Left)
			return
		}
		escapeRegexpInNode(e.Left)
		escapeRegexpInNode(e.Right)
	case *ast.UnaryExpr:
		escapeRegexpInNode(e.Operand)
	case *ast.LogicalExpr:
		for _, sub := range e.Exprs {
			escapeRegexpInNode(sub)
		}
	case *ast.GroupedExpr:
		escapeRegexpInNode(e.Expr)
	case *ast.Function:
		for _, arg := range e.Args {
			escapeRegexpInNode(arg)
		}
	case *ast.BetweenExpr:
		escapeRegexpInNode(e.Expr)
		escapeRegexpInNode(e.Low)
		escapeRegexpInNode(e.High)
	case *ast.InExpr:
		escapeRegexpInNode(e.Expr)
		for _, v := range e.List {
			escapeRegexpInNode(v)
		}
		if e.Subquery != nil {
			escapeRegexpInSelect(e.Subquery.Stmt)
		}
	case *ast.CaseExpr:
		escapeRegexpInNode(e.Operand)
		for _, w := range e.Whens {
			escapeRegexpInNode(w.When)
			escapeRegexpInNode(w.Then)
		}
		escapeRegexpInNode(e.Else)
	case *ast.SubqueryExpr:
		escapeRegexpInSelect(e.Stmt)
	case *ast.Array:
		for _, v := range e.Values {
			escapeRegexpInNode(v)
		}
	}
}

func isRegexpOperator(op string) bool {
	switch op {
	case ast.OpRegexp, ast.OpNotRegexp, ast.OpRLike:
		return true
	}
	return false
}

func escapePattern(n ast.Node) {
	switch v := n.(type) {
	case *ast.Value:
		if s, ok := v.Val.(string); ok {
			v.Val = regexp.QuoteMeta(s)
		}
	case *ast.Placeholder:
		if !v.Bound {
			return
		}
		if s, ok := v.Value.(string); ok {
			v.Value = regexp.QuoteMeta(s)
		}
	}
}

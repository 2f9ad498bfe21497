package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/ast"
)

func placeholderNames(stmt *ast.SelectStmt) []string {
	found := ScanPlaceholders(stmt)
	names := make([]string, len(found))
	for i, p := range found {
		names[i] = p.Name
	}
	return names
}

func TestScanPlaceholdersClauseOrder(t *testing.T) {
	from := ast.From("users")
	from.Joins = append(from.Joins, ast.InnerJoin("orders",
		ast.Eq(ast.TableCol("orders", "status"), ast.Param("status"))))

	stmt := &ast.SelectStmt{
		Columns: []*ast.ResultColumn{
			{Expr: &ast.Function{Name: "coalesce", Args: []ast.Node{ast.Col("nick"), ast.Param("fallback")}}},
		},
		From:  []*ast.FromTable{from},
		Where: ast.Eq(ast.Col("region"), ast.Param("region")),
		GroupBy: &ast.GroupByClause{
			Exprs:  []ast.Node{ast.Col("region")},
			Having: []ast.Node{ast.Gt(&ast.Function{Name: "count", Args: []ast.Node{ast.Col("id")}}, ast.Param("min"))},
		},
		OrderBy: []*ast.OrderItem{ast.Asc(ast.Param("sortCol"))},
	}

	names := placeholderNames(stmt)

	assert.Equal(t, []string{"fallback", "status", "region", "min", "sortCol"}, names)
}

func TestScanPlaceholdersNestedSubquery(t *testing.T) {
	inner := &ast.SelectStmt{
		Columns: ast.Columns("user_id"),
		From:    []*ast.FromTable{ast.From("orders")},
		Where:   ast.Gt(ast.Col("total"), ast.Param("minTotal")),
	}
	stmt := &ast.SelectStmt{
		Where: ast.And(
			ast.InSubquery(ast.Col("id"), inner),
			ast.Eq(ast.Col("active"), ast.Param("active")),
		),
	}

	names := placeholderNames(stmt)

	assert.Equal(t, []string{"minTotal", "active"}, names)
}

func TestScanPlaceholdersComplexExpressions(t *testing.T) {
	stmt := &ast.SelectStmt{
		Where: ast.And(
			ast.Between(ast.Col("age"), ast.Param("low"), ast.Param("high")),
			ast.In(ast.Col("status")),
			&ast.CaseExpr{
				Whens: []*ast.CaseWhen{{When: ast.Eq(ast.Col("tier"), ast.Param("tier")), Then: ast.NewValue(1)}},
				Else:  ast.NewValue(0),
			},
			ast.Not(&ast.GroupedExpr{Expr: ast.Eq(ast.Col("flag"), ast.Param("flag"))}),
		),
	}

	names := placeholderNames(stmt)

	assert.Equal(t, []string{"low", "high", "tier", "flag"}, names)
}

func TestScanPlaceholdersStableAcrossRuns(t *testing.T) {
	stmt := &ast.SelectStmt{
		Where: ast.And(ast.Eq(ast.Col("a"), ast.Param("x")), ast.Eq(ast.Col("b"), ast.Param("y"))),
	}

	first := placeholderNames(stmt)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, placeholderNames(stmt))
	}
}

func TestScanPlaceholdersReturnsLiveNodes(t *testing.T) {
	stmt := &ast.SelectStmt{Where: ast.Eq(ast.Col("a"), ast.Param("x"))}

	found := ScanPlaceholders(stmt)
	require.Len(t, found, 1)
	found[0].Bind(42)

	rhs := stmt.Where.(*ast.BinaryExpr).Right.(*ast.Placeholder)
	assert.True(t, rhs.Bound)
	assert.Equal(t, 42, rhs.Value)
}

func TestScanPlaceholdersEmptyTree(t *testing.T) {
	assert.Empty(t, ScanPlaceholders(&ast.SelectStmt{}))
	assert.Empty(t, ScanPlaceholders(nil))
}

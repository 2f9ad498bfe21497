package compose

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/ast"
)

func TestApplyGolden(t *testing.T) {
	reg := New(WithBase(&ast.SelectStmt{
		From: []*ast.FromTable{ast.From("users")},
	}))
	reg.Field("email", &ast.SelectStmt{Columns: []*ast.ResultColumn{
		{Expr: ast.TableCol("users", "email"), Alias: "email"},
	}})
	reg.OrderBy("newest", &ast.SelectStmt{OrderBy: []*ast.OrderItem{ast.Desc(ast.Col("created_at"))}})
	reg.Subquery("active", &ast.SelectStmt{
		Where: ast.Eq(ast.Col("status"), ast.Param("value")),
	}).Register("value", 0, VarOpts{Default: "active"})
	require.NoError(t, reg.Err())

	tree, err := reg.Apply(context.Background(), &Params{
		Fields:     []any{"email"},
		Subqueries: map[string]any{"active": true},
		Sorting:    []any{"newest"},
		Limit:      5,
	})
	require.NoError(t, err)

	actual, err := ast.MarshalCanonical(tree)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "user_query", actual)
}

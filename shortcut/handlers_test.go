package shortcut

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/ast"
	"github.com/Konsultn-Engineering/composer/compose"
)

func TestApplyDescriptors(t *testing.T) {
	descs := []Descriptor{
		{Type: KindField, Name: "email", Expression: "users.email", Alias: "email"},
		{Type: KindTable, Name: "order", Join: &JoinSpec{
			Table: "users", On: "orders.user_id = users.id",
		}},
		{Type: KindSubquery, Name: "active", Expression: "status", QueryArg: "value",
			Unknowns: map[string]any{"value": "active"}},
		{Type: KindGroupBy, Name: "byRegion", Expression: "region, city"},
		{Type: KindOrderBy, Name: "newest", Expression: "created_at", Direction: "desc"},
	}

	reg := compose.New()
	require.NoError(t, Apply(reg, descs))
	require.NoError(t, reg.Err())

	tree, err := reg.Apply(context.Background(), &compose.Params{
		Fields:     []any{"email"},
		Tables:     []string{"order"},
		Subqueries: map[string]any{"active": true},
		GroupBy:    []any{"byRegion"},
		Sorting:    []any{"newest"},
	})
	require.NoError(t, err)

	require.Len(t, tree.Columns, 1)
	assert.Equal(t, "email", tree.Columns[0].Alias)

	require.Len(t, tree.From, 1)
	assert.Equal(t, "orders", tree.From[0].Key())
	require.Len(t, tree.From[0].Joins, 1)

	cond := tree.Where.(*ast.BinaryExpr)
	assert.Equal(t, "status", cond.Left.(*ast.Column).Name)
	assert.Equal(t, "active", cond.Right.(*ast.Placeholder).Value)

	require.NotNil(t, tree.GroupBy)
	assert.Len(t, tree.GroupBy.Exprs, 2)

	require.Len(t, tree.OrderBy, 1)
	assert.True(t, tree.OrderBy[0].Desc)
}

func TestApplyUnknownKindSkipped(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: "window", Name: "w"},
		{Type: KindField, Name: "id", Expression: "id"},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Err())

	tree, err := reg.Apply(context.Background(), &compose.Params{Fields: []any{"id"}})
	require.NoError(t, err)
	assert.Len(t, tree.Columns, 1)
}

func TestApplyErrorWrapping(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindField, Name: "broken", Expression: ""},
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "Fail to register field:broken")
}

func TestTableFromTableDerivation(t *testing.T) {
	tests := []struct {
		name     string
		desc     Descriptor
		expected string
	}{
		{"Explicit", Descriptor{Name: "order", FromTable: "order_items"}, "order_items"},
		{"Pluralized", Descriptor{Name: "order"}, "orders"},
		{"PluralizedCompound", Descriptor{Name: "category"}, "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fromTableName(tt.desc))
		})
	}
}

func TestRegisteredExpressionSharing(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindField, Name: "revenue", Expression: "orders.amount", Registered: true},
		{Type: KindOrderBy, Name: "topRevenue", Expression: "$revenue", Direction: "desc"},
	})
	require.NoError(t, err)

	tree, err := reg.Apply(context.Background(), &compose.Params{Sorting: []any{"topRevenue"}})
	require.NoError(t, err)

	require.Len(t, tree.OrderBy, 1)
	col := tree.OrderBy[0].Expr.(*ast.Column)
	assert.Equal(t, "orders", col.Table)
	assert.Equal(t, "amount", col.Name)
}

func TestReadBeforeRegisterFails(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindOrderBy, Name: "early", Expression: "$later"},
		{Type: KindField, Name: "later", Expression: "x", Registered: true},
	})

	require.Error(t, err)
	var nre *NotRegisteredError
	require.ErrorAs(t, err, &nre)
	assert.Equal(t, "later", nre.Name)
	assert.ErrorContains(t, err, "Fail to register orderBy:early")
}

func TestSubqueryOperatorAndFormat(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindSubquery, Name: "search", Expression: "name", Operator: "like",
			QueryArg: "term", Format: "%{{.term}}%"},
	})
	require.NoError(t, err)

	tree, err := reg.Apply(context.Background(), &compose.Params{
		Subqueries: map[string]any{"search": map[string]any{"term": "ann"}},
	})
	require.NoError(t, err)

	cond := tree.Where.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpLike, cond.Operator)
	assert.Equal(t, "%ann%", cond.Right.(*ast.Placeholder).Value)
}

func TestSubqueryUnsupportedOperator(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindSubquery, Name: "bad", Expression: "x", Operator: "<=>"},
	})
	assert.ErrorContains(t, err, "unsupported operator")
}

func TestPrerequisiteTranslated(t *testing.T) {
	reg := compose.New()
	err := Apply(reg, []Descriptor{
		{Type: KindSubquery, Name: "verified", Expression: "verified", QueryArg: "value",
			Unknowns: map[string]any{"value": true}},
		{Type: KindSubquery, Name: "active", Expression: "active", QueryArg: "value",
			Unknowns:     map[string]any{"value": true},
			Prerequisite: []string{"verified"}},
	})
	require.NoError(t, err)

	tree, err := reg.Apply(context.Background(), &compose.Params{
		Subqueries: map[string]any{"active": true},
	})
	require.NoError(t, err)

	group, ok := tree.Where.(*ast.LogicalExpr)
	require.True(t, ok)
	assert.Len(t, group.Exprs, 2)
}

func TestHandlerSetExtend(t *testing.T) {
	var seen []string
	set := NewHandlerSet().Extend("window", func(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
		seen = append(seen, d.Name)
		return nil
	})

	reg := compose.New()
	require.NoError(t, set.Apply(reg, []Descriptor{{Type: "window", Name: "w1"}}))
	assert.Equal(t, []string{"w1"}, seen)
}

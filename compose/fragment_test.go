package compose

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/ast"
)

func activeFragment(t *testing.T) *Fragment {
	t.Helper()
	f, err := newFragment(KindSubquery, "active", &ast.SelectStmt{
		Where: ast.Eq(ast.Col("active"), ast.Param("value")),
	}, nil)
	require.NoError(t, err)
	return f
}

func TestNewFragmentSources(t *testing.T) {
	t.Run("FixedTree", func(t *testing.T) {
		f, err := newFragment(KindField, "total", &ast.SelectStmt{Columns: ast.Columns("total")}, nil)
		require.NoError(t, err)

		tree, err := f.Apply(context.Background(), &Params{})
		require.NoError(t, err)
		assert.Len(t, tree.Columns, 1)
	})

	t.Run("SourceFunc", func(t *testing.T) {
		f, err := newFragment(KindSubquery, "byUser", func(ctx context.Context, bound any, p *Params) (*ast.SelectStmt, error) {
			return &ast.SelectStmt{Where: ast.Eq(ast.Col("user_id"), ast.NewValue(bound))}, nil
		}, nil)
		require.NoError(t, err)

		p := &Params{Subqueries: map[string]any{"byUser": 7}}
		tree, err := f.ApplyNamed(context.Background(), "byUser", p)
		require.NoError(t, err)
		rhs := tree.Where.(*ast.BinaryExpr).Right.(*ast.Value)
		assert.Equal(t, 7, rhs.Val)
	})

	t.Run("UnsupportedSource", func(t *testing.T) {
		_, err := newFragment(KindField, "bad", 42, nil)
		assert.Error(t, err)
	})
}

func TestFragmentFixedTreeIsolation(t *testing.T) {
	f := activeFragment(t)
	f.Register("value", 0, VarOpts{Default: true})
	p := &Params{Subqueries: map[string]any{"active": true}}

	first, err := f.ApplyNamed(context.Background(), "active", p)
	require.NoError(t, err)
	second, err := f.ApplyNamed(context.Background(), "active", p)
	require.NoError(t, err)

	// Each application binds its own copy of the tree.
	require.NotSame(t, first, second)
	assert.True(t, first.Where.(*ast.BinaryExpr).Right.(*ast.Placeholder).Bound)
	assert.False(t, f.tree.Where.(*ast.BinaryExpr).Right.(*ast.Placeholder).Bound)
}

func TestFragmentDefault(t *testing.T) {
	t.Run("NoVariables", func(t *testing.T) {
		f := activeFragment(t)
		assert.Equal(t, true, f.Default())
	})

	t.Run("WithVariables", func(t *testing.T) {
		f := activeFragment(t)
		f.Register("value", 0, VarOpts{Default: true})

		assert.Equal(t, map[string]any{"value": true}, f.Default())
	})
}

func TestFragmentBinding(t *testing.T) {
	newRange := func(t *testing.T) *Fragment {
		t.Helper()
		f, err := newFragment(KindSubquery, "ageRange", &ast.SelectStmt{
			Where: ast.Between(ast.Col("age"), ast.Param("low"), ast.Param("high")),
		}, nil)
		require.NoError(t, err)
		f.Register("low", 0, VarOpts{Default: 18})
		f.Register("high", 1, VarOpts{Default: 65})
		return f
	}

	boundValues := func(tree *ast.SelectStmt) []any {
		phs := ScanPlaceholders(tree)
		out := make([]any, len(phs))
		for i, ph := range phs {
			out[i] = ph.Value
		}
		return out
	}

	t.Run("TrueSelectsDefaults", func(t *testing.T) {
		f := newRange(t)
		p := &Params{Subqueries: map[string]any{"ageRange": true}}

		tree, err := f.ApplyNamed(context.Background(), "ageRange", p)
		require.NoError(t, err)
		assert.Equal(t, []any{18, 65}, boundValues(tree))
	})

	t.Run("MapMergesOverDefaults", func(t *testing.T) {
		f := newRange(t)
		p := &Params{Subqueries: map[string]any{"ageRange": map[string]any{"high": 30}}}

		tree, err := f.ApplyNamed(context.Background(), "ageRange", p)
		require.NoError(t, err)
		assert.Equal(t, []any{18, 30}, boundValues(tree))
	})

	t.Run("ScalarWrappedAsValue", func(t *testing.T) {
		f := activeFragment(t)
		f.Register("value", 0)
		p := &Params{Subqueries: map[string]any{"active": "yes"}}

		tree, err := f.ApplyNamed(context.Background(), "active", p)
		require.NoError(t, err)
		assert.Equal(t, []any{"yes"}, boundValues(tree))
	})

	t.Run("UnregisteredIndexStaysUnbound", func(t *testing.T) {
		f := newRange(t)
		f.vars = f.vars[:1] // only "low" registered

		p := &Params{Subqueries: map[string]any{"ageRange": true}}
		tree, err := f.ApplyNamed(context.Background(), "ageRange", p)
		require.NoError(t, err)

		phs := ScanPlaceholders(tree)
		assert.True(t, phs[0].Bound)
		assert.False(t, phs[1].Bound)
	})
}

func TestFragmentFormat(t *testing.T) {
	f, err := newFragment(KindSubquery, "search", &ast.SelectStmt{
		Where: ast.Like(ast.Col("name"), ast.Param("term")),
	}, nil)
	require.NoError(t, err)
	f.Register("term", 0, VarOpts{
		Default: "",
		Format: func(value map[string]any) (any, error) {
			return fmt.Sprintf("%%%v%%", value["term"]), nil
		},
	})

	p := &Params{Subqueries: map[string]any{"search": map[string]any{"term": "ann"}}}
	tree, err := f.ApplyNamed(context.Background(), "search", p)
	require.NoError(t, err)

	ph := ScanPlaceholders(tree)[0]
	assert.Equal(t, "%ann%", ph.Value)
}

func TestFragmentFormatError(t *testing.T) {
	f := activeFragment(t)
	f.Register("value", 0, VarOpts{
		Format: func(map[string]any) (any, error) { return nil, fmt.Errorf("boom") },
	})

	p := &Params{Subqueries: map[string]any{"active": true}}
	_, err := f.ApplyNamed(context.Background(), "active", p)
	assert.ErrorContains(t, err, "boom")
}

func TestFragmentClone(t *testing.T) {
	f := activeFragment(t)
	f.Register("value", 0, VarOpts{Default: true})

	clone := f.Clone()

	require.NotSame(t, f, clone)
	assert.Equal(t, f.Name(), clone.Name())
	assert.Equal(t, f.Kind(), clone.Kind())
	assert.NotSame(t, f.tree, clone.tree)

	// Binding through the clone leaves the original's tree untouched.
	p := &Params{Subqueries: map[string]any{"active": true}}
	_, err := clone.ApplyNamed(context.Background(), "active", p)
	require.NoError(t, err)
	assert.False(t, f.tree.Where.(*ast.BinaryExpr).Right.(*ast.Placeholder).Bound)
}

func TestKindKeys(t *testing.T) {
	assert.Equal(t, "field:total", KindField.key("total"))
	assert.Equal(t, "table:orders", KindTable.key("orders"))
	assert.Equal(t, "groupBy:region", KindGroupBy.key("region"))
	assert.Equal(t, "orderBy:newest", KindOrderBy.key("newest"))
	assert.Equal(t, "active", KindSubquery.key("active"))
}

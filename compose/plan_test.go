package compose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/ast"
)

func TestPlanKeyIgnoresUnregisteredNames(t *testing.T) {
	reg := New()
	reg.Subquery("active", filterTree("active"))
	require.NoError(t, reg.Err())

	with := &Params{Subqueries: map[string]any{"active": true}, Tables: []string{"nowhere"}}
	without := &Params{Subqueries: map[string]any{"active": true}}

	assert.Equal(t, reg.planKey(without), reg.planKey(with))
}

func TestPlanKeyDistinguishesSeedSets(t *testing.T) {
	reg := New()
	reg.Subquery("active", filterTree("active"))
	reg.Subquery("verified", filterTree("verified"))
	require.NoError(t, reg.Err())

	a := &Params{Subqueries: map[string]any{"active": true}}
	b := &Params{Subqueries: map[string]any{"verified": true}}

	assert.NotEqual(t, reg.planKey(a), reg.planKey(b))
}

func TestPlanCacheHitMatchesColdResult(t *testing.T) {
	reg := userRegistry(t)
	reg.Subquery("withPatch", filterTree("patched"),
		WithPrerequisite(Patch{Params: &Params{Fields: []any{"fullName"}}}))
	require.NoError(t, reg.Err())

	params := &Params{Subqueries: map[string]any{"withPatch": true, "active": true}}

	cold, err := reg.Apply(context.Background(), params)
	require.NoError(t, err)
	coldBytes, err := ast.MarshalCanonical(cold)
	require.NoError(t, err)

	// The second run hits the plan cache and replays the recorded patch.
	warm, err := reg.Apply(context.Background(), params)
	require.NoError(t, err)
	warmBytes, err := ast.MarshalCanonical(warm)
	require.NoError(t, err)

	assert.Equal(t, string(coldBytes), string(warmBytes))
}

func TestPlanCacheBypassedWithDynamicPrerequisite(t *testing.T) {
	var fired int
	reg := New()
	reg.Subquery("verified", filterTree("verified"))
	reg.Subquery("active", filterTree("active"), WithPrerequisite(Dynamic(
		func(ctx context.Context, p *Params) (Prerequisite, error) {
			fired++
			return Names{"verified"}, nil
		})))
	require.NoError(t, reg.Err())

	params := &Params{Subqueries: map[string]any{"active": true}}
	for i := 0; i < 3; i++ {
		_, err := reg.Apply(context.Background(), params)
		require.NoError(t, err)
	}

	// Every apply re-walks the graph; nothing was cached.
	assert.Equal(t, 3, fired)
}

func TestPlanCachePurgedOnRegistration(t *testing.T) {
	reg := New()
	reg.Subquery("active", filterTree("active"))
	require.NoError(t, reg.Err())

	params := &Params{Subqueries: map[string]any{"active": true, "late": true}}
	first, err := reg.Apply(context.Background(), params)
	require.NoError(t, err)
	assert.NotNil(t, first.Where)

	// A fragment registered after a cached walk must still take effect.
	reg.Subquery("late", filterTree("late"))
	require.NoError(t, reg.Err())

	second, err := reg.Apply(context.Background(), params)
	require.NoError(t, err)
	group, ok := second.Where.(*ast.LogicalExpr)
	require.True(t, ok)
	assert.Len(t, group.Exprs, 2)
}

func TestPlanCacheDisabled(t *testing.T) {
	reg := New(WithPlanCacheSize(0))
	reg.Subquery("active", filterTree("active"))
	require.NoError(t, reg.Err())

	params := &Params{Subqueries: map[string]any{"active": true}}
	for i := 0; i < 2; i++ {
		tree, err := reg.Apply(context.Background(), params)
		require.NoError(t, err)
		assert.NotNil(t, tree.Where)
	}
}

package shortcut

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/composer/compose"
)

const descriptorYAML = `
- type: field
  name: email
  expression: users.email
  alias: email
- type: table
  name: order
  join:
    kind: left
    table: users
    on: orders.user_id = users.id
- type: subquery
  name: active
  expression: status
  queryArg: value
  unknowns:
    value: active
- type: orderBy
  name: newest
  expression: created_at
  direction: desc
`

const paramsYAML = `
distinct: true
fields:
  - email
tables:
  - order
subqueries:
  active: true
sorting:
  - newest
  - key: email
    direction: desc
limit: 25
`

func TestLoadDescriptors(t *testing.T) {
	descs, err := LoadDescriptors(strings.NewReader(descriptorYAML))
	require.NoError(t, err)

	require.Len(t, descs, 4)
	assert.Equal(t, KindField, descs[0].Type)
	assert.Equal(t, "users.email", descs[0].Expression)
	require.NotNil(t, descs[1].Join)
	assert.Equal(t, "left", descs[1].Join.Kind)
	assert.Equal(t, map[string]any{"value": "active"}, descs[2].Unknowns)
	assert.Equal(t, "desc", descs[3].Direction)
}

func TestLoadParams(t *testing.T) {
	p, err := LoadParams(strings.NewReader(paramsYAML))
	require.NoError(t, err)

	assert.True(t, p.Distinct)
	assert.Equal(t, []any{"email"}, p.Fields)
	assert.Equal(t, []string{"order"}, p.Tables)
	assert.Equal(t, map[string]any{"active": true}, p.Subqueries)
	require.Len(t, p.Sorting, 2)
	assert.Equal(t, "newest", p.Sorting[0])
	assert.Equal(t, compose.SortKey{Key: "email", Direction: "desc"}, p.Sorting[1])
	assert.Equal(t, 25, p.Limit)
}

func TestLoadDescriptorsInvalid(t *testing.T) {
	_, err := LoadDescriptors(strings.NewReader("type: not-a-list"))
	assert.Error(t, err)
}

func TestYAMLRoundTripThroughApply(t *testing.T) {
	descs, err := LoadDescriptors(strings.NewReader(descriptorYAML))
	require.NoError(t, err)
	params, err := LoadParams(strings.NewReader(paramsYAML))
	require.NoError(t, err)

	reg := compose.New()
	require.NoError(t, Apply(reg, descs))

	tree, err := reg.Apply(context.Background(), params)
	require.NoError(t, err)

	assert.True(t, tree.Distinct)
	assert.Len(t, tree.Columns, 1)
	require.Len(t, tree.From, 1)
	assert.Len(t, tree.From[0].Joins, 1)
	assert.NotNil(t, tree.Where)
	require.Len(t, tree.OrderBy, 2)
	assert.True(t, tree.OrderBy[0].Desc)
	assert.True(t, tree.OrderBy[1].Desc)
	require.NotNil(t, tree.Limit)
	assert.Equal(t, 25, tree.Limit.Count)
}

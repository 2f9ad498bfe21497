package shortcut

import (
	"fmt"

	"github.com/Konsultn-Engineering/composer/ast"
)

// NotRegisteredError reports a read of a shared expression before any
// descriptor published it.
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("shortcut expression %q not registered", e.Name)
}

// ExprTable is the shared two-phase lookup table for descriptor expressions.
// Descriptors with the Registered flag publish their built expression here;
// later descriptors reference it with a "$name" expression. Reads are strict:
// an unpublished name errors at read time, not at table construction.
type ExprTable struct {
	exprs map[string]ast.Node
}

func NewExprTable() *ExprTable {
	return &ExprTable{exprs: make(map[string]ast.Node)}
}

func (t *ExprTable) Set(name string, expr ast.Node) {
	t.exprs[name] = expr
}

func (t *ExprTable) Get(name string) (ast.Node, error) {
	expr, ok := t.exprs[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name}
	}
	return ast.CloneNode(expr), nil
}

package shortcut

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/composer/ast"
)

// Descriptor kinds. Each kind maps onto one registration call; the mapping
// lives in the HandlerSet.
const (
	KindField    = "field"
	KindTable    = "table"
	KindSubquery = "subquery"
	KindGroupBy  = "groupBy"
	KindOrderBy  = "orderBy"
)

// Descriptor is one declarative registration. Type and Name are required;
// the rest is kind-specific:
//
//	field:    Expression (select column), Alias, optional Registered
//	table:    FromTable (defaults to the pluralized name), optional Join
//	subquery: Expression, Operator (default "="), QueryArg, Unknowns, Format
//	groupBy:  Expression, one or many comma-separated
//	orderBy:  Expression, Direction ("asc"/"desc")
//
// Expression strings are column references: "column", "table.column", or
// "$name" reading a previously published expression from the shared table.
type Descriptor struct {
	Type         string         `yaml:"type"`
	Name         string         `yaml:"name"`
	Prerequisite []string       `yaml:"prerequisite,omitempty"`
	Expression   string         `yaml:"expression,omitempty"`
	Alias        string         `yaml:"alias,omitempty"`
	Operator     string         `yaml:"operator,omitempty"`
	QueryArg     string         `yaml:"queryArg,omitempty"`
	FromTable    string         `yaml:"fromTable,omitempty"`
	Join         *JoinSpec      `yaml:"join,omitempty"`
	Unknowns     map[string]any `yaml:"unknowns,omitempty"`
	Direction    string         `yaml:"direction,omitempty"`
	Format       string         `yaml:"format,omitempty"`
	Registered   bool           `yaml:"registered,omitempty"`
}

// JoinSpec declares one join on a table descriptor.
type JoinSpec struct {
	Kind  string `yaml:"kind,omitempty"` // "inner" (default) or "left"
	Table string `yaml:"table"`
	On    string `yaml:"on"` // "left.col = right.col"
}

// parseExpr resolves an expression string against the shared table.
func parseExpr(expr string, exprs *ExprTable) (ast.Node, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	if name, ok := strings.CutPrefix(expr, "$"); ok {
		return exprs.Get(name)
	}
	if table, column, ok := strings.Cut(expr, "."); ok {
		return ast.TableCol(table, column), nil
	}
	return ast.Col(expr), nil
}

func parseJoinOn(on string) (ast.Node, error) {
	left, right, ok := strings.Cut(on, "=")
	if !ok {
		return nil, fmt.Errorf("join condition %q: want \"left.col = right.col\"", on)
	}
	lt, lc, lok := strings.Cut(strings.TrimSpace(left), ".")
	rt, rc, rok := strings.Cut(strings.TrimSpace(right), ".")
	if !lok || !rok {
		return nil, fmt.Errorf("join condition %q: both sides must be table-qualified", on)
	}
	return ast.JoinOn(lt, lc, rt, rc), nil
}

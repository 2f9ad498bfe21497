package shortcut

import (
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/Konsultn-Engineering/composer/ast"
	"github.com/Konsultn-Engineering/composer/compose"
)

// Handler translates one descriptor into registration calls.
type Handler func(h *HandlerSet, reg *compose.Registry, d Descriptor) error

// HandlerSet maps descriptor kinds to handlers. Instance-scoped: callers
// that need extra kinds construct their own set and extend it; there is no
// process-wide handler state.
type HandlerSet struct {
	logger   *slog.Logger
	exprs    *ExprTable
	handlers map[string]Handler
}

type Option func(*HandlerSet)

func WithLogger(l *slog.Logger) Option {
	return func(h *HandlerSet) { h.logger = l }
}

// WithExprTable shares an expression table across handler sets.
func WithExprTable(t *ExprTable) Option {
	return func(h *HandlerSet) { h.exprs = t }
}

func NewHandlerSet(opts ...Option) *HandlerSet {
	h := &HandlerSet{
		logger: slog.Default(),
		exprs:  NewExprTable(),
		handlers: map[string]Handler{
			KindField:    handleField,
			KindTable:    handleTable,
			KindSubquery: handleSubquery,
			KindGroupBy:  handleGroupBy,
			KindOrderBy:  handleOrderBy,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Extend adds or replaces the handler for a kind and returns the set.
func (h *HandlerSet) Extend(kind string, fn Handler) *HandlerSet {
	h.handlers[kind] = fn
	return h
}

// Exprs exposes the shared expression table.
func (h *HandlerSet) Exprs() *ExprTable { return h.exprs }

// Apply translates the descriptors in order. Unknown kinds warn and are
// skipped; any other failure aborts, wrapped with the descriptor identity.
func (h *HandlerSet) Apply(reg *compose.Registry, descs []Descriptor) error {
	for _, d := range descs {
		fn, ok := h.handlers[d.Type]
		if !ok {
			h.logger.Warn("unknown shortcut kind, skipping", "type", d.Type, "name", d.Name)
			continue
		}
		if err := fn(h, reg, d); err != nil {
			return fmt.Errorf("%w. Fail to register %s:%s", err, d.Type, d.Name)
		}
	}
	return nil
}

// Apply translates descriptors with a fresh default handler set.
func Apply(reg *compose.Registry, descs []Descriptor, opts ...Option) error {
	return NewHandlerSet(opts...).Apply(reg, descs)
}

func registerOpts(d Descriptor) []compose.RegisterOption {
	if len(d.Prerequisite) == 0 {
		return nil
	}
	return []compose.RegisterOption{compose.WithCompanions(d.Prerequisite...)}
}

func handleField(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
	expr, err := parseExpr(d.Expression, h.exprs)
	if err != nil {
		return err
	}
	tree := &ast.SelectStmt{Columns: []*ast.ResultColumn{{Expr: expr, Alias: d.Alias}}}
	reg.Field(d.Name, tree, registerOpts(d)...)
	if d.Registered {
		h.exprs.Set(d.Name, expr)
	}
	return nil
}

func handleTable(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
	entry := ast.From(fromTableName(d))
	if d.Join != nil {
		on, err := parseJoinOn(d.Join.On)
		if err != nil {
			return err
		}
		switch d.Join.Kind {
		case "", "inner":
			entry.Joins = append(entry.Joins, ast.InnerJoin(d.Join.Table, on))
		case "left":
			entry.Joins = append(entry.Joins, ast.LeftJoin(d.Join.Table, on))
		default:
			return fmt.Errorf("unsupported join kind %q", d.Join.Kind)
		}
	}
	reg.Table(d.Name, &ast.SelectStmt{From: []*ast.FromTable{entry}}, registerOpts(d)...)
	return nil
}

var subqueryOperators = map[string]string{
	"":       ast.OpEqual,
	"=":      ast.OpEqual,
	"!=":     ast.OpNotEqual,
	"<":      ast.OpLessThan,
	"<=":     ast.OpLessThanOrEqual,
	">":      ast.OpGreaterThan,
	">=":     ast.OpGreaterThanOrEqual,
	"like":   ast.OpLike,
	"regexp": ast.OpRegexp,
}

func handleSubquery(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
	expr, err := parseExpr(d.Expression, h.exprs)
	if err != nil {
		return err
	}
	op, ok := subqueryOperators[strings.ToLower(d.Operator)]
	if !ok {
		return fmt.Errorf("unsupported operator %q", d.Operator)
	}
	arg := d.QueryArg
	if arg == "" {
		arg = "value"
	}
	tree := &ast.SelectStmt{
		Where: &ast.BinaryExpr{Left: expr, Operator: op, Right: ast.Param(arg)},
	}
	frag := reg.Subquery(d.Name, tree, registerOpts(d)...)
	opts := compose.VarOpts{Default: d.Unknowns[arg]}
	if d.Format != "" {
		fn, err := formatFunc(d.Name, d.Format)
		if err != nil {
			return err
		}
		opts.Format = fn
	}
	frag.Register(arg, 0, opts)
	if d.Registered {
		h.exprs.Set(d.Name, expr)
	}
	return nil
}

func handleGroupBy(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
	var exprs []ast.Node
	for _, part := range strings.Split(d.Expression, ",") {
		expr, err := parseExpr(part, h.exprs)
		if err != nil {
			return err
		}
		exprs = append(exprs, expr)
	}
	tree := &ast.SelectStmt{GroupBy: &ast.GroupByClause{Exprs: exprs}}
	reg.GroupBy(d.Name, tree, registerOpts(d)...)
	return nil
}

func handleOrderBy(h *HandlerSet, reg *compose.Registry, d Descriptor) error {
	expr, err := parseExpr(d.Expression, h.exprs)
	if err != nil {
		return err
	}
	item := ast.Asc(expr)
	item.Desc = strings.EqualFold(d.Direction, compose.DirectionDesc)
	tree := &ast.SelectStmt{OrderBy: []*ast.OrderItem{item}}
	reg.OrderBy(d.Name, tree, registerOpts(d)...)
	return nil
}

// formatFunc compiles a descriptor format template into a variable
// formatter. The template renders against the effective bound-value map:
// `%{{.value}}%` turns a term into a LIKE pattern.
func formatFunc(name, format string) (compose.FormatFunc, error) {
	tmpl, err := template.New(name).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("format template: %w", err)
	}
	return func(value map[string]any) (any, error) {
		var sb strings.Builder
		if err := tmpl.Execute(&sb, value); err != nil {
			return nil, fmt.Errorf("format template: %w", err)
		}
		return sb.String(), nil
	}, nil
}

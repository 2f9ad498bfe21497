package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/composer/ast"
)

const defaultPlanCacheSize = 128

// DefaultSubqueryName is the fragment auto-activated on every Apply unless
// the caller opts out.
const DefaultSubqueryName = "default"

// BaseFunc resolves the base query template from the normalized params.
type BaseFunc func(ctx context.Context, p *Params) (*ast.SelectStmt, error)

// Registry owns the fragment set and the base template. Registration is a
// single-writer setup phase; Apply only reads the registry and deep-copies
// its params, so concurrent Apply calls are independent.
type Registry struct {
	id      ulid.ULID
	logger  *slog.Logger
	base    *ast.SelectStmt
	baseFn  BaseFunc
	frags   map[string]*Fragment
	post    []PostProcessor
	plans   *lru.Cache[uint64, *plan]
	dynamic int // registered fragments carrying a dynamic prerequisite
	errs    []error
}

type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithBase sets a fixed base template. Its unqualified `*` select wildcard,
// if any, is discarded at apply time: fragments supply explicit columns.
func WithBase(tree *ast.SelectStmt) Option {
	return func(r *Registry) { r.base = tree }
}

func WithBaseFunc(fn BaseFunc) Option {
	return func(r *Registry) { r.baseFn = fn }
}

func WithPlanCacheSize(n int) Option {
	return func(r *Registry) {
		if n <= 0 {
			r.plans = nil
			return
		}
		r.plans, _ = lru.New[uint64, *plan](n)
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		id:     ulid.Make(),
		logger: slog.Default(),
		frags:  make(map[string]*Fragment),
	}
	r.plans, _ = lru.New[uint64, *plan](defaultPlanCacheSize)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID is the registry's creation identity, carried on every log line.
func (r *Registry) ID() string { return r.id.String() }

// Err reports accumulated configuration errors. Apply fails fast on them.
func (r *Registry) Err() error { return errors.Join(r.errs...) }

type registerConfig struct {
	overwrite bool
	prereq    Prerequisite
}

type RegisterOption func(*registerConfig)

// Overwrite allows replacing an existing registration; the replacement is
// still logged as a warning.
func Overwrite() RegisterOption {
	return func(c *registerConfig) { c.overwrite = true }
}

func WithPrerequisite(p Prerequisite) RegisterOption {
	return func(c *registerConfig) { c.prereq = MergePrerequisites(c.prereq, p) }
}

// WithCompanions is shorthand for a plain name-list prerequisite.
func WithCompanions(names ...string) RegisterOption {
	return WithPrerequisite(Names(names))
}

func (r *Registry) Field(name string, src any, opts ...RegisterOption) *Registry {
	r.register(KindField, name, src, opts...)
	return r
}

func (r *Registry) Table(name string, src any, opts ...RegisterOption) *Registry {
	r.register(KindTable, name, src, opts...)
	return r
}

func (r *Registry) GroupBy(name string, src any, opts ...RegisterOption) *Registry {
	r.register(KindGroupBy, name, src, opts...)
	return r
}

func (r *Registry) OrderBy(name string, src any, opts ...RegisterOption) *Registry {
	r.register(KindOrderBy, name, src, opts...)
	return r
}

// Subquery registers a sub-filter fragment and returns it so variables can
// be registered immediately. On a configuration error the returned fragment
// is detached from the registry and the error surfaces via Err / Apply.
func (r *Registry) Subquery(name string, src any, opts ...RegisterOption) *Fragment {
	f := r.register(KindSubquery, name, src, opts...)
	if f == nil {
		f = &Fragment{name: name, kind: KindSubquery, logger: r.logger}
	}
	return f
}

// PostProcess appends a tree transform run after every Apply, in
// registration order.
func (r *Registry) PostProcess(p PostProcessor) *Registry {
	r.post = append(r.post, p)
	return r
}

func (r *Registry) register(kind Kind, name string, src any, opts ...RegisterOption) *Fragment {
	cfg := registerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if name == "" {
		r.errs = append(r.errs, fmt.Errorf("%w (kind %q)", ErrNameRequired, kind.prefix()))
		return nil
	}
	if strings.Contains(name, ":") {
		r.errs = append(r.errs, fmt.Errorf("%w: %q", ErrReservedDelimiter, name))
		return nil
	}
	key := kind.key(name)
	if _, exists := r.frags[key]; exists {
		if !cfg.overwrite {
			r.errs = append(r.errs, fmt.Errorf("%w: %q", ErrDuplicateFragment, key))
			return nil
		}
		r.logger.Warn("overwriting registered fragment", "registry_id", r.ID(), "key", key)
	}
	f, err := newFragment(kind, name, src, cfg.prereq)
	if err != nil {
		r.errs = append(r.errs, err)
		return nil
	}
	f.logger = r.logger
	if _, ok := cfg.prereq.(Dynamic); ok {
		r.dynamic++
	}
	r.frags[key] = f
	if r.plans != nil {
		r.plans.Purge()
	}
	return f
}

// Clone duplicates the registry: fragments are deep-copied, the plan cache
// starts empty, the clone gets its own identity.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		id:      ulid.Make(),
		logger:  r.logger,
		base:    ast.CloneSelect(r.base),
		baseFn:  r.baseFn,
		frags:   make(map[string]*Fragment, len(r.frags)),
		post:    append([]PostProcessor(nil), r.post...),
		dynamic: r.dynamic,
		errs:    append([]error(nil), r.errs...),
	}
	out.plans, _ = lru.New[uint64, *plan](defaultPlanCacheSize)
	for key, f := range r.frags {
		out.frags[key] = f.Clone()
	}
	return out
}

type applyConfig struct {
	withDefault   bool
	skipDefFields bool
}

type ApplyOption func(*applyConfig)

// WithoutDefaultSubquery disables auto-activation of the fragment named
// "default".
func WithoutDefaultSubquery() ApplyOption {
	return func(c *applyConfig) { c.withDefault = false }
}

// SkipUndefinedFields drops field names with no registered fragment instead
// of synthesizing a plain column for them.
func SkipUndefinedFields() ApplyOption {
	return func(c *applyConfig) { c.skipDefFields = true }
}

// Apply resolves the params against the registry into one composite tree.
// All-or-nothing: any resolution error aborts with no partial result.
func (r *Registry) Apply(ctx context.Context, params *Params, opts ...ApplyOption) (*ast.SelectStmt, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	cfg := applyConfig{withDefault: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if params == nil {
		params = &Params{}
	}
	p := params.Clone()
	log := r.logger.With("registry_id", r.ID(), "apply_id", uuid.NewString())

	companions, err := r.resolveClosure(ctx, p)
	if err != nil {
		return nil, err
	}
	subqueryOrder := r.classify(p, companions)

	if cfg.withDefault {
		if _, ok := r.frags[DefaultSubqueryName]; ok {
			// A caller-supplied bound value for "default" is kept as-is.
			if _, present := p.Subqueries[DefaultSubqueryName]; !present {
				p.Subqueries[DefaultSubqueryName] = true
				subqueryOrder = append(subqueryOrder, DefaultSubqueryName)
			}
		}
	}

	base, err := r.resolveBase(ctx, p)
	if err != nil {
		return nil, err
	}
	base.Distinct = base.Distinct || p.Distinct

	if err := r.resolveFields(ctx, log, base, p, cfg); err != nil {
		return nil, err
	}
	if err := r.resolveTables(ctx, base, p); err != nil {
		return nil, err
	}
	if err := r.resolveSubqueries(ctx, base, p, subqueryOrder); err != nil {
		return nil, err
	}
	if p.Conditions != nil {
		base.Where = mergeConditions(base.Where, p.Conditions)
	}
	if err := r.resolveGroupBy(ctx, log, base, p); err != nil {
		return nil, err
	}
	CollapseHaving(base)
	if err := r.resolveSorting(ctx, base, p); err != nil {
		return nil, err
	}
	r.resolveLimit(log, base, p)

	for _, pp := range r.post {
		base = pp(base)
	}
	return base, nil
}

// classify splits the ordered companion keys by kind and appends the missing
// ones onto the corresponding params entry, de-duplicated, preserving first
// occurrence. Returns the sub-filter application order: the caller's keys
// (sorted) followed by closure-discovered ones.
func (r *Registry) classify(p *Params, companions []string) []string {
	callerKeys := make([]string, 0, len(p.Subqueries))
	for k := range p.Subqueries {
		callerKeys = append(callerKeys, k)
	}
	sort.Strings(callerKeys)
	subqueryOrder := callerKeys

	for _, key := range companions {
		switch {
		case strings.HasPrefix(key, "field:"):
			name := strings.TrimPrefix(key, "field:")
			if !containsFieldName(p.Fields, name) {
				p.Fields = append(p.Fields, name)
			}
		case strings.HasPrefix(key, "table:"):
			name := strings.TrimPrefix(key, "table:")
			if !containsString(p.Tables, name) {
				p.Tables = append(p.Tables, name)
			}
		case strings.HasPrefix(key, "groupBy:"):
			name := strings.TrimPrefix(key, "groupBy:")
			if !containsFieldName(p.GroupBy, name) {
				p.GroupBy = append(p.GroupBy, name)
			}
		case strings.HasPrefix(key, "orderBy:"):
			name := strings.TrimPrefix(key, "orderBy:")
			if !containsSortKey(p.Sorting, name) {
				p.Sorting = append(p.Sorting, name)
			}
		default:
			if _, ok := p.Subqueries[key]; !ok {
				p.Subqueries[key] = true
				subqueryOrder = append(subqueryOrder, key)
			}
		}
	}
	return subqueryOrder
}

func (r *Registry) resolveBase(ctx context.Context, p *Params) (*ast.SelectStmt, error) {
	var base *ast.SelectStmt
	switch {
	case r.baseFn != nil:
		tree, err := r.baseFn(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("base template: %w", err)
		}
		base = tree
	case r.base != nil:
		base = ast.CloneSelect(r.base)
	}
	if base == nil {
		base = &ast.SelectStmt{}
	}
	// The template's own wildcard select is discarded; fragments supply
	// explicit columns.
	cols := base.Columns[:0]
	for _, rc := range base.Columns {
		if c, ok := rc.Expr.(*ast.Column); ok && c.Name == "*" && c.Table == "" {
			continue
		}
		cols = append(cols, rc)
	}
	base.Columns = cols
	return base, nil
}

func (r *Registry) resolveFields(ctx context.Context, log *slog.Logger, base *ast.SelectStmt, p *Params, cfg applyConfig) error {
	for _, entry := range p.Fields {
		switch e := entry.(type) {
		case string:
			f, ok := r.frags[KindField.key(e)]
			if !ok {
				if cfg.skipDefFields {
					continue
				}
				base.Columns = append(base.Columns, &ast.ResultColumn{Expr: ast.Col(e)})
				continue
			}
			tree, err := f.Apply(ctx, p)
			if err != nil {
				return fmt.Errorf("field fragment %q: %w", e, err)
			}
			if tree == nil || len(tree.Columns) == 0 {
				log.Warn("field fragment produced no columns", "field", e)
				continue
			}
			base.Columns = append(base.Columns, tree.Columns...)
		case [2]string:
			base.Columns = append(base.Columns, &ast.ResultColumn{Expr: ast.TableCol(e[0], e[1])})
		case []string:
			if len(e) == 2 {
				base.Columns = append(base.Columns, &ast.ResultColumn{Expr: ast.TableCol(e[0], e[1])})
			} else {
				log.Warn("unparsable field entry", "entry", e)
			}
		case FieldRef:
			base.Columns = append(base.Columns, &ast.ResultColumn{
				Expr:  ast.TableCol(e.Table, e.Column),
				Alias: e.Alias,
			})
		case *ast.ResultColumn:
			base.Columns = append(base.Columns, e)
		case ast.Node:
			base.Columns = append(base.Columns, &ast.ResultColumn{Expr: e})
		default:
			log.Warn("unparsable field entry", "entry", fmt.Sprintf("%T", entry))
		}
	}
	return nil
}

func (r *Registry) resolveTables(ctx context.Context, base *ast.SelectStmt, p *Params) error {
	for _, name := range p.Tables {
		f, ok := r.frags[KindTable.key(name)]
		if !ok {
			// Unlike fields, unregistered table names have no fallback.
			continue
		}
		tree, err := f.Apply(ctx, p)
		if err != nil {
			return fmt.Errorf("table fragment %q: %w", name, err)
		}
		Merge(base, tree)
	}
	return nil
}

func (r *Registry) resolveSubqueries(ctx context.Context, base *ast.SelectStmt, p *Params, order []string) error {
	for _, key := range order {
		f, ok := r.frags[key]
		if !ok {
			continue
		}
		tree, err := f.ApplyNamed(ctx, key, p)
		if err != nil {
			return fmt.Errorf("subquery fragment %q: %w", key, err)
		}
		Merge(base, tree)
	}
	return nil
}

func (r *Registry) resolveGroupBy(ctx context.Context, log *slog.Logger, base *ast.SelectStmt, p *Params) error {
	for _, entry := range p.GroupBy {
		switch e := entry.(type) {
		case string:
			f, ok := r.frags[KindGroupBy.key(e)]
			if !ok {
				ensureGroupBy(base)
				base.GroupBy.Exprs = append(base.GroupBy.Exprs, ast.Col(e))
				continue
			}
			tree, err := f.Apply(ctx, p)
			if err != nil {
				return fmt.Errorf("group-by fragment %q: %w", e, err)
			}
			if tree == nil || tree.GroupBy == nil || len(tree.GroupBy.Exprs) == 0 {
				log.Warn("group-by fragment produced no group expressions", "groupBy", e)
				continue
			}
			Merge(base, tree)
		case *ast.GroupByClause:
			ensureGroupBy(base)
			base.GroupBy.Exprs = append(base.GroupBy.Exprs, e.Exprs...)
			base.GroupBy.Having = append(base.GroupBy.Having, e.Having...)
		case ast.Node:
			ensureGroupBy(base)
			base.GroupBy.Exprs = append(base.GroupBy.Exprs, e)
		default:
			log.Warn("unparsable group-by entry", "entry", fmt.Sprintf("%T", entry))
		}
	}
	return nil
}

func (r *Registry) resolveSorting(ctx context.Context, base *ast.SelectStmt, p *Params) error {
	for _, entry := range p.Sorting {
		var key, direction string
		switch e := entry.(type) {
		case string:
			key = e
		case SortKey:
			key, direction = e.Key, e.Direction
		case *ast.OrderItem:
			base.OrderBy = append(base.OrderBy, e)
			continue
		default:
			return fmt.Errorf("unparsable sort entry %T", entry)
		}
		f, ok := r.frags[KindOrderBy.key(key)]
		if !ok {
			item := ast.Asc(ast.Col(key))
			item.Desc = direction == DirectionDesc
			base.OrderBy = append(base.OrderBy, item)
			continue
		}
		tree, err := f.Apply(ctx, p)
		if err != nil {
			return fmt.Errorf("order-by fragment %q: %w", key, err)
		}
		if tree == nil || len(tree.OrderBy) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptyOrderFragment, key)
		}
		// An explicit caller direction only overrides a single-term
		// fragment; multi-term orderings keep their own directions.
		if direction != "" && len(tree.OrderBy) == 1 {
			tree.OrderBy[0].Desc = direction == DirectionDesc
		}
		base.OrderBy = append(base.OrderBy, tree.OrderBy...)
	}
	return nil
}

// resolveLimit always assigns the caller's limit, overwriting whatever the
// merge accumulated: an explicit caller limit wins, while limits contributed
// by fragments defer to whichever came first (the merge rule).
func (r *Registry) resolveLimit(log *slog.Logger, base *ast.SelectStmt, p *Params) {
	switch l := p.Limit.(type) {
	case nil:
	case int:
		base.Limit = &ast.LimitClause{Count: l}
	case *ast.LimitClause:
		base.Limit = l
	default:
		log.Warn("unparsable limit", "limit", fmt.Sprintf("%T", p.Limit))
	}
}

func ensureGroupBy(stmt *ast.SelectStmt) {
	if stmt.GroupBy == nil {
		stmt.GroupBy = &ast.GroupByClause{}
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsFieldName(list []any, name string) bool {
	for _, item := range list {
		if s, ok := item.(string); ok && s == name {
			return true
		}
	}
	return false
}

func containsSortKey(list []any, name string) bool {
	for _, item := range list {
		switch e := item.(type) {
		case string:
			if e == name {
				return true
			}
		case SortKey:
			if e.Key == name {
				return true
			}
		}
	}
	return false
}

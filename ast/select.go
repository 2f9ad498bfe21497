package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/composer/utils"
)

// SelectStmt is the composite query tree. Every multi-valued clause is
// list-typed so merge logic never has to branch on single-vs-list shape.
type SelectStmt struct {
	Distinct bool
	Columns  []*ResultColumn
	From     []*FromTable
	Where    Node
	GroupBy  *GroupByClause
	OrderBy  []*OrderItem
	Limit    *LimitClause
	Union    *UnionClause
}

func (s *SelectStmt) Type() NodeType         { return NodeSelect }
func (s *SelectStmt) Accept(v Visitor) error { return v.VisitSelect(s) }
func (s *SelectStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("select:"))
	if s.Distinct {
		h.Write([]byte("distinct:"))
	}
	for _, c := range s.Columns {
		h.Write(utils.U64ToBytes(c.Fingerprint()))
	}
	for _, f := range s.From {
		h.Write(utils.U64ToBytes(f.Fingerprint()))
	}
	if s.Where != nil {
		h.Write(utils.U64ToBytes(s.Where.Fingerprint()))
	}
	if s.GroupBy != nil {
		h.Write(utils.U64ToBytes(s.GroupBy.Fingerprint()))
	}
	for _, o := range s.OrderBy {
		h.Write(utils.U64ToBytes(o.Fingerprint()))
	}
	if s.Limit != nil {
		h.Write(utils.U64ToBytes(s.Limit.Fingerprint()))
	}
	if s.Union != nil {
		h.Write(utils.U64ToBytes(s.Union.Fingerprint()))
	}
	return h.Sum64()
}

type ResultColumn struct {
	Expr  Node
	Alias string
}

func (r *ResultColumn) Type() NodeType         { return NodeResultColumn }
func (r *ResultColumn) Accept(v Visitor) error { return v.VisitResultColumn(r) }
func (r *ResultColumn) Fingerprint() uint64 {
	fp := utils.U64("rescol:" + r.Alias)
	if r.Expr != nil {
		fp = utils.Mix64(fp, r.Expr.Fingerprint())
	}
	return fp
}

// FromTable is one entry of the from-clause: a plain table or a nested
// query, with the join clauses hanging off it.
type FromTable struct {
	Source Node // *Table or *SubqueryExpr
	Alias  string
	Joins  []*JoinClause
}

// Key identifies a from-entry during merging: plain tables merge by table
// name, nested-query tables by alias.
func (f *FromTable) Key() string {
	if t, ok := f.Source.(*Table); ok {
		return t.Name
	}
	return f.Alias
}

func (f *FromTable) Type() NodeType         { return NodeFromTable }
func (f *FromTable) Accept(v Visitor) error { return v.VisitFromTable(f) }
func (f *FromTable) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("from:" + f.Alias))
	if f.Source != nil {
		h.Write(utils.U64ToBytes(f.Source.Fingerprint()))
	}
	for _, j := range f.Joins {
		h.Write(utils.U64ToBytes(j.Fingerprint()))
	}
	return h.Sum64()
}

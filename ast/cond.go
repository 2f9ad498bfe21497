package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/composer/utils"
)

type BetweenExpr struct {
	Expr Node
	Low  Node
	High Node
	Not  bool
}

func (b *BetweenExpr) Type() NodeType         { return NodeBetweenExpr }
func (b *BetweenExpr) Accept(v Visitor) error { return v.VisitBetweenExpr(b) }
func (b *BetweenExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("between:"))
	if b.Not {
		h.Write([]byte("not:"))
	}
	for _, n := range []Node{b.Expr, b.Low, b.High} {
		if n != nil {
			h.Write(utils.U64ToBytes(n.Fingerprint()))
		}
	}
	return h.Sum64()
}

// InExpr holds either a literal list or a subquery on its right-hand side.
type InExpr struct {
	Expr     Node
	List     []Node
	Subquery *SubqueryExpr
	Not      bool
}

func (i *InExpr) Type() NodeType         { return NodeInExpr }
func (i *InExpr) Accept(v Visitor) error { return v.VisitInExpr(i) }
func (i *InExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("in:"))
	if i.Not {
		h.Write([]byte("not:"))
	}
	if i.Expr != nil {
		h.Write(utils.U64ToBytes(i.Expr.Fingerprint()))
	}
	for _, n := range i.List {
		h.Write(utils.U64ToBytes(n.Fingerprint()))
	}
	if i.Subquery != nil {
		h.Write(utils.U64ToBytes(i.Subquery.Fingerprint()))
	}
	return h.Sum64()
}

type CaseWhen struct {
	When Node
	Then Node
}

type CaseExpr struct {
	Operand Node
	Whens   []*CaseWhen
	Else    Node
}

func (c *CaseExpr) Type() NodeType         { return NodeCaseExpr }
func (c *CaseExpr) Accept(v Visitor) error { return v.VisitCaseExpr(c) }
func (c *CaseExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("case:"))
	if c.Operand != nil {
		h.Write(utils.U64ToBytes(c.Operand.Fingerprint()))
	}
	for _, w := range c.Whens {
		if w.When != nil {
			h.Write(utils.U64ToBytes(w.When.Fingerprint()))
		}
		if w.Then != nil {
			h.Write(utils.U64ToBytes(w.Then.Fingerprint()))
		}
	}
	if c.Else != nil {
		h.Write(utils.U64ToBytes(c.Else.Fingerprint()))
	}
	return h.Sum64()
}

package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/composer/utils"
)

type BinaryExpr struct {
	Left     Node
	Operator string
	Right    Node
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }
func (b *BinaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("bin:" + b.Operator))
	if b.Left != nil {
		h.Write(utils.U64ToBytes(b.Left.Fingerprint()))
	}
	if b.Right != nil {
		h.Write(utils.U64ToBytes(b.Right.Fingerprint()))
	}
	return h.Sum64()
}

type UnaryExpr struct {
	Operator string
	Operand  Node
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }
func (u *UnaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("unary:" + u.Operator))
	if u.Operand != nil {
		h.Write(utils.U64ToBytes(u.Operand.Fingerprint()))
	}
	return h.Sum64()
}

// LogicalExpr is an AND/OR group over a flat condition list. A single
// AND-group is also the canonical representation of a where-clause built
// from several merged conditions.
type LogicalExpr struct {
	Op    string
	Exprs []Node
}

func (l *LogicalExpr) Type() NodeType         { return NodeLogicalExpr }
func (l *LogicalExpr) Accept(v Visitor) error { return v.VisitLogicalExpr(l) }
func (l *LogicalExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("logic:" + l.Op))
	for _, e := range l.Exprs {
		h.Write(utils.U64ToBytes(e.Fingerprint()))
	}
	return h.Sum64()
}

type GroupedExpr struct {
	Expr Node
}

func (g *GroupedExpr) Type() NodeType         { return NodeGroupedExpr }
func (g *GroupedExpr) Accept(v Visitor) error { return v.VisitGroupedExpr(g) }
func (g *GroupedExpr) Fingerprint() uint64 {
	if g.Expr == nil {
		return 0
	}
	return utils.Mix64(utils.U64("grouped"), g.Expr.Fingerprint())
}

type Function struct {
	Name string
	Args []Node
}

func (f *Function) Type() NodeType         { return NodeFunction }
func (f *Function) Accept(v Visitor) error { return v.VisitFunction(f) }
func (f *Function) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("func:" + f.Name))
	for _, arg := range f.Args {
		h.Write(utils.U64ToBytes(arg.Fingerprint()))
	}
	return h.Sum64()
}

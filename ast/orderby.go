package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/composer/utils"
)

type OrderItem struct {
	Expr Node
	Desc bool
}

func (o *OrderItem) Type() NodeType         { return NodeOrderBy }
func (o *OrderItem) Accept(v Visitor) error { return v.VisitOrderItem(o) }
func (o *OrderItem) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("order:"))
	if o.Expr != nil {
		h.Write(utils.U64ToBytes(o.Expr.Fingerprint()))
	}
	if o.Desc {
		h.Write([]byte("desc"))
	}
	return h.Sum64()
}

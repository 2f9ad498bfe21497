package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/composer/utils"
)

// GroupByClause keeps having-conditions as a flat list. Collapsing the list
// into a single AND group happens once at the end of a whole merge pass,
// never per pairwise merge.
type GroupByClause struct {
	Exprs  []Node
	Having []Node
}

func (g *GroupByClause) Type() NodeType         { return NodeGroupBy }
func (g *GroupByClause) Accept(v Visitor) error { return v.VisitGroupBy(g) }
func (g *GroupByClause) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("groupby:"))
	for _, e := range g.Exprs {
		h.Write(utils.U64ToBytes(e.Fingerprint()))
	}
	h.Write([]byte("having:"))
	for _, c := range g.Having {
		h.Write(utils.U64ToBytes(c.Fingerprint()))
	}
	return h.Sum64()
}

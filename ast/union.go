package ast

import "github.com/Konsultn-Engineering/composer/utils"

// UnionClause links one further statement onto a select. Chains grow at the
// tail only; they are never interleaved.
type UnionClause struct {
	All  bool
	Stmt *SelectStmt
}

func (u *UnionClause) Type() NodeType         { return NodeUnion }
func (u *UnionClause) Accept(v Visitor) error { return v.VisitUnionClause(u) }
func (u *UnionClause) Fingerprint() uint64 {
	fp := utils.U64("union")
	if u.All {
		fp = utils.Mix64(fp, utils.U64("all"))
	}
	if u.Stmt != nil {
		fp = utils.Mix64(fp, u.Stmt.Fingerprint())
	}
	return fp
}

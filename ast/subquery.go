package ast

import "github.com/Konsultn-Engineering/composer/utils"

type SubqueryExpr struct {
	Stmt *SelectStmt
}

func NewSubqueryExpr(stmt *SelectStmt) *SubqueryExpr {
	return &SubqueryExpr{Stmt: stmt}
}

func (s *SubqueryExpr) Type() NodeType         { return NodeSubqueryExpr }
func (s *SubqueryExpr) Accept(v Visitor) error { return v.VisitSubqueryExpr(s) }
func (s *SubqueryExpr) Fingerprint() uint64 {
	if s.Stmt == nil {
		return 0
	}
	return utils.Mix64(utils.U64("subquery"), s.Stmt.Fingerprint())
}

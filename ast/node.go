package ast

type NodeType int

const (
	NodeSelect NodeType = iota
	NodeResultColumn
	NodeColumn
	NodeTable
	NodeFromTable
	NodeValue
	NodeArray
	NodePlaceholder
	NodeFunction
	NodeGroupedExpr
	NodeLogicalExpr
	NodeBinaryExpr
	NodeUnaryExpr
	NodeBetweenExpr
	NodeInExpr
	NodeCaseExpr
	NodeSubqueryExpr
	NodeJoin
	NodeGroupBy
	NodeOrderBy
	NodeLimit
	NodeUnion
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

package ast

// Visitor dispatches over every node kind. Recursion into children is the
// visitor's job; nodes only dispatch on their own type.
type Visitor interface {
	VisitSelect(*SelectStmt) error
	VisitResultColumn(*ResultColumn) error
	VisitColumn(*Column) error
	VisitTable(*Table) error
	VisitFromTable(*FromTable) error
	VisitValue(*Value) error
	VisitArray(*Array) error
	VisitPlaceholder(*Placeholder) error
	VisitFunction(*Function) error
	VisitGroupedExpr(*GroupedExpr) error
	VisitLogicalExpr(*LogicalExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitBetweenExpr(*BetweenExpr) error
	VisitInExpr(*InExpr) error
	VisitCaseExpr(*CaseExpr) error
	VisitSubqueryExpr(*SubqueryExpr) error
	VisitJoinClause(*JoinClause) error
	VisitGroupBy(*GroupByClause) error
	VisitOrderItem(*OrderItem) error
	VisitLimitClause(*LimitClause) error
	VisitUnionClause(*UnionClause) error
}

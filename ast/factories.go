package ast

// High-level factory functions for building partial trees by hand.

func Col(name string) *Column {
	return &Column{Name: name}
}

func TableCol(table, name string) *Column {
	return &Column{Table: table, Name: name}
}

func Columns(names ...string) []*ResultColumn {
	cols := make([]*ResultColumn, len(names))
	for i, name := range names {
		cols[i] = &ResultColumn{Expr: Col(name)}
	}
	return cols
}

func ColumnAs(expr Node, alias string) *ResultColumn {
	return &ResultColumn{Expr: expr, Alias: alias}
}

func From(name string) *FromTable {
	return &FromTable{Source: &Table{Name: name}}
}

func FromAs(name, alias string) *FromTable {
	return &FromTable{Source: &Table{Name: name}, Alias: alias}
}

func FromSubquery(stmt *SelectStmt, alias string) *FromTable {
	return &FromTable{Source: NewSubqueryExpr(stmt), Alias: alias}
}

func Eq(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpEqual, Right: right}
}

func Neq(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpNotEqualAlt, Right: right}
}

func Gt(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpGreaterThan, Right: right}
}

func Gte(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpGreaterThanOrEqual, Right: right}
}

func Lt(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpLessThan, Right: right}
}

func Lte(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpLessThanOrEqual, Right: right}
}

func Like(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpLike, Right: right}
}

func Regexp(left, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: OpRegexp, Right: right}
}

func Param(name string) *Placeholder {
	return &Placeholder{Name: name}
}

func And(exprs ...Node) *LogicalExpr {
	return &LogicalExpr{Op: OpAnd, Exprs: exprs}
}

func Or(exprs ...Node) *LogicalExpr {
	return &LogicalExpr{Op: OpOr, Exprs: exprs}
}

func Not(expr Node) *UnaryExpr {
	return &UnaryExpr{Operator: OpNot, Operand: expr}
}

func IsNull(expr Node) *UnaryExpr {
	return &UnaryExpr{Operator: OpIsNull, Operand: expr}
}

func Exists(stmt *SelectStmt) *UnaryExpr {
	return &UnaryExpr{Operator: OpExists, Operand: NewSubqueryExpr(stmt)}
}

func In(expr Node, values ...any) *InExpr {
	list := make([]Node, len(values))
	for i, v := range values {
		list[i] = NewValue(v)
	}
	return &InExpr{Expr: expr, List: list}
}

func InSubquery(expr Node, stmt *SelectStmt) *InExpr {
	return &InExpr{Expr: expr, Subquery: NewSubqueryExpr(stmt)}
}

func Between(expr, low, high Node) *BetweenExpr {
	return &BetweenExpr{Expr: expr, Low: low, High: high}
}

func Asc(expr Node) *OrderItem {
	return &OrderItem{Expr: expr}
}

func Desc(expr Node) *OrderItem {
	return &OrderItem{Expr: expr, Desc: true}
}

func Limit(count int) *LimitClause {
	return &LimitClause{Count: count}
}

func LimitOffset(count, offset int) *LimitClause {
	o := offset
	return &LimitClause{Count: count, Offset: &o}
}

func InnerJoin(table string, on Node) *JoinClause {
	return &JoinClause{JoinType: JoinInner, Table: &Table{Name: table}, On: on}
}

func LeftJoin(table string, on Node) *JoinClause {
	return &JoinClause{JoinType: JoinLeft, Table: &Table{Name: table}, On: on}
}

func JoinOn(leftTable, leftColumn, rightTable, rightColumn string) Node {
	return Eq(TableCol(leftTable, leftColumn), TableCol(rightTable, rightColumn))
}

package ast

import "encoding/json"

// MarshalCanonical renders a tree as deterministic, indented JSON. Two
// structurally identical trees always produce identical bytes (maps are
// emitted with sorted keys), which is what golden tests and the dump CLI
// compare against. This is a debug format, not a query serialization.
func MarshalCanonical(n Node) ([]byte, error) {
	return json.MarshalIndent(canonicalValue(n), "", "  ")
}

func canonicalValue(n Node) any {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *SelectStmt:
		m := map[string]any{"node": "select"}
		if v.Distinct {
			m["distinct"] = true
		}
		if len(v.Columns) > 0 {
			cols := make([]any, len(v.Columns))
			for i, c := range v.Columns {
				cols[i] = canonicalValue(c)
			}
			m["columns"] = cols
		}
		if len(v.From) > 0 {
			from := make([]any, len(v.From))
			for i, f := range v.From {
				from[i] = canonicalValue(f)
			}
			m["from"] = from
		}
		if v.Where != nil {
			m["where"] = canonicalValue(v.Where)
		}
		if v.GroupBy != nil {
			m["group_by"] = canonicalValue(v.GroupBy)
		}
		if len(v.OrderBy) > 0 {
			order := make([]any, len(v.OrderBy))
			for i, o := range v.OrderBy {
				order[i] = canonicalValue(o)
			}
			m["order_by"] = order
		}
		if v.Limit != nil {
			m["limit"] = canonicalValue(v.Limit)
		}
		if v.Union != nil {
			m["union"] = canonicalValue(v.Union)
		}
		return m
	case *ResultColumn:
		m := map[string]any{"node": "result_column", "expr": canonicalValue(v.Expr)}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		return m
	case *Column:
		m := map[string]any{"node": "column", "name": v.Name}
		if v.Table != "" {
			m["table"] = v.Table
		}
		return m
	case *Table:
		m := map[string]any{"node": "table", "name": v.Name}
		if v.Schema != "" {
			m["schema"] = v.Schema
		}
		return m
	case *FromTable:
		m := map[string]any{"node": "from", "source": canonicalValue(v.Source)}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		if len(v.Joins) > 0 {
			joins := make([]any, len(v.Joins))
			for i, j := range v.Joins {
				joins[i] = canonicalValue(j)
			}
			m["joins"] = joins
		}
		return m
	case *Value:
		return map[string]any{"node": "value", "value": v.Val}
	case *Array:
		return map[string]any{"node": "array", "values": canonicalList(v.Values)}
	case *Placeholder:
		m := map[string]any{"node": "placeholder", "name": v.Name}
		if v.Bound {
			m["value"] = v.Value
		}
		return m
	case *Function:
		return map[string]any{"node": "function", "name": v.Name, "args": canonicalList(v.Args)}
	case *GroupedExpr:
		return map[string]any{"node": "grouped", "expr": canonicalValue(v.Expr)}
	case *LogicalExpr:
		return map[string]any{"node": "logical", "op": v.Op, "exprs": canonicalList(v.Exprs)}
	case *BinaryExpr:
		return map[string]any{
			"node":  "binary",
			"op":    v.Operator,
			"left":  canonicalValue(v.Left),
			"right": canonicalValue(v.Right),
		}
	case *UnaryExpr:
		return map[string]any{"node": "unary", "op": v.Operator, "operand": canonicalValue(v.Operand)}
	case *BetweenExpr:
		m := map[string]any{
			"node": "between",
			"expr": canonicalValue(v.Expr),
			"low":  canonicalValue(v.Low),
			"high": canonicalValue(v.High),
		}
		if v.Not {
			m["not"] = true
		}
		return m
	case *InExpr:
		m := map[string]any{"node": "in", "expr": canonicalValue(v.Expr)}
		if v.Subquery != nil {
			m["subquery"] = canonicalValue(v.Subquery)
		} else {
			m["values"] = canonicalList(v.List)
		}
		if v.Not {
			m["not"] = true
		}
		return m
	case *CaseExpr:
		m := map[string]any{"node": "case"}
		if v.Operand != nil {
			m["operand"] = canonicalValue(v.Operand)
		}
		whens := make([]any, len(v.Whens))
		for i, w := range v.Whens {
			whens[i] = map[string]any{"when": canonicalValue(w.When), "then": canonicalValue(w.Then)}
		}
		m["whens"] = whens
		if v.Else != nil {
			m["else"] = canonicalValue(v.Else)
		}
		return m
	case *SubqueryExpr:
		return map[string]any{"node": "subquery", "stmt": canonicalValue(v.Stmt)}
	case *JoinClause:
		m := map[string]any{
			"node":      "join",
			"join_type": joinTypeName(v.JoinType),
			"table":     canonicalValue(v.Table),
			"on":        canonicalValue(v.On),
		}
		if v.Alias != "" {
			m["alias"] = v.Alias
		}
		return m
	case *GroupByClause:
		m := map[string]any{"node": "group_by", "exprs": canonicalList(v.Exprs)}
		if len(v.Having) > 0 {
			m["having"] = canonicalList(v.Having)
		}
		return m
	case *OrderItem:
		m := map[string]any{"node": "order", "expr": canonicalValue(v.Expr)}
		if v.Desc {
			m["desc"] = true
		}
		return m
	case *LimitClause:
		m := map[string]any{"node": "limit", "count": v.Count}
		if v.Offset != nil {
			m["offset"] = *v.Offset
		}
		return m
	case *UnionClause:
		m := map[string]any{"node": "union", "stmt": canonicalValue(v.Stmt)}
		if v.All {
			m["all"] = true
		}
		return m
	default:
		return map[string]any{"node": "unknown"}
	}
}

func canonicalList(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = canonicalValue(n)
	}
	return out
}

func joinTypeName(t JoinType) string {
	switch t {
	case JoinLeft:
		return "left"
	case JoinRight:
		return "right"
	case JoinFull:
		return "full"
	case JoinCross:
		return "cross"
	default:
		return "inner"
	}
}

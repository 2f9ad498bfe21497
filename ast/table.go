package ast

import "github.com/Konsultn-Engineering/composer/utils"

type Table struct {
	Schema string
	Name   string
}

func (t *Table) Type() NodeType         { return NodeTable }
func (t *Table) Accept(v Visitor) error { return v.VisitTable(t) }
func (t *Table) Fingerprint() uint64 {
	return utils.FingerprintString("table:" + t.Schema + "." + t.Name)
}

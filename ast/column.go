package ast

import "github.com/Konsultn-Engineering/composer/utils"

type Column struct {
	Table string
	Name  string
}

func (c *Column) Type() NodeType         { return NodeColumn }
func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }
func (c *Column) Fingerprint() uint64 {
	return utils.FingerprintString("col:" + c.Table + "." + c.Name)
}

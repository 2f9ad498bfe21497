package ast

import (
	"fmt"

	"github.com/Konsultn-Engineering/composer/utils"
)

// Placeholder is a leaf expression carrying a value slot that is not yet
// bound to a literal. Once bound it behaves as a plain value.
type Placeholder struct {
	Name  string
	Value any
	Bound bool
}

// Bind assigns the placeholder's value. A placeholder is bound at most once
// per fragment application; later binds overwrite.
func (p *Placeholder) Bind(value any) {
	p.Value = value
	p.Bound = true
}

func (p *Placeholder) Type() NodeType         { return NodePlaceholder }
func (p *Placeholder) Accept(v Visitor) error { return v.VisitPlaceholder(p) }
func (p *Placeholder) Fingerprint() uint64 {
	s := "ph:" + p.Name
	if p.Bound {
		s += "=" + fmt.Sprint(p.Value)
	}
	return utils.FingerprintString(s)
}

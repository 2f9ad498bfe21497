package ast

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/Konsultn-Engineering/composer/utils"
)

type ValueType int

const (
	ValueNull ValueType = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueString
	ValueTime
)

type Value struct {
	Val       any
	ValueType ValueType
}

func NewValue(val any) *Value {
	v := &Value{Val: val}
	switch val.(type) {
	case nil:
		v.ValueType = ValueNull
	case bool:
		v.ValueType = ValueBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		v.ValueType = ValueInt
	case float32, float64:
		v.ValueType = ValueFloat
	case string:
		v.ValueType = ValueString
	case time.Time:
		v.ValueType = ValueTime
	}
	return v
}

func (v *Value) Type() NodeType           { return NodeValue }
func (v *Value) Accept(vis Visitor) error { return vis.VisitValue(v) }
func (v *Value) Fingerprint() uint64 {
	s := "val:" + fmt.Sprint(int(v.ValueType)) + ":" + fmt.Sprint(v.Val)
	return utils.FingerprintString(s)
}

type Array struct {
	Values []Node
}

func NewArray(values []any) *Array {
	a := &Array{Values: make([]Node, 0, len(values))}
	for _, val := range values {
		a.Values = append(a.Values, NewValue(val))
	}
	return a
}

func (a *Array) Type() NodeType         { return NodeArray }
func (a *Array) Accept(v Visitor) error { return v.VisitArray(a) }
func (a *Array) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("array:"))
	for _, val := range a.Values {
		h.Write(utils.U64ToBytes(val.Fingerprint()))
	}
	return h.Sum64()
}

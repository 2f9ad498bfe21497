package ast

import (
	"hash/fnv"
	"strconv"

	"github.com/Konsultn-Engineering/composer/utils"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

type JoinClause struct {
	JoinType JoinType
	Table    *Table
	Alias    string
	On       Node
}

func (j *JoinClause) Type() NodeType         { return NodeJoin }
func (j *JoinClause) Accept(v Visitor) error { return v.VisitJoinClause(j) }
func (j *JoinClause) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("join:" + strconv.Itoa(int(j.JoinType)) + ":" + j.Alias))
	fp := h.Sum64()
	if j.Table != nil {
		fp = utils.Mix64(fp, j.Table.Fingerprint())
	}
	if j.On != nil {
		fp = utils.Mix64(fp, j.On.Fingerprint())
	}
	return fp
}

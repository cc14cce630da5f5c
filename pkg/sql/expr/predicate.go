// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/sql/function"
)

var boolType = types.T_bool.ToType()

// CompareNode filters by a comparison of two children.
type CompareNode struct {
	fn          function.Comparison
	left, right Expression
}

func NewCompare(fn function.Comparison, left, right Expression) *CompareNode {
	return &CompareNode{fn: fn, left: left, right: right}
}

func (e *CompareNode) Function() function.Comparison {
	return e.fn
}

// Filter answers in row offsets of bat. Leaf children are read whole and
// the comparison walks sels itself. Other children are computed over the
// rows of sels only, so the comparison answers in positions of sels that
// are mapped back through it.
func (e *CompareNode) Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	if sels.IsEmpty() {
		return selection.Empty(), nil
	}
	args := []Expression{e.left, e.right}
	if allSimple(args) {
		vs, err := evalAll(args, bat, nil)
		if err != nil {
			return nil, err
		}
		return e.fn.Filter(vs, sels)
	}
	vs, err := evalAll(args, bat, sels)
	if err != nil {
		return nil, err
	}
	local, err := e.fn.Filter(vs, nil)
	if err != nil {
		return nil, err
	}
	return sels.Take(local), nil
}

func (e *CompareNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	vs, err := evalAll([]Expression{e.left, e.right}, bat, sels)
	if err != nil {
		return nil, err
	}
	return e.fn.Eval(vs, nil)
}

func (e *CompareNode) ResultType(schema batch.Schema) (types.Type, error) {
	lt, err := e.left.ResultType(schema)
	if err != nil {
		return types.Type{}, err
	}
	rt, err := e.right.ResultType(schema)
	if err != nil {
		return types.Type{}, err
	}
	return e.fn.ReturnType(lt, rt)
}

func (e *CompareNode) Children() []Expression {
	return []Expression{e.left, e.right}
}

func (e *CompareNode) String() string {
	return callString(e.fn.Name(), e.Children())
}

// TrueNode is the identity of the selection algebra.
type TrueNode struct{}

// FalseNode matches nothing.
type FalseNode struct{}

func NewTrue() *TrueNode {
	return &TrueNode{}
}

func NewFalse() *FalseNode {
	return &FalseNode{}
}

// Filter returns a copy of sels, nil stays nil.
func (e *TrueNode) Filter(_ *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	return sels.Clone(), nil
}

func (e *TrueNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return vector.NewConst(boolType, true, selection.Cardinality(sels, bat.RowCount())), nil
}

func (e *TrueNode) ResultType(_ batch.Schema) (types.Type, error) { return boolType, nil }
func (e *TrueNode) Children() []Expression { return nil }
func (e *TrueNode) String() string { return "true" }

func (e *FalseNode) Filter(_ *batch.Batch, _ *selection.Selection) (*selection.Selection, error) {
	return selection.Empty(), nil
}

func (e *FalseNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return vector.NewConst(boolType, false, selection.Cardinality(sels, bat.RowCount())), nil
}

func (e *FalseNode) ResultType(_ batch.Schema) (types.Type, error) { return boolType, nil }
func (e *FalseNode) Children() []Expression { return nil }
func (e *FalseNode) String() string { return "false" }

// AndNode narrows the selection by its left child, then by its right one.
// The right child is not evaluated once nothing is left.
type AndNode struct {
	left, right Predicate
}

// NewAnd folds children from the right: a and (b and c).
func NewAnd(children ...Predicate) (*AndNode, error) {
	if len(children) < 2 {
		return nil, moerr.NewInvalidArgNoCtx("and children", len(children))
	}
	return fold(children, func(l, r Predicate) Predicate { return &AndNode{left: l, right: r} }).(*AndNode), nil
}

func (e *AndNode) Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	sub, err := e.left.Filter(bat, sels)
	if err != nil || sub.IsEmpty() {
		return sub, err
	}
	return e.right.Filter(bat, sub)
}

func (e *AndNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return evalByFilter(e, bat, sels)
}

func (e *AndNode) ResultType(_ batch.Schema) (types.Type, error) { return boolType, nil }
func (e *AndNode) Children() []Expression { return []Expression{e.left, e.right} }
func (e *AndNode) String() string {
	return joinString(" and ", flatten[*AndNode](e, func(n *AndNode) (Predicate, Predicate) { return n.left, n.right }))
}

// OrNode keeps the rows matched by either child, in the order of the input
// selection.
type OrNode struct {
	left, right Predicate
}

// NewOr folds children from the right: a or (b or c).
func NewOr(children ...Predicate) (*OrNode, error) {
	if len(children) < 2 {
		return nil, moerr.NewInvalidArgNoCtx("or children", len(children))
	}
	return fold(children, func(l, r Predicate) Predicate { return &OrNode{left: l, right: r} }).(*OrNode), nil
}

// orState is the running result of an OR: rows already matched, and input
// rows no child matched yet.
type orState struct {
	matched   []int64
	remaining *roaring.Bitmap
}

func newOrState(bat *batch.Batch, sels *selection.Selection) orState {
	remaining := roaring.New()
	if sels == nil {
		remaining.AddRange(0, uint64(bat.RowCount()))
	} else {
		for i, row := range sels.Rows() {
			if !sels.IsAbsent(i) {
				remaining.Add(uint32(row))
			}
		}
	}
	return orState{remaining: remaining}
}

// step folds the answer of one child into st.
func (st orState) step(sub *selection.Selection) orState {
	for i, row := range sub.Rows() {
		if sub.IsAbsent(i) || !st.remaining.Contains(uint32(row)) {
			continue
		}
		st.matched = append(st.matched, row)
		st.remaining.Remove(uint32(row))
	}
	return st
}

func (st orState) remainingSelection() *selection.Selection {
	rows := make([]int64, 0, st.remaining.GetCardinality())
	it := st.remaining.Iterator()
	for it.HasNext() {
		rows = append(rows, int64(it.Next()))
	}
	return selection.FromRows(rows)
}

// sortByInput orders the matched rows as they appear in sels, ascending
// when sels is nil.
func (st orState) sortByInput(sels *selection.Selection) *selection.Selection {
	rows := st.matched
	if sels == nil {
		sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })
		return selection.FromRows(rows)
	}
	pos := sels.Positions()
	sort.Slice(rows, func(i, j int) bool { return pos[rows[i]] < pos[rows[j]] })
	return selection.FromRows(rows)
}

func (e *OrNode) Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	if sels.IsEmpty() {
		return selection.Empty(), nil
	}
	st := newOrState(bat, sels)
	cur := sels
	for _, child := range []Predicate{e.left, e.right} {
		sub, err := child.Filter(bat, cur)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return sels.Clone(), nil
		}
		st = st.step(sub)
		if st.remaining.IsEmpty() {
			return sels.Clone(), nil
		}
		if sub.Len() > 0 {
			cur = st.remainingSelection()
		}
	}
	return st.sortByInput(sels), nil
}

func (e *OrNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return evalByFilter(e, bat, sels)
}

func (e *OrNode) ResultType(_ batch.Schema) (types.Type, error) { return boolType, nil }
func (e *OrNode) Children() []Expression { return []Expression{e.left, e.right} }
func (e *OrNode) String() string {
	return joinString(" or ", flatten[*OrNode](e, func(n *OrNode) (Predicate, Predicate) { return n.left, n.right }))
}

// NotNode keeps the input rows its child rejects, in input order.
type NotNode struct {
	child Predicate
}

func NewNot(child Predicate) *NotNode {
	return &NotNode{child: child}
}

func (e *NotNode) Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	if sels.IsEmpty() {
		return selection.Empty(), nil
	}
	sub, err := e.child.Filter(bat, sels)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return selection.Empty(), nil
	}
	matched := roaring.New()
	for i, row := range sub.Rows() {
		if !sub.IsAbsent(i) {
			matched.Add(uint32(row))
		}
	}
	var rows []int64
	if sels == nil {
		rows = make([]int64, 0, bat.RowCount())
		for row := 0; row < bat.RowCount(); row++ {
			if !matched.Contains(uint32(row)) {
				rows = append(rows, int64(row))
			}
		}
	} else {
		rows = make([]int64, 0, sels.Len())
		for i, row := range sels.Rows() {
			if !sels.IsAbsent(i) && !matched.Contains(uint32(row)) {
				rows = append(rows, row)
			}
		}
	}
	return selection.FromRows(rows), nil
}

func (e *NotNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return evalByFilter(e, bat, sels)
}

func (e *NotNode) ResultType(_ batch.Schema) (types.Type, error) { return boolType, nil }
func (e *NotNode) Children() []Expression { return []Expression{e.child} }
func (e *NotNode) String() string { return "not " + e.child.String() }

// BoolNode turns a boolean expression into a predicate holding where the
// value is true.
type BoolNode struct {
	expr Expression
}

func NewBool(e Expression) *BoolNode {
	return &BoolNode{expr: e}
}

func (e *BoolNode) Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error) {
	if sels.IsEmpty() {
		return selection.Empty(), nil
	}
	v, err := e.expr.Eval(bat, sels)
	if err != nil {
		return nil, err
	}
	if v.GetType().Oid != types.T_bool && v.GetType().Oid != types.T_any {
		return nil, moerr.NewTypeMismatchNoCtx(e.expr.String(), 0, v.GetType().String(), "expected BOOL")
	}
	local := make([]int64, 0, v.Length())
	if v.GetType().Oid == types.T_bool {
		for i := 0; i < v.Length(); i++ {
			if !v.IsNull(i) && vector.GetFixedAt[bool](v, i) {
				local = append(local, int64(i))
			}
		}
	}
	return sels.Take(selection.FromRows(local)), nil
}

func (e *BoolNode) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return e.expr.Eval(bat, sels)
}

func (e *BoolNode) ResultType(schema batch.Schema) (types.Type, error) {
	typ, err := e.expr.ResultType(schema)
	if err != nil {
		return types.Type{}, err
	}
	if typ.Oid != types.T_bool && typ.Oid != types.T_any {
		return types.Type{}, moerr.NewTypeMismatchNoCtx(e.expr.String(), 0, typ.String(), "expected BOOL")
	}
	return boolType, nil
}

func (e *BoolNode) Children() []Expression { return []Expression{e.expr} }
func (e *BoolNode) String() string { return e.expr.String() }

// evalByFilter turns the answer of a filter into a boolean column of
// Cardinality(sels) rows.
func evalByFilter(p Predicate, bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	n := selection.Cardinality(sels, bat.RowCount())
	kept, err := p.Filter(bat, sels)
	if err != nil {
		return nil, err
	}
	if kept == nil {
		return vector.NewConst(boolType, true, n), nil
	}
	rs := make([]bool, n)
	if sels == nil {
		for _, row := range kept.Rows() {
			rs[row] = true
		}
	} else {
		pos := sels.Positions()
		for _, row := range kept.Rows() {
			rs[pos[row]] = true
		}
	}
	return vector.NewFixed(boolType, rs, nil), nil
}

func fold(children []Predicate, join func(l, r Predicate) Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return join(children[0], fold(children[1:], join))
}

func flatten[N Predicate](n N, split func(N) (Predicate, Predicate)) []Predicate {
	l, r := split(n)
	rs := []Predicate{l}
	if rn, ok := r.(N); ok {
		return append(rs, flatten(rn, split)...)
	}
	return append(rs, r)
}

func joinString(sep string, ps []Predicate) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = p.String()
	}
	return "(" + strings.Join(ss, sep) + ")"
}

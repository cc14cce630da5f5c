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

package function

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/vectorize/compare"
)

// Compare is a comparison operator. Numeric operands of different types
// are compared as float64, binary operands byte-wise and booleans with
// false before true.
type Compare struct {
	name string
	op   compare.Op
}

var (
	Equal        = &Compare{name: "=", op: compare.EQ}
	NotEqual     = &Compare{name: "<>", op: compare.NE}
	Less         = &Compare{name: "<", op: compare.LT}
	LessEqual    = &Compare{name: "<=", op: compare.LE}
	Greater      = &Compare{name: ">", op: compare.GT}
	GreaterEqual = &Compare{name: ">=", op: compare.GE}
)

// CompareOf returns the comparison function of op.
func CompareOf(op compare.Op) *Compare {
	switch op {
	case compare.EQ:
		return Equal
	case compare.NE:
		return NotEqual
	case compare.LT:
		return Less
	case compare.LE:
		return LessEqual
	case compare.GT:
		return Greater
	case compare.GE:
		return GreaterEqual
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

func (f *Compare) Name() string {
	return f.name
}

func (f *Compare) Arity() int {
	return 2
}

func (f *Compare) Op() compare.Op {
	return f.op
}

func (f *Compare) ReturnType(args ...types.Type) (types.Type, error) {
	if _, err := f.operandType(args); err != nil {
		return types.Type{}, err
	}
	return types.T_bool.ToType(), nil
}

// operandType is the type both operands are compared as.
func (f *Compare) operandType(args []types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	l, r := args[0], args[1]
	switch {
	case l.Oid == ScalarNull:
		return r, nil
	case r.Oid == ScalarNull:
		return l, nil
	case l.Eq(r):
		return l, nil
	case l.IsNumeric() && r.IsNumeric():
		return types.T_float64.ToType(), nil
	default:
		return types.Type{}, moerr.NewTypeMismatchNoCtx(f.name, 1, r.String(), "not comparable with "+l.String())
	}
}

func (f *Compare) Filter(args []*vector.Vector, sels *selection.Selection) (*selection.Selection, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	ct, err := f.operandType([]types.Type{args[0].GetType(), args[1].GetType()})
	if err != nil {
		return nil, err
	}
	if anyNullArg(args) {
		return selection.Empty(), nil
	}
	n := outputLength(args, sels)
	vs, local := prepareCompare(args, sels)
	gathered := sels != nil && local == nil
	l, r := vs[0], vs[1]
	if ct.IsNumeric() {
		l, r = castNumeric(l, ct), castNumeric(r, ct)
	}
	var rows []int64
	switch ct.Oid {
	case types.T_bool:
		rows = compareRows(compare.BoolFunc(f.op), vector.MustFixedCol[bool], vector.GetFixedAt[bool], l, r, local, n)
	case types.T_int32:
		rows = compareRows(compare.NumericFunc[int32](f.op), vector.MustFixedCol[int32], vector.GetFixedAt[int32], l, r, local, n)
	case types.T_int64:
		rows = compareRows(compare.NumericFunc[int64](f.op), vector.MustFixedCol[int64], vector.GetFixedAt[int64], l, r, local, n)
	case types.T_float32:
		rows = compareRows(compare.NumericFunc[float32](f.op), vector.MustFixedCol[float32], vector.GetFixedAt[float32], l, r, local, n)
	case types.T_float64:
		rows = compareRows(compare.NumericFunc[float64](f.op), vector.MustFixedCol[float64], vector.GetFixedAt[float64], l, r, local, n)
	case types.T_binary:
		rows = compareRows(compare.BytesFunc(f.op), vector.MustBytesCol, vector.GetBytesAt, l, r, local, n)
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected operand type %s of %s", ct, f.name))
	}
	rows = dropNullRows(rows, l, r)
	if gathered {
		return sels.Take(selection.FromRows(rows)), nil
	}
	return selection.FromRows(rows), nil
}

func (f *Compare) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	if _, err := f.ReturnType(args[0].GetType(), args[1].GetType()); err != nil {
		return nil, err
	}
	return boolResult(f, args, sels)
}

// boolResult evaluates a comparison as a boolean column: true where Filter
// matches, null where an operand is null.
func boolResult(f Comparison, args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	n := outputLength(args, sels)
	if anyNullArg(args) {
		return vector.NewConstNull(types.T_bool.ToType(), n), nil
	}
	vs := gatherAll(args, sels)
	matched, err := f.Filter(vs, nil)
	if err != nil {
		return nil, err
	}
	rs := make([]bool, n)
	for _, row := range matched.Rows() {
		rs[row] = true
	}
	return vector.NewFixed(types.T_bool.ToType(), rs, unionNulls(n, vs...)), nil
}

// prepareCompare leaves a flat operand in place when the other one is a
// constant, so the selection is applied by the kernel instead of a gather.
func prepareCompare(args []*vector.Vector, sels *selection.Selection) ([]*vector.Vector, *selection.Selection) {
	l, r := args[0], args[1]
	if sels == nil || sels.HasAbsent() || l.IsDist() || r.IsDist() || l.IsConst() == r.IsConst() {
		return prepare(args, sels)
	}
	return args, sels
}

// compareRows returns the matching rows: positions in [0, n) when sels is
// nil, entries of sels otherwise.
func compareRows[T any](fn func(T, T) bool, col func(*vector.Vector) []T, at func(*vector.Vector, int) T,
	l, r *vector.Vector, sels *selection.Selection, n int) []int64 {
	rs := make([]int64, 0, n)
	switch {
	case l.IsConst() && r.IsConst():
		if !fn(at(l, 0), at(r, 0)) {
			return rs
		}
		if sels != nil {
			return append(rs, sels.Rows()...)
		}
		for i := 0; i < n; i++ {
			rs = append(rs, int64(i))
		}
		return rs
	case l.IsConst() && sels != nil:
		return compare.CompareScalarSels(fn, at(l, 0), col(r), rs, sels.Rows())
	case l.IsConst():
		return compare.CompareScalar(fn, at(l, 0), col(r)[:n], rs)
	case r.IsConst() && sels != nil:
		return compare.CompareByScalarSels(fn, col(l), at(r, 0), rs, sels.Rows())
	case r.IsConst():
		return compare.CompareByScalar(fn, col(l)[:n], at(r, 0), rs)
	case sels != nil:
		return compare.CompareSels(fn, col(l), col(r), rs, sels.Rows())
	default:
		return compare.Compare(fn, col(l)[:n], col(r)[:n], rs)
	}
}

func dropNullRows(rows []int64, vs ...*vector.Vector) []int64 {
	var nsps []*nulls.Nulls
	for _, v := range vs {
		if !v.IsConst() && v.HasNull() {
			nsps = append(nsps, v.GetNulls())
		}
	}
	if len(nsps) == 0 {
		return rows
	}
	rs := rows[:0]
	for _, row := range rows {
		null := false
		for _, nsp := range nsps {
			if nsp.Contains(uint64(row)) {
				null = true
				break
			}
		}
		if !null {
			rs = append(rs, row)
		}
	}
	return rs
}

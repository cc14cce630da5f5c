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
	"github.com/polystore/polystore/pkg/vectorize/add"
	"github.com/polystore/polystore/pkg/vectorize/div"
	"github.com/polystore/polystore/pkg/vectorize/mod"
	"github.com/polystore/polystore/pkg/vectorize/mul"
	"github.com/polystore/polystore/pkg/vectorize/sub"
)

type arithOp uint8

const (
	opPlus arithOp = iota
	opMinus
	opMulti
	opDiv
	opMod
)

// Arithmetic is a binary arithmetic operator over numeric columns.
//
// Operands of different types are both promoted to float64, division always
// promotes integers to float64. An integer modulo by zero yields null.
type Arithmetic struct {
	name string
	op   arithOp
}

var (
	Add      = &Arithmetic{name: "+", op: opPlus}
	Minus    = &Arithmetic{name: "-", op: opMinus}
	Multiply = &Arithmetic{name: "*", op: opMulti}
	Ratio    = &Arithmetic{name: "/", op: opDiv}
	Mod      = &Arithmetic{name: "%", op: opMod}
)

func (f *Arithmetic) Name() string {
	return f.name
}

func (f *Arithmetic) Arity() int {
	return 2
}

func (f *Arithmetic) ReturnType(args ...types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	for i, arg := range args {
		if arg.Oid != ScalarNull && !arg.IsNumeric() {
			return types.Type{}, moerr.NewTypeMismatchNoCtx(f.name, i, arg.String(), "expected a numeric type")
		}
	}
	l, r := args[0], args[1]
	if l.Oid == ScalarNull {
		l = r
	}
	if r.Oid == ScalarNull {
		r = l
	}
	if l.Oid == ScalarNull {
		if f.op == opDiv {
			return types.T_float64.ToType(), nil
		}
		return l, nil
	}
	if !l.Eq(r) {
		return types.T_float64.ToType(), nil
	}
	if f.op == opDiv && l.IsIntegral() {
		return types.T_float64.ToType(), nil
	}
	return l, nil
}

func (f *Arithmetic) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	rt, err := f.ReturnType(args[0].GetType(), args[1].GetType())
	if err != nil {
		return nil, err
	}
	n := outputLength(args, sels)
	if anyNullArg(args) {
		return vector.NewConstNull(rt, n), nil
	}
	vs, sels := prepare(args, sels)
	l, r := castNumeric(vs[0], rt), castNumeric(vs[1], rt)
	switch rt.Oid {
	case types.T_int32:
		return arith(arithKernelsOf[int32](f.op), rt, l, r, sels, n), nil
	case types.T_int64:
		return arith(arithKernelsOf[int64](f.op), rt, l, r, sels, n), nil
	case types.T_float32:
		return arith(arithKernelsOf[float32](f.op), rt, l, r, sels, n), nil
	case types.T_float64:
		return arith(arithKernelsOf[float64](f.op), rt, l, r, sels, n), nil
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected result type %s of %s", rt, f.name))
	}
}

// EvalInto computes rows [0, min(len(xs), len(ys))) into dest and returns
// that prefix of dest. xs, ys and dest must have the result type of f over
// T. A dest narrower than either input is a caller bug and panics. Rows
// with a zero integer divisor are left 0.
func EvalInto[T types.Numeric](f *Arithmetic, xs, ys, dest []T) []T {
	if len(dest) < len(xs) || len(dest) < len(ys) {
		panic(moerr.NewPreconditionNoCtx("%s: destination of %d rows is narrower than its inputs (%d, %d)",
			f.name, len(dest), len(xs), len(ys)))
	}
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	k := arithKernelsOf[T](f.op)
	if k.vv == nil {
		panic(moerr.NewPreconditionNoCtx("%s is not defined into an integer destination", f.name))
	}
	return k.vv(xs[:n], ys[:n], dest[:n])
}

type arithKernels[T types.Numeric] struct {
	vv       func([]T, []T, []T) []T
	vvSels   func([]T, []T, []T, []int64) []T
	sv       func(T, []T, []T) []T
	vs       func([]T, T, []T) []T
	zeroNull bool
}

func arithKernelsOf[T types.Numeric](op arithOp) arithKernels[T] {
	var zero T
	var k any
	switch any(zero).(type) {
	case int32:
		k = int32Kernels(op)
	case int64:
		k = int64Kernels(op)
	case float32:
		k = float32Kernels(op)
	case float64:
		k = float64Kernels(op)
	}
	return k.(arithKernels[T])
}

func int32Kernels(op arithOp) arithKernels[int32] {
	switch op {
	case opPlus:
		return arithKernels[int32]{add.Int32Add, add.Int32AddSels, add.Int32AddScalar, add.Int32AddByScalar, false}
	case opMinus:
		return arithKernels[int32]{sub.Int32Sub, sub.Int32SubSels, sub.Int32SubScalar, sub.Int32SubByScalar, false}
	case opMulti:
		return arithKernels[int32]{mul.Int32Mul, mul.Int32MulSels, mul.Int32MulScalar, mul.Int32MulByScalar, false}
	case opMod:
		return arithKernels[int32]{mod.Int32Mod, mod.Int32ModSels, mod.Int32ModScalar, mod.Int32ModByScalar, true}
	case opDiv:
		// integers are promoted before division
		return arithKernels[int32]{}
	}
	panic(moerr.NewInternalErrorNoCtx("unknown arithmetic op %d", op))
}

func int64Kernels(op arithOp) arithKernels[int64] {
	switch op {
	case opPlus:
		return arithKernels[int64]{add.Int64Add, add.Int64AddSels, add.Int64AddScalar, add.Int64AddByScalar, false}
	case opMinus:
		return arithKernels[int64]{sub.Int64Sub, sub.Int64SubSels, sub.Int64SubScalar, sub.Int64SubByScalar, false}
	case opMulti:
		return arithKernels[int64]{mul.Int64Mul, mul.Int64MulSels, mul.Int64MulScalar, mul.Int64MulByScalar, false}
	case opMod:
		return arithKernels[int64]{mod.Int64Mod, mod.Int64ModSels, mod.Int64ModScalar, mod.Int64ModByScalar, true}
	case opDiv:
		return arithKernels[int64]{}
	}
	panic(moerr.NewInternalErrorNoCtx("unknown arithmetic op %d", op))
}

func float32Kernels(op arithOp) arithKernels[float32] {
	switch op {
	case opPlus:
		return arithKernels[float32]{add.Float32Add, add.Float32AddSels, add.Float32AddScalar, add.Float32AddByScalar, false}
	case opMinus:
		return arithKernels[float32]{sub.Float32Sub, sub.Float32SubSels, sub.Float32SubScalar, sub.Float32SubByScalar, false}
	case opMulti:
		return arithKernels[float32]{mul.Float32Mul, mul.Float32MulSels, mul.Float32MulScalar, mul.Float32MulByScalar, false}
	case opDiv:
		return arithKernels[float32]{div.Float32Div, div.Float32DivSels, div.Float32DivScalar, div.Float32DivByScalar, false}
	case opMod:
		return arithKernels[float32]{mod.Float32Mod, mod.Float32ModSels, mod.Float32ModScalar, mod.Float32ModByScalar, false}
	}
	panic(moerr.NewInternalErrorNoCtx("unknown arithmetic op %d", op))
}

func float64Kernels(op arithOp) arithKernels[float64] {
	switch op {
	case opPlus:
		return arithKernels[float64]{add.Float64Add, add.Float64AddSels, add.Float64AddScalar, add.Float64AddByScalar, false}
	case opMinus:
		return arithKernels[float64]{sub.Float64Sub, sub.Float64SubSels, sub.Float64SubScalar, sub.Float64SubByScalar, false}
	case opMulti:
		return arithKernels[float64]{mul.Float64Mul, mul.Float64MulSels, mul.Float64MulScalar, mul.Float64MulByScalar, false}
	case opDiv:
		return arithKernels[float64]{div.Float64Div, div.Float64DivSels, div.Float64DivScalar, div.Float64DivByScalar, false}
	case opMod:
		return arithKernels[float64]{mod.Float64Mod, mod.Float64ModSels, mod.Float64ModScalar, mod.Float64ModByScalar, false}
	}
	panic(moerr.NewInternalErrorNoCtx("unknown arithmetic op %d", op))
}

// arith runs the kernels over operands already of type rt. When sels is
// not nil both operands are flat.
func arith[T types.Numeric](k arithKernels[T], rt types.Type, l, r *vector.Vector, sels *selection.Selection, n int) *vector.Vector {
	switch {
	case l.IsConst() && r.IsConst():
		y := vector.GetFixedAt[T](r, 0)
		if k.zeroNull && y == 0 {
			return vector.NewConstNull(rt, n)
		}
		rs := k.vv([]T{vector.GetFixedAt[T](l, 0)}, []T{y}, make([]T, 1))
		return vector.NewConst(rt, rs[0], n)
	case l.IsConst():
		ys := vector.MustFixedCol[T](r)[:n]
		rs := k.sv(vector.GetFixedAt[T](l, 0), ys, make([]T, n))
		nsp := unionNulls(n, r)
		if k.zeroNull {
			markZeroDivisor(nsp, ys)
		}
		return vector.NewFixed(rt, rs, nsp)
	case r.IsConst():
		y := vector.GetFixedAt[T](r, 0)
		if k.zeroNull && y == 0 {
			return vector.NewConstNull(rt, n)
		}
		rs := k.vs(vector.MustFixedCol[T](l)[:n], y, make([]T, n))
		return vector.NewFixed(rt, rs, unionNulls(n, l))
	case sels != nil:
		rows := sels.Rows()
		ys := vector.MustFixedCol[T](r)
		rs := k.vvSels(vector.MustFixedCol[T](l), ys, make([]T, n), rows)
		nsp := filterNulls(rows, l, r)
		if k.zeroNull {
			for i, row := range rows {
				if ys[row] == 0 {
					nulls.Add(nsp, uint64(i))
				}
			}
		}
		return vector.NewFixed(rt, rs, nsp)
	default:
		ys := vector.MustFixedCol[T](r)[:n]
		rs := k.vv(vector.MustFixedCol[T](l)[:n], ys, make([]T, n))
		nsp := unionNulls(n, l, r)
		if k.zeroNull {
			markZeroDivisor(nsp, ys)
		}
		return vector.NewFixed(rt, rs, nsp)
	}
}

func markZeroDivisor[T types.Numeric](nsp *nulls.Nulls, ys []T) {
	for i, y := range ys {
		if y == 0 {
			nulls.Add(nsp, uint64(i))
		}
	}
}

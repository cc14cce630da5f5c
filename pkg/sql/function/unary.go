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
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/vectorize/abs"
	"github.com/polystore/polystore/pkg/vectorize/neg"
)

type unaryOp uint8

const (
	opNeg unaryOp = iota
	opAbs
)

// Unary is a numeric function of one operand keeping the operand type.
type Unary struct {
	name string
	op   unaryOp
}

var (
	Negate = &Unary{name: "neg", op: opNeg}
	Abs    = &Unary{name: "abs", op: opAbs}
)

func (f *Unary) Name() string {
	return f.name
}

func (f *Unary) Arity() int {
	return 1
}

func (f *Unary) ReturnType(args ...types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	if args[0].Oid != ScalarNull && !args[0].IsNumeric() {
		return types.Type{}, moerr.NewTypeMismatchNoCtx(f.name, 0, args[0].String(), "expected a numeric type")
	}
	return args[0], nil
}

func (f *Unary) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	rt, err := f.ReturnType(args[0].GetType())
	if err != nil {
		return nil, err
	}
	n := outputLength(args, sels)
	if anyNullArg(args) {
		return vector.NewConstNull(rt, n), nil
	}
	vs, sels := prepare(args, sels)
	switch rt.Oid {
	case types.T_int32:
		return unary(unaryKernelsOf[int32](f.op), rt, vs[0], sels, n), nil
	case types.T_int64:
		return unary(unaryKernelsOf[int64](f.op), rt, vs[0], sels, n), nil
	case types.T_float32:
		return unary(unaryKernelsOf[float32](f.op), rt, vs[0], sels, n), nil
	case types.T_float64:
		return unary(unaryKernelsOf[float64](f.op), rt, vs[0], sels, n), nil
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected result type %s of %s", rt, f.name))
	}
}

type unaryKernels[T types.Numeric] struct {
	v     func([]T, []T) []T
	vSels func([]T, []T, []int64) []T
}

func unaryKernelsOf[T types.Numeric](op unaryOp) unaryKernels[T] {
	var zero T
	var k any
	switch any(zero).(type) {
	case int32:
		switch op {
		case opNeg:
			k = unaryKernels[int32]{neg.Int32Neg, neg.Int32NegSels}
		case opAbs:
			k = unaryKernels[int32]{abs.Int32Abs, abs.Int32AbsSels}
		}
	case int64:
		switch op {
		case opNeg:
			k = unaryKernels[int64]{neg.Int64Neg, neg.Int64NegSels}
		case opAbs:
			k = unaryKernels[int64]{abs.Int64Abs, abs.Int64AbsSels}
		}
	case float32:
		switch op {
		case opNeg:
			k = unaryKernels[float32]{neg.Float32Neg, neg.Float32NegSels}
		case opAbs:
			k = unaryKernels[float32]{abs.Float32Abs, abs.Float32AbsSels}
		}
	case float64:
		switch op {
		case opNeg:
			k = unaryKernels[float64]{neg.Float64Neg, neg.Float64NegSels}
		case opAbs:
			k = unaryKernels[float64]{abs.Float64Abs, abs.Float64AbsSels}
		}
	}
	if k == nil {
		panic(moerr.NewInternalErrorNoCtx("unknown unary op %d", op))
	}
	return k.(unaryKernels[T])
}

func unary[T types.Numeric](k unaryKernels[T], rt types.Type, v *vector.Vector, sels *selection.Selection, n int) *vector.Vector {
	switch {
	case v.IsConst():
		rs := k.v([]T{vector.GetFixedAt[T](v, 0)}, make([]T, 1))
		return vector.NewConst(rt, rs[0], n)
	case sels != nil:
		rows := sels.Rows()
		rs := k.vSels(vector.MustFixedCol[T](v), make([]T, n), rows)
		return vector.NewFixed(rt, rs, filterNulls(rows, v))
	default:
		rs := k.v(vector.MustFixedCol[T](v)[:n], make([]T, n))
		return vector.NewFixed(rt, rs, unionNulls(n, v))
	}
}

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
	"math"
	"testing"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/stretchr/testify/require"
)

func int64Vec(vals ...any) *vector.Vector {
	return vector.MustFromValues(types.T_int64.ToType(), vals...)
}

func TestNullPropagation(t *testing.T) {
	a := int64Vec(int64(1), nil, int64(3))
	b := int64Vec(int64(4), int64(5), nil)
	for _, f := range []*Arithmetic{Add, Minus, Multiply, Ratio, Mod} {
		rs, err := f.Eval([]*vector.Vector{a, b}, nil)
		require.NoError(t, err)
		require.Equal(t, 3, rs.Length())
		require.False(t, rs.IsNull(0), f.Name())
		require.True(t, rs.IsNull(1), f.Name())
		require.True(t, rs.IsNull(2), f.Name())
	}
	rs, err := Multiply.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(4), rs.Value(0))
}

func TestPromotion(t *testing.T) {
	a := vector.MustFromValues(types.T_int32.ToType(), int32(3), int32(7))
	b := vector.MustFromValues(types.T_float32.ToType(), float32(2), float32(0.5))

	rs1, err := Multiply.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	rs2, err := Multiply.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, rs1.GetType().Oid)
	require.True(t, vector.Equal(rs1, rs2))
	require.Equal(t, []float64{6, 3.5}, vector.MustFixedCol[float64](rs1))

	rs, err := Add.Eval([]*vector.Vector{a, a}, nil)
	require.NoError(t, err)
	require.Equal(t, types.T_int32, rs.GetType().Oid)
	require.Equal(t, []int32{6, 14}, vector.MustFixedCol[int32](rs))
}

func TestRatio(t *testing.T) {
	a := int64Vec(int64(7), int64(1), int64(-1))
	b := int64Vec(int64(2), int64(0), int64(0))
	rs, err := Ratio.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, rs.GetType().Oid)
	xs := vector.MustFixedCol[float64](rs)
	require.Equal(t, 3.5, xs[0])
	require.True(t, math.IsInf(xs[1], 1))
	require.True(t, math.IsInf(xs[2], -1))

	f32 := vector.MustFromValues(types.T_float32.ToType(), float32(1))
	rt, err := Ratio.ReturnType(f32.GetType(), f32.GetType())
	require.NoError(t, err)
	require.Equal(t, types.T_float32, rt.Oid)
}

func TestMod(t *testing.T) {
	a := int64Vec(int64(7), int64(-7), int64(5))
	b := int64Vec(int64(3), int64(3), int64(0))
	rs, err := Mod.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), rs.Value(0))
	require.Equal(t, int64(-1), rs.Value(1))
	require.Nil(t, rs.Value(2))

	zero := vector.NewConst(types.T_int64.ToType(), int64(0), 3)
	rs, err = Mod.Eval([]*vector.Vector{a, zero}, nil)
	require.NoError(t, err)
	require.True(t, rs.AllNull())

	fa := vector.MustFromValues(types.T_float64.ToType(), 5.5)
	fb := vector.MustFromValues(types.T_float64.ToType(), 2.0)
	rs, err = Mod.Eval([]*vector.Vector{fa, fb}, nil)
	require.NoError(t, err)
	require.Equal(t, 1.5, rs.Value(0))
}

func TestTypeError(t *testing.T) {
	a := int64Vec(int64(1))
	s := vector.NewStrings([]string{"x"}, nil)
	_, err := Add.Eval([]*vector.Vector{a, s}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
	require.Contains(t, err.Error(), "argument 1")
	require.Contains(t, err.Error(), "BINARY")

	_, err = Negate.Eval([]*vector.Vector{s}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = Add.Eval([]*vector.Vector{a}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrArityMismatch))
}

func TestScalarNull(t *testing.T) {
	a := int64Vec(int64(1), int64(2), int64(3))
	null := vector.NewConstNull(types.T_any.ToType(), 3)
	rs, err := Add.Eval([]*vector.Vector{a, null}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, rs.Length())
	require.Equal(t, types.T_int64, rs.GetType().Oid)
	require.True(t, rs.AllNull())

	rs, err = Add.Eval([]*vector.Vector{a, null}, selection.New(0, 2))
	require.NoError(t, err)
	require.Equal(t, 2, rs.Length())
}

func TestShortestLength(t *testing.T) {
	a := int64Vec(int64(1), int64(2), int64(3))
	b := int64Vec(int64(10), int64(20))
	rs, err := Add.Eval([]*vector.Vector{a, b}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{11, 22}, vector.MustFixedCol[int64](rs))
}

func TestEvalWithSelection(t *testing.T) {
	a := int64Vec(int64(1), nil, int64(3), int64(4))
	b := int64Vec(int64(10), int64(20), int64(30), int64(40))
	sels := selection.New(3, 1, 0)

	rs, err := Add.Eval([]*vector.Vector{a, b}, sels)
	require.NoError(t, err)
	require.Equal(t, 3, rs.Length())
	require.Equal(t, int64(44), rs.Value(0))
	require.Nil(t, rs.Value(1))
	require.Equal(t, int64(11), rs.Value(2))

	// constant operand and an absent entry take the gathering path
	c := vector.NewConst(types.T_int64.ToType(), int64(2), 4)
	rs, err = Multiply.Eval([]*vector.Vector{a, c}, sels.WithAbsent(2))
	require.NoError(t, err)
	require.Equal(t, int64(8), rs.Value(0))
	require.Nil(t, rs.Value(1))
	require.Nil(t, rs.Value(2))

	rs, err = Negate.Eval([]*vector.Vector{a}, selection.New(2, 3))
	require.NoError(t, err)
	require.Equal(t, []int64{-3, -4}, vector.MustFixedCol[int64](rs))

	rs, err = Abs.Eval([]*vector.Vector{vector.NewConst(types.T_int32.ToType(), int32(-5), 2)}, nil)
	require.NoError(t, err)
	require.True(t, rs.IsConst())
	require.Equal(t, int32(5), rs.Value(1))
}

func TestDictionaryOperand(t *testing.T) {
	dict := int64Vec(int64(100), int64(200))
	d := vector.NewDict([]int32{1, 0, 1}, dict, nulls.Build(2))
	rs, err := Minus.Eval([]*vector.Vector{d, int64Vec(int64(1), int64(2), int64(3))}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(199), rs.Value(0))
	require.Equal(t, int64(98), rs.Value(1))
	require.Nil(t, rs.Value(2))
}

func TestEvalInto(t *testing.T) {
	dest := make([]int64, 3)
	rs := EvalInto(Multiply, []int64{1, 2, 3}, []int64{4, 5}, dest)
	require.Equal(t, []int64{4, 10}, rs)

	require.Panics(t, func() {
		EvalInto(Multiply, []int64{1, 2, 3}, []int64{4, 5, 6}, make([]int64, 2))
	})
	require.Panics(t, func() {
		EvalInto(Ratio, []int64{1}, []int64{1}, make([]int64, 1))
	})
}

func TestCast(t *testing.T) {
	f := MustLookup("cast")
	rs, err := f.Eval([]*vector.Vector{int64Vec(int64(1), nil)}, nil)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, rs.GetType().Oid)
	require.Equal(t, 1.0, rs.Value(0))
	require.Nil(t, rs.Value(1))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"+", "MULTIPLY", "ratio", "%", ">=", "and", "like"} {
		_, err := Lookup(name)
		require.NoError(t, err, name)
	}
	_, err := Lookup("nope")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNYI))
}

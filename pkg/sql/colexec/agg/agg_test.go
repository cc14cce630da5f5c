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

package agg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

var (
	tInt32   = types.T_int32.ToType()
	tInt64   = types.T_int64.ToType()
	tFloat64 = types.T_float64.ToType()
	tBinary  = types.T_binary.ToType()
	tBool    = types.T_bool.ToType()
)

// run folds each vector into its own state, merges the states left to
// right and evaluates the result.
func run(t *testing.T, name string, typ types.Type, vecs ...*vector.Vector) any {
	a, err := New(name, typ)
	require.NoError(t, err)
	acc := a.NewState()
	for _, vec := range vecs {
		st := a.NewState()
		require.NoError(t, a.Accumulate(st, vec))
		require.NoError(t, a.Merge(acc, st))
	}
	res, err := a.Evaluate([]State{acc})
	require.NoError(t, err)
	require.Equal(t, 1, res.Length())
	require.True(t, res.GetType().Eq(a.OutputType()))
	return res.Value(0)
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		a, err := New(name, tInt64)
		require.NoError(t, err, name)
		require.Equal(t, name, a.Name())
		require.True(t, a.InputType().Eq(tInt64))
	}

	_, err := New("median", tInt64)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNYI))

	_, err = New(SumName, tBinary)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
	_, err = New(AvgName, tBool)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = New(CountStar, types.T_any.ToType())
	require.NoError(t, err)

	require.Panics(t, func() { Must("median", tInt64) })
}

func TestCount(t *testing.T) {
	flat := vector.MustFromValues(tInt64, int64(1), nil, int64(3))
	require.Equal(t, int64(2), run(t, CountName, tInt64, flat))
	require.Equal(t, int64(3), run(t, CountStar, tInt64, flat))

	c := vector.NewConst(tInt64, int64(7), 4)
	n := vector.NewConstNull(tInt64, 5)
	require.Equal(t, int64(6), run(t, CountName, tInt64, flat, c, n))
	require.Equal(t, int64(12), run(t, CountStar, tInt64, flat, c, n))

	dict := vector.MustFromValues(tBinary, "a", nil)
	d := vector.NewDict([]int32{0, 1, 0, 1}, dict, nil)
	require.Equal(t, int64(2), run(t, CountName, tBinary, d))

	require.Equal(t, int64(0), run(t, CountName, tInt64))
}

func TestSum(t *testing.T) {
	v := vector.MustFromValues(tInt32, int32(1), int32(2), nil, int32(4))
	require.Equal(t, int64(7), run(t, SumName, tInt32, v))
	require.Equal(t, int64(7+3*5), run(t, SumName, tInt32, v, vector.NewConst(tInt32, int32(5), 3)))

	// no non-null input
	require.Nil(t, run(t, SumName, tInt32))
	require.Nil(t, run(t, SumName, tInt32, vector.NewConstNull(tInt32, 3)))
	require.Nil(t, run(t, SumName, tInt32, vector.NewConstNull(types.T_any.ToType(), 3)))

	f := vector.MustFromValues(tFloat64, 1.5, nil, 2.5)
	require.Equal(t, 4.0, run(t, SumName, tFloat64, f))

	a := Must(SumName, tInt32)
	require.True(t, a.OutputType().Eq(tInt64))
	require.True(t, Must(SumName, types.T_float32.ToType()).OutputType().Eq(tFloat64))
}

func TestAvg(t *testing.T) {
	v := vector.MustFromValues(tInt64, int64(1), nil, int64(4))
	require.Equal(t, 2.5, run(t, AvgName, tInt64, v))
	require.Equal(t, 1.75, run(t, AvgName, tInt64, v, vector.NewConst(tInt64, int64(1), 2)))
	require.Nil(t, run(t, AvgName, tInt64, vector.MustFromValues(tInt64, nil, nil)))
}

func TestMinMax(t *testing.T) {
	v := vector.MustFromValues(tInt64, int64(3), nil, int64(-2), int64(9))
	w := vector.MustFromValues(tInt64, int64(12), int64(-5))
	require.Equal(t, int64(-5), run(t, MinName, tInt64, v, w))
	require.Equal(t, int64(12), run(t, MaxName, tInt64, v, w))
	require.Nil(t, run(t, MaxName, tInt64, vector.MustFromValues(tInt64, nil)))

	b := vector.MustFromValues(tBool, false, nil, true)
	require.Equal(t, true, run(t, MaxName, tBool, b))
	require.Equal(t, false, run(t, MinName, tBool, b))

	s := vector.MustFromValues(tBinary, "pear", "apple", nil, "zoo")
	require.Equal(t, []byte("apple"), run(t, MinName, tBinary, s))
	require.Equal(t, []byte("zoo"), run(t, MaxName, tBinary, s))
}

func TestResultIsOwned(t *testing.T) {
	buf := []byte("abc")
	v := vector.NewBytes([][]byte{buf}, nil)
	for _, name := range []string{MinName, MaxName, FirstName, LastName} {
		a := Must(name, tBinary)
		st := a.NewState()
		require.NoError(t, a.Accumulate(st, v))
		buf[0] = 'x'
		res, err := a.Evaluate([]State{st})
		require.NoError(t, err)
		require.Equal(t, []byte("abc"), res.Value(0), name)
		buf[0] = 'a'
	}
}

func TestFirstLast(t *testing.T) {
	v := vector.MustFromValues(tInt32, nil, int32(1), int32(2), nil)
	w := vector.MustFromValues(tInt32, int32(3), nil)
	require.Equal(t, int32(1), run(t, FirstName, tInt32, v, w))
	require.Equal(t, int32(3), run(t, LastName, tInt32, v, w))
	require.Nil(t, run(t, FirstName, tInt32, vector.MustFromValues(tInt32, nil)))

	dict := vector.MustFromValues(tBinary, "a", "b")
	d := vector.NewDict([]int32{1, 0, 0}, dict, nil)
	require.Equal(t, []byte("b"), run(t, FirstName, tBinary, d))
	require.Equal(t, []byte("a"), run(t, LastName, tBinary, d))
}

func TestApproxCountDistinct(t *testing.T) {
	b := vector.NewBuilder(tInt64, 20000)
	for i := 0; i < 20000; i++ {
		vector.AppendFixed(b, int64(i%1000))
	}
	est := run(t, ApproxCountDistinctName, tInt64, b.Build()).(int64)
	require.InDelta(t, 1000, est, 30)

	s := vector.MustFromValues(tBinary, "a", "b", nil, "a")
	require.Equal(t, int64(2), run(t, ApproxCountDistinctName, tBinary, s, vector.NewConstBytes([]byte("b"), 4)))
	require.Equal(t, int64(0), run(t, ApproxCountDistinctName, tBinary))
}

func TestEvaluateManyStates(t *testing.T) {
	a := Must(SumName, tInt64)
	sts := []State{a.NewState(), a.NewState(), a.NewState()}
	require.NoError(t, a.Accumulate(sts[0], vector.MustFromValues(tInt64, int64(1), int64(2))))
	require.NoError(t, a.Accumulate(sts[2], vector.MustFromValues(tInt64, int64(5))))
	res, err := a.Evaluate(sts)
	require.NoError(t, err)
	require.Equal(t, "[3 null 5]", res.String())
}

func TestAccumulateErrors(t *testing.T) {
	a := Must(SumName, tInt32)
	err := a.Accumulate(a.NewState(), vector.MustFromValues(tInt64, int64(1)))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	err = a.Accumulate(Must(CountName, tInt32).NewState(), vector.MustFromValues(tInt32, int32(1)))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))

	c := Must(CountName, tInt32)
	require.True(t, moerr.IsMoErrCode(c.Merge(c.NewState(), a.NewState()), moerr.ErrInvalidState))
}

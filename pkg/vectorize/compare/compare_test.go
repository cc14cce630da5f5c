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

package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	xs := []int64{1, 5, 3, 4}
	ys := []int64{2, 5, 1, 4}
	rs := make([]int64, len(xs))
	require.Equal(t, []int64{1, 3}, Compare(NumericFunc[int64](EQ), xs, ys, rs))
	require.Equal(t, []int64{0}, Compare(NumericFunc[int64](LT), xs, ys, rs))
	require.Equal(t, []int64{2}, CompareSels(NumericFunc[int64](GT), xs, ys, rs, []int64{1, 2, 3}))
	require.Equal(t, []int64{1, 2, 3}, CompareScalar(NumericFunc[int64](LE), 3, xs, rs))
	require.Equal(t, []int64{3}, CompareByScalarSels(NumericFunc[int64](GE), xs, 4, rs, []int64{0, 3}))
	require.Equal(t, []int64{1}, CompareScalarSels(NumericFunc[int64](NE), 3, xs, rs, []int64{1, 2}))
	require.Equal(t, []int64{0, 2}, CompareByScalar(NumericFunc[int64](NE), xs, 5, rs)[:2])
}

func TestBytesAndBool(t *testing.T) {
	xs := [][]byte{[]byte("a"), []byte("b"), nil}
	ys := [][]byte{[]byte("b"), []byte("b"), []byte("")}
	rs := make([]int64, 3)
	require.Equal(t, []int64{0}, Compare(BytesFunc(LT), xs, ys, rs))
	require.Equal(t, []int64{1, 2}, Compare(BytesFunc(EQ), xs, ys, rs))

	bs := []bool{false, true}
	require.Equal(t, []int64{1}, CompareScalar(BoolFunc(LT), false, bs, rs))
	require.Equal(t, []int64{0, 1}, CompareScalar(BoolFunc(LE), false, bs, rs))
	require.Equal(t, []int64{1}, CompareByScalar(BoolFunc(GT), bs, false, rs))
}

func TestOp(t *testing.T) {
	for _, op := range []Op{EQ, NE, LT, LE, GT, GE} {
		require.Equal(t, op, op.Swap().Swap())
	}
	require.Equal(t, "<=", LE.String())
	require.Equal(t, GT, LT.Swap())
}

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

package filter

import (
	"testing"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/stretchr/testify/require"
)

func newKeyedBatch(t *testing.T) *batch.Batch {
	bat, err := batch.New([]types.Field{
		types.NewField("a", types.T_int64, nil),
		types.NewField("s", types.T_binary, nil),
		types.NewField("m.x", types.T_int32, nil),
		types.NewField("m.y", types.T_int32, nil),
	}, []*vector.Vector{
		vector.MustFromValues(types.T_int64.ToType(), int64(1), int64(2), int64(3), int64(4), int64(5)),
		vector.NewStrings([]string{"apple", "banana", "cherry", "avocado", "kiwi"}, nil),
		vector.MustFromValues(types.T_int32.ToType(), int32(0), int32(5), int32(0), int32(5), int32(5)),
		vector.MustFromValues(types.T_int32.ToType(), int32(5), int32(5), int32(0), int32(0), int32(5)),
	})
	require.NoError(t, err)
	key := vector.MustFromValues(types.T_int64.ToType(), int64(10), int64(11), int64(12), int64(13), int64(14))
	bat, err = bat.WithKey(nil, key)
	require.NoError(t, err)
	return bat
}

func rowsOf(sel *selection.Selection, n int) []int64 {
	if sel == nil {
		return selection.All(n).Rows()
	}
	return sel.Rows()
}

func filterRows(t *testing.T, f Filter, bat *batch.Batch) []int64 {
	p, err := Compile(f, bat.Schema())
	require.NoError(t, err, f.String())
	sel, err := p.Filter(bat, nil)
	require.NoError(t, err, f.String())
	return rowsOf(sel, bat.RowCount())
}

func TestCompile(t *testing.T) {
	bat := newKeyedBatch(t)
	cases := []struct {
		f    Filter
		rows []int64
	}{
		{NewAndFilter(NewKeyFilter(GE, 11), NewValueFilter("a", L, int64(5))), []int64{1, 2, 3}},
		{NewValueFilter("s", LIKE, "a%"), []int64{0, 3}},
		{NewValueFilter("s", NOT_LIKE, "a%"), []int64{1, 2, 4}},
		{NewValueFilter("s", LIKE, "_i%"), []int64{4}},
		{NewValueFilter("m.*", G, 1), []int64{0, 1, 3, 4}},
		{NewValueFilter("m.*", G_AND, 1), []int64{1, 4}},
		{NewValueFilter("z.*", E, 1), []int64{}},
		{NewPathFilter("a", L, "m.x"), []int64{1, 3}},
		{NewNotFilter(NewValueFilter("a", E, int64(3))), []int64{0, 1, 3, 4}},
		{NewOrFilter(NewKeyFilter(E, 14), NewValueFilter("a", LE, 1.5)), []int64{0, 4}},
		{NewBoolFilter(true), []int64{0, 1, 2, 3, 4}},
		{NewAndFilter(), []int64{0, 1, 2, 3, 4}},
		{NewOrFilter(), []int64{}},
	}
	for _, c := range cases {
		require.Equal(t, c.rows, filterRows(t, c.f, bat), c.f.String())
	}
}

func TestCompileReverseIsComplement(t *testing.T) {
	bat := newKeyedBatch(t)
	fs := []Filter{
		NewAndFilter(NewOrFilter(NewKeyFilter(G, 11), NewValueFilter("a", LE, int64(1))), NewValueFilter("s", NOT_LIKE, "%an%")),
		NewValueFilter("m.*", E, int32(5)),
		NewNotFilter(NewPathFilter("m.x", GE, "m.y")),
	}
	for _, f := range fs {
		rows := filterRows(t, f, bat)
		reversed := filterRows(t, Reverse(f), bat)
		seen := make(map[int64]bool)
		for _, row := range append(rows, reversed...) {
			require.False(t, seen[row], "%s: row %d matched twice", f, row)
			seen[row] = true
		}
		require.Len(t, seen, bat.RowCount(), f.String())
	}
}

func TestCompileErrors(t *testing.T) {
	bat := newKeyedBatch(t)
	schema := bat.Schema()

	_, err := Compile(NewValueFilter("a", LIKE, "x%"), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = Compile(NewValueFilter("s", G, int64(1)), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = Compile(NewValueFilter("nope", E, int64(1)), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = Compile(NewPathFilter("a", E, "nope"), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = Compile(NewValueFilter("a", E, struct{}{}), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = Compile(NewKeyFilter(LIKE, 1), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = Compile(NewValueFilter("[*", E, int64(1)), schema)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	unkeyed := batch.MustNew(bat.Fields, bat.Vecs)
	_, err = Compile(NewKeyFilter(E, 1), unkeyed.Schema())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

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

package group

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
)

func newTestBatch(g []string, a []int64) *batch.Batch {
	return batch.MustNew(
		[]types.Field{
			types.NewField("g", types.T_binary, nil),
			types.NewField("a", types.T_int64, map[string]string{"host": "h1"}),
		},
		[]*vector.Vector{
			vector.NewStrings(g, nil),
			vector.NewFixed(types.T_int64.ToType(), a, nil),
		})
}

// collect drains table into key -> aggregate values.
func collect(t *testing.T, table *GroupTable) map[string][]any {
	res := make(map[string][]any)
	for !table.IsEmpty() {
		bat := table.Poll()
		for i := 0; i < bat.RowCount(); i++ {
			_, row := bat.Row(i)
			key := fmt.Sprintf("%s", row[0])
			_, dup := res[key]
			require.False(t, dup, key)
			res[key] = row[1:]
		}
	}
	require.Nil(t, table.Poll())
	return res
}

func TestGroupingCounts(t *testing.T) {
	bat := newTestBatch([]string{"a", "b", "a", "b", "a"}, []int64{1, 2, 3, 4, 5})
	for _, maxRows := range []int{1, 2, 5, 8} {
		b, err := NewBuilder(maxRows, bat.Schema(),
			[]expr.Expression{expr.NewFieldRef("g")},
			[]agg.Aggregate{{Name: agg.CountName, E: expr.NewFieldRef("a")}})
		require.NoError(t, err)
		require.NoError(t, b.Add(bat))
		require.Equal(t, 2, b.GroupCount())
		table, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, (2+maxRows-1)/maxRows, table.Len())
		require.Equal(t, map[string][]any{
			"a": {int64(3)},
			"b": {int64(2)},
		}, collect(t, table), "maxBatchRowCount %d", maxRows)
		b.Close()
	}
}

func TestBoundedBuffer(t *testing.T) {
	const maxRows = 64
	n := 10001
	g := make([]string, n)
	a := make([]int64, n)
	for i := range g {
		g[i] = "hot"
		a[i] = 1
	}
	g[5000] = "cold"

	b, err := NewBuilder(maxRows, newTestBatch(nil, nil).Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("a")}})
	require.NoError(t, err)
	defer b.Close()
	updates, largest := 0, 0
	b.SetObserver(func(size int) {
		updates++
		require.LessOrEqual(t, size, maxRows)
		if size > largest {
			largest = size
		}
	})
	require.NoError(t, b.Add(newTestBatch(g, a)))
	require.Equal(t, n, updates)
	require.Equal(t, maxRows, largest)

	table, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, map[string][]any{
		"hot":  {int64(10000)},
		"cold": {int64(1)},
	}, collect(t, table))
}

func TestSumByKeyOneGroupPerBatch(t *testing.T) {
	bat := newTestBatch([]string{"x", "x", "y"}, []int64{10, 20, 5})
	bat, err := bat.WithKey(nil, vector.NewFixed(types.T_int64.ToType(), []int64{0, 1, 2}, nil))
	require.NoError(t, err)

	b, err := NewBuilder(1, bat.Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("a")}})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Add(bat))
	table, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	schema := table.Schema()
	require.False(t, schema.HasKey())
	require.Equal(t, []string{"g", "sum(a)"}, schema.Attrs())
	require.Equal(t, "h1", schema.Fields[1].Tags["host"])
	require.True(t, schema.Fields[1].Type.Eq(types.T_int64.ToType()))

	got := make(map[string]int64)
	for !table.IsEmpty() {
		out := table.Poll()
		require.Equal(t, 1, out.RowCount())
		_, row := out.Row(0)
		got[string(row[0].([]byte))] = row[1].(int64)
	}
	require.Equal(t, map[string]int64{"x": 30, "y": 5}, got)
}

func TestMultiBatchAndChunks(t *testing.T) {
	b, err := NewBuilder(2, newTestBatch(nil, nil).Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{
			{Name: agg.CountStar},
			{Name: agg.MaxName, E: expr.NewFieldRef("a"), Alias: "top"},
		})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Add(newTestBatch([]string{"p", "q", "r"}, []int64{1, 2, 3})))
	require.NoError(t, b.Add(newTestBatch(nil, nil)))
	require.NoError(t, b.Add(newTestBatch([]string{"s", "t", "p"}, []int64{4, 5, 6})))
	require.Equal(t, 5, b.GroupCount())

	table, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, []string{"g", "count_star(*)", "top"}, table.Schema().Attrs())
	require.Equal(t, 3, table.Len())
	sizes := []int{}
	for !table.IsEmpty() {
		sizes = append(sizes, table.Poll().RowCount())
	}
	require.Equal(t, []int{2, 2, 1}, sizes)
}

func TestKeysByValue(t *testing.T) {
	dict := vector.MustFromValues(types.T_binary.ToType(), "u", "v")
	nsp := nulls.Build(4)
	g := vector.NewDict([]int32{0, 1, 0, 1, 0}, dict, nsp)
	bat1 := batch.MustNew([]types.Field{types.NewField("g", types.T_binary, nil)}, []*vector.Vector{g})
	bat2 := batch.MustNew([]types.Field{types.NewField("g", types.T_binary, nil)},
		[]*vector.Vector{vector.MustFromValues(types.T_binary.ToType(), "v", nil)})

	b, err := NewBuilder(8, bat1.Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{{Name: agg.CountStar}})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Add(bat1))
	require.NoError(t, b.Add(bat2))
	table, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, map[string][]any{
		"u":          {int64(2)},
		"v":          {int64(3)},
		"%!s(<nil>)": {int64(2)},
	}, collect(t, table))
}

func TestNoGroupKeys(t *testing.T) {
	b, err := NewBuilder(4, newTestBatch(nil, nil).Schema(), nil,
		[]agg.Aggregate{{Name: agg.AvgName, E: expr.NewFieldRef("a")}})
	require.NoError(t, err)
	defer b.Close()

	table, err := b.Build()
	require.NoError(t, err)
	require.True(t, table.IsEmpty())

	b, err = NewBuilder(4, newTestBatch(nil, nil).Schema(), nil,
		[]agg.Aggregate{{Name: agg.AvgName, E: expr.NewFieldRef("a")}})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Add(newTestBatch([]string{"a", "b"}, []int64{1, 2})))
	table, err = b.Build()
	require.NoError(t, err)
	out := table.Poll()
	require.Equal(t, 1, out.RowCount())
	_, row := out.Row(0)
	require.Equal(t, []any{1.5}, row)
}

func TestBuilderLifecycle(t *testing.T) {
	bat := newTestBatch([]string{"a"}, []int64{1})
	b, err := NewBuilder(2, bat.Schema(), []expr.Expression{expr.NewFieldRef("g")}, nil)
	require.NoError(t, err)
	require.Equal(t, Building, b.State())
	require.NoError(t, b.Add(bat))
	_, err = b.Build()
	require.NoError(t, err)
	require.Equal(t, Finished, b.State())

	err = b.Add(bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
	_, err = b.Build()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))

	b.Close()
	b.Close()
	require.Equal(t, Closed, b.State())

	// closing without building releases the groups
	b, err = NewBuilder(2, bat.Schema(), []expr.Expression{expr.NewFieldRef("g")}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Add(bat))
	b.Close()
	require.Equal(t, 0, b.GroupCount())
	require.Equal(t, Closed, b.State())
}

func TestBuilderErrors(t *testing.T) {
	schema := newTestBatch(nil, nil).Schema()
	_, err := NewBuilder(0, schema, nil, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	_, err = NewBuilder(1, schema, []expr.Expression{expr.NewFieldRef("nope")}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = NewBuilder(1, schema, nil, []agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("g")}})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = NewBuilder(1, schema, nil, []agg.Aggregate{{Name: "median", E: expr.NewFieldRef("a")}})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNYI))
}

func TestEncodeKey(t *testing.T) {
	bin := types.T_binary.ToType()
	l1 := vector.MustFromValues(bin, "ab", "a", nil, "")
	l2 := vector.MustFromValues(bin, "c", "bc", "", nil)
	vecs := []*vector.Vector{l1, l2}
	keys := make(map[string]struct{})
	for row := 0; row < 4; row++ {
		keys[string(encodeKey(nil, vecs, row))] = struct{}{}
	}
	require.Len(t, keys, 4)

	c := vector.NewConst(types.T_int32.ToType(), int32(7), 3)
	f := vector.MustFromValues(types.T_int32.ToType(), int32(7), int32(7), int32(8))
	require.Equal(t, encodeKey(nil, []*vector.Vector{c}, 2), encodeKey(nil, []*vector.Vector{f}, 1))
	require.NotEqual(t, encodeKey(nil, []*vector.Vector{c}, 2), encodeKey(nil, []*vector.Vector{f}, 2))

	m := newHashMap()
	id, inserted := m.Insert([]byte("k1"))
	require.True(t, inserted)
	require.Equal(t, 0, id)
	buf := []byte("k1")
	id, inserted = m.Insert(buf)
	require.False(t, inserted)
	require.Equal(t, 0, id)
	buf[0] = 'x'
	id, inserted = m.Insert([]byte("k1"))
	require.False(t, inserted)
	require.Equal(t, 0, id)
	require.Equal(t, 1, m.Len())
}

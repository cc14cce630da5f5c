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

package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/logutil"
)

func testSchema() Schema {
	return NewSchema(KeyField(),
		types.NewField("a", types.T_int64, nil),
		types.NewField("g", types.T_binary, map[string]string{"src": "redis"}),
	)
}

func newTestBatch(t *testing.T) *Batch {
	b := NewBuilder(testSchema(), 4)
	for i, row := range [][]any{{int64(10), "x"}, {int64(20), "x"}, {nil, "y"}} {
		key := int64(i)
		require.NoError(t, b.Append(&key, row...))
	}
	return b.Build()
}

func TestBuilder(t *testing.T) {
	bat := newTestBatch(t)
	require.Equal(t, 3, bat.RowCount())
	require.True(t, bat.HasKey())
	require.True(t, bat.Schema().Equal(testSchema()))
	require.Equal(t, []string{"a", "g"}, bat.Attrs())
	require.Equal(t, 1, bat.ColumnIndex("g{src=redis}"))
	require.Nil(t, bat.GetVectorByName("missing"))

	key, vals := bat.Row(2)
	require.Equal(t, int64(2), *key)
	require.Equal(t, []any{nil, []byte("y")}, vals)

	b := NewBuilder(testSchema(), 1)
	require.Error(t, b.Append(nil, int64(1)))
	require.Error(t, b.Append(nil, "bad", "x"))
	// a failed row still keeps the columns aligned
	bad := b.Build()
	require.Equal(t, 1, bad.RowCount())
	require.Equal(t, bad.Vecs[0].Length(), bad.Key.Length())
}

func TestNew(t *testing.T) {
	fields := []types.Field{types.NewField("a", types.T_int32, nil)}
	_, err := New(fields, []*vector.Vector{vector.NewFixed(types.T_int64.ToType(), []int64{1}, nil)})
	require.Error(t, err)
	_, err = New(fields, nil)
	require.Error(t, err)

	bat := MustNew(fields, []*vector.Vector{vector.NewFixed(types.T_int32.ToType(), []int32{1, 2}, nil)})
	_, err = bat.WithKey(nil, vector.NewFixed(types.T_int64.ToType(), []int64{1}, nil))
	require.Error(t, err)
	kbat, err := bat.WithKey(nil, vector.NewFixed(types.T_int64.ToType(), []int64{5, 6}, nil))
	require.NoError(t, err)
	require.Equal(t, DefaultKeyName, kbat.Schema().Key.Name)
	require.False(t, bat.HasKey())

	require.Equal(t, 7, NewWithRowCount(7).RowCount())
}

func TestSliceShrink(t *testing.T) {
	bat := newTestBatch(t)
	s := bat.Slice(1, 3)
	require.Equal(t, 2, s.RowCount())
	key, vals := s.Row(0)
	require.Equal(t, int64(1), *key)
	require.Equal(t, []any{int64(20), []byte("x")}, vals)
	require.Panics(t, func() { bat.Slice(2, 4) })

	r := bat.Shrink(selection.New(2, 0))
	require.Equal(t, 2, r.RowCount())
	key, vals = r.Row(0)
	require.Equal(t, int64(2), *key)
	require.Nil(t, vals[0])
	require.Equal(t, 3, bat.Shrink(nil).RowCount())
	require.Equal(t, 0, bat.Shrink(selection.Empty()).RowCount())
}

func TestShrinkDictionary(t *testing.T) {
	dict := vector.NewStrings([]string{"x", "y"}, nil)
	g := vector.NewDict([]int32{0, 0, 1, 1}, dict, nulls.Build(3))
	bat := MustNew([]types.Field{types.NewField("g", types.T_binary, nil)}, []*vector.Vector{g})
	r := bat.Shrink(selection.New(3, 2))
	require.True(t, r.Vecs[0].IsDist())
	require.Equal(t, "[null y]", r.Vecs[0].String())
}

func TestDupClean(t *testing.T) {
	bat := newTestBatch(t)
	d := bat.Dup()
	vector.MustFixedCol[int64](d.Vecs[0])[0] = 99
	_, vals := bat.Row(0)
	require.Equal(t, int64(10), vals[0])

	bat.IncRef()
	bat.Clean()
	require.Equal(t, 3, bat.RowCount())
	bat.Clean()
	require.Equal(t, 0, bat.RowCount())
	require.Nil(t, bat.Vecs)
}

func TestCodec(t *testing.T) {
	bat := newTestBatch(t)
	data, err := bat.MarshalBinary()
	require.NoError(t, err)
	got := &Batch{}
	require.NoError(t, got.UnmarshalBinary(data))
	require.Equal(t, bat.String(), got.String())
	require.True(t, got.Schema().Equal(bat.Schema()))

	require.Error(t, (&Batch{}).UnmarshalBinary(data[:len(data)-3]))

	var buf bytes.Buffer
	require.NoError(t, EncodeCompressed(&buf, bat))
	got, err = DecodeCompressed(&buf)
	require.NoError(t, err)
	require.Equal(t, bat.String(), got.String())
}

func TestLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.log")
	defer logutil.SetupLogger(&logutil.LogConfig{Level: "info", Format: "console", DisableStore: true})

	b := NewBuilder(testSchema(), 1)
	key := int64(0)
	require.NoError(t, b.Append(&key, int64(7), "50%d off"))
	bat := b.Build()

	logutil.SetupLogger(&logutil.LogConfig{Level: "info", Format: "json", Filename: path})
	bat.Log("skipped")
	logutil.SetupLogger(&logutil.LogConfig{Level: "debug", Format: "json", Filename: path})
	bat.Log("discount")
	var none *Batch
	none.Log("nothing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "discount")
	require.Contains(t, out, "50%d off")
	require.NotContains(t, out, "%!")
	require.NotContains(t, out, "skipped")
	require.NotContains(t, out, "nothing")
}

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

package aggregation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

var testAggs = []agg.Aggregate{
	{Name: agg.CountStar},
	{Name: agg.SumName, E: expr.NewFieldRef("a")},
	{Name: agg.MinName, E: expr.NewFieldRef("s"), Alias: "first_name"},
}

func newTestBatch(a []any, s []any) *batch.Batch {
	return batch.MustNew(
		[]types.Field{types.NewField("a", types.T_int32, nil), types.NewField("s", types.T_binary, nil)},
		[]*vector.Vector{
			vector.MustFromValues(types.T_int32.ToType(), a...),
			vector.MustFromValues(types.T_binary.ToType(), s...),
		})
}

func newTestExecutor(t *testing.T) *Executor {
	proc := process.New(context.TODO(), "aggregation-test", process.Limitation{})
	e, err := NewExecutor(proc, newTestBatch(nil, nil).Schema(), testAggs)
	require.NoError(t, err)
	return e
}

func TestString(t *testing.T) {
	buf := new(bytes.Buffer)
	String(testAggs, buf)
	require.Equal(t, "aggregation([count_star(*), sum(a), first_name])", buf.String())
}

func TestAggregation(t *testing.T) {
	e := newTestExecutor(t)
	defer e.Close()
	schema, err := e.OutputSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"count_star(*)", "sum(a)", "first_name"}, schema.Attrs())

	require.NoError(t, e.Consume(newTestBatch([]any{int32(1), nil}, []any{"pear", "fig"})))
	require.NoError(t, e.Consume(newTestBatch(nil, nil)))
	require.NoError(t, e.Consume(newTestBatch([]any{int32(4)}, []any{nil})))

	bats, err := vm.Drain(e)
	require.NoError(t, err)
	require.Len(t, bats, 1)
	require.Equal(t, 1, bats[0].RowCount())
	_, row := bats[0].Row(0)
	require.Equal(t, []any{int64(3), int64(5), []byte("fig")}, row)
}

func TestAggregationNoInput(t *testing.T) {
	e := newTestExecutor(t)
	defer e.Close()
	bats, err := vm.Drain(e)
	require.NoError(t, err)
	require.Len(t, bats, 1)
	_, row := bats[0].Row(0)
	require.Equal(t, []any{int64(0), nil, nil}, row)
	require.False(t, e.CanProduce())
}

func TestAggregationProtocol(t *testing.T) {
	e := newTestExecutor(t)
	_, err := e.Produce()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
	require.NoError(t, e.Finish())
	require.True(t, moerr.IsMoErrCode(e.Consume(newTestBatch(nil, nil)), moerr.ErrPrecondition))
	_, err = e.Produce()
	require.NoError(t, err)
	_, err = e.Produce()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
	require.NoError(t, e.Close())
	_, err = e.OutputSchema()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
}

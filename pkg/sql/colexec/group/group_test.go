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
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

func newTestExecutor(t *testing.T, batchRows int64) *Executor {
	proc := process.New(context.TODO(), "group-test", process.Limitation{BatchRows: batchRows})
	e, err := NewExecutor(proc, newTestBatch(nil, nil).Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("a"), Alias: "sum_a"}})
	require.NoError(t, err)
	return e
}

func TestString(t *testing.T) {
	buf := new(bytes.Buffer)
	String([]expr.Expression{expr.NewFieldRef("g")}, []agg.Aggregate{
		{Name: agg.SumName, E: expr.NewFieldRef("a")},
		{Name: agg.CountStar},
	}, buf)
	require.Equal(t, "group([g], [sum(a), count_star(*)])", buf.String())
}

func TestExecutor(t *testing.T) {
	e := newTestExecutor(t, 1)
	defer e.Close()
	require.Equal(t, vm.Group, e.OpType())
	require.Equal(t, Building, e.Phase())

	require.NoError(t, e.Consume(newTestBatch([]string{"x", "x"}, []int64{10, 20})))
	require.NoError(t, e.Consume(newTestBatch([]string{"y"}, []int64{5})))
	require.False(t, e.CanProduce())

	bats, err := vm.Drain(e)
	require.NoError(t, err)
	require.Len(t, bats, 2)
	require.Equal(t, Draining, e.Phase())
	require.False(t, e.CanProduce())

	schema, err := e.OutputSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"g", "sum_a"}, schema.Attrs())

	sums := map[string]int64{}
	for _, bat := range bats {
		_, row := bat.Row(0)
		sums[string(row[0].([]byte))] = row[1].(int64)
	}
	require.Equal(t, map[string]int64{"x": 30, "y": 5}, sums)

	require.NoError(t, e.Close())
	require.Equal(t, Closed, e.Phase())
}

func TestExecutorProtocol(t *testing.T) {
	e := newTestExecutor(t, 8)
	defer e.Close()

	_, err := e.Produce()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
	_, err = e.OutputSchema()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))

	require.NoError(t, e.Finish())
	require.False(t, e.CanProduce())
	_, err = e.Produce()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))

	err = e.Consume(newTestBatch([]string{"x"}, []int64{1}))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrPrecondition))
	require.True(t, moerr.IsMoErrCode(e.Finish(), moerr.ErrPrecondition))

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	require.True(t, moerr.IsMoErrCode(e.Consume(newTestBatch(nil, nil)), moerr.ErrPrecondition))
}

func TestExecutorCloseWhileBuilding(t *testing.T) {
	e := newTestExecutor(t, 8)
	require.NoError(t, e.Consume(newTestBatch([]string{"x"}, []int64{1})))
	require.NoError(t, e.Close())
	require.Equal(t, Closed, e.Phase())
	require.Equal(t, 0, e.Builder().GroupCount())
}

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

package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/lni/goutils/leaktest"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/colexec/aggregation"
	"github.com/polystore/polystore/pkg/sql/colexec/group"
	"github.com/polystore/polystore/pkg/sql/colexec/restrict"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/sql/filter"
	"github.com/polystore/polystore/pkg/stream"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/mock_vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

var testHeader = stream.Header{Fields: []types.Field{
	types.NewField("g", types.T_binary, nil),
	types.NewField("a", types.T_int64, nil),
}}

func testSource(t *testing.T, batchSize int, rows ...stream.Row) stream.BatchStream {
	bs, err := stream.ToBatchStream(stream.NewRowSlice(testHeader, rows), batchSize)
	require.NoError(t, err)
	return bs
}

func row(g string, a int64) stream.Row {
	return stream.Row{Values: []any{[]byte(g), a}}
}

func TestGroupPipeline(t *testing.T) {
	src := testSource(t, 2, row("x", 10), row("y", 5), row("x", 20), row("z", -1))
	keep, err := restrict.NewFromFilter(filter.NewValueFilter("a", filter.GE, int64(0)), src.Schema())
	require.NoError(t, err)
	proc := process.New(context.TODO(), "p0", process.Limitation{BatchRows: 1})
	sink, err := group.NewExecutor(proc, src.Schema(),
		[]expr.Expression{expr.NewFieldRef("g")},
		[]agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("a")}})
	require.NoError(t, err)

	p := New("p0", src, []vm.Operator{keep}, sink)
	require.Contains(t, p.String(), "-> group")
	bats, err := p.Execute(context.TODO())
	require.NoError(t, err)
	require.Len(t, bats, 2)
	got := map[string]int64{}
	for _, bat := range bats {
		require.Equal(t, 1, bat.RowCount())
		_, vals := bat.Row(0)
		got[string(vals[0].([]byte))] = vals[1].(int64)
	}
	require.Equal(t, map[string]int64{"x": 30, "y": 5}, got)
}

func TestSinkProtocol(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_vm.NewMockSink(ctrl)
	gomock.InOrder(
		sink.EXPECT().Consume(gomock.Any()).Return(nil).Times(3),
		sink.EXPECT().Finish().Return(nil),
		sink.EXPECT().CanProduce().Return(true),
		sink.EXPECT().Produce().Return(batch.NewWithRowCount(1), nil),
		sink.EXPECT().CanProduce().Return(false),
		sink.EXPECT().Close().Return(nil),
	)
	p := New("p1", testSource(t, 1, row("x", 1), row("y", 2), row("z", 3)), nil, sink)
	bats, err := p.Execute(context.TODO())
	require.NoError(t, err)
	require.Len(t, bats, 1)

	require.True(t, moerr.IsMoErrCode(p.Run(context.TODO()), moerr.ErrPrecondition))
}

func TestConsumeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_vm.NewMockSink(ctrl)
	sink.EXPECT().OpType().Return(vm.Aggregation).AnyTimes()
	sink.EXPECT().Consume(gomock.Any()).Return(moerr.NewInvalidInputNoCtx("bad batch"))
	sink.EXPECT().Close().Return(nil).MinTimes(1)

	_, err := New("p2", testSource(t, 1, row("x", 1), row("y", 2)), nil, sink).Execute(context.TODO())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestPanicIsRecovered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	op := mock_vm.NewMockOperator(ctrl)
	op.EXPECT().String().Return("boom").AnyTimes()
	op.EXPECT().Call(gomock.Any()).DoAndReturn(func(*batch.Batch) (*batch.Batch, error) {
		panic("boom")
	})
	sink := mock_vm.NewMockSink(ctrl)
	sink.EXPECT().OpType().Return(vm.Group).AnyTimes()
	sink.EXPECT().Close().Return(nil).MinTimes(1)

	_, err := New("p3", testSource(t, 1, row("x", 1)), []vm.Operator{op}, sink).Execute(context.TODO())
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
}

func TestCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_vm.NewMockSink(ctrl)
	sink.EXPECT().OpType().Return(vm.Group).AnyTimes()
	sink.EXPECT().Close().Return(nil).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("p4", testSource(t, 1, row("x", 1)), nil, sink).Execute(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	defer leaktest.AfterTest(t)()

	var ticks atomic.Int64
	stubs := gostub.Stub(&now, func() time.Time {
		return time.Unix(0, ticks.Add(int64(time.Millisecond)))
	})
	defer stubs.Reset()

	var ps []*Pipeline
	for i := 0; i < 8; i++ {
		src := testSource(t, 3, row("x", int64(i)), row("y", 1), row("x", 2))
		proc := process.New(context.TODO(), fmt.Sprintf("p%d", i), process.Limitation{})
		sink, err := aggregation.NewExecutor(proc, src.Schema(),
			[]agg.Aggregate{{Name: agg.SumName, E: expr.NewFieldRef("a")}})
		require.NoError(t, err)
		ps = append(ps, New(proc.Id, src, nil, sink))
	}
	results, err := RunAll(context.TODO(), ps, 3)
	require.NoError(t, err)
	require.Len(t, results, 8)
	require.Positive(t, ticks.Load())
	for i, r := range results {
		require.Equal(t, fmt.Sprintf("p%d", i), r.Id)
		require.NoError(t, r.Err)
		require.Len(t, r.Bat, 1)
		_, vals := r.Bat[0].Row(0)
		require.Equal(t, int64(i+3), vals[0])
	}

	_, err = RunAll(context.TODO(), nil, 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestRunAllError(t *testing.T) {
	defer leaktest.AfterTest(t)()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mock_vm.NewMockSink(ctrl)
	sink.EXPECT().OpType().Return(vm.Group).AnyTimes()
	sink.EXPECT().Consume(gomock.Any()).Return(moerr.NewInvalidInputNoCtx("bad batch"))
	sink.EXPECT().Close().Return(nil).MinTimes(1)

	proc := process.New(context.TODO(), "ok", process.Limitation{})
	src := testSource(t, 3, row("x", 1))
	ok, err := aggregation.NewExecutor(proc, src.Schema(), []agg.Aggregate{{Name: agg.CountStar}})
	require.NoError(t, err)

	results, err := RunAll(context.TODO(), []*Pipeline{
		New("ok", src, nil, ok),
		New("bad", testSource(t, 1, row("y", 2)), nil, sink),
	}, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
}

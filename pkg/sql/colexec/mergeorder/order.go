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

package mergeorder

import (
	"bytes"
	"cmp"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/logutil"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

const btreeDegree = 8

var _ vm.Sink = new(Executor)

func String(fs []Field, buf *bytes.Buffer) {
	buf.WriteString("τ([")
	for i, f := range fs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteString("])")
}

// NewExecutor merges batches of schema. Output batches hold at most the
// BatchRows limit of proc.
func NewExecutor(proc *process.Process, schema batch.Schema, fs []Field) (*Executor, error) {
	if len(fs) == 0 {
		return nil, moerr.NewInvalidInputNoCtx("merge order without sort keys")
	}
	for _, f := range fs {
		if _, err := f.E.ResultType(schema); err != nil {
			return nil, err
		}
	}
	return &Executor{
		SinkBase:  vm.SinkBase{Op: vm.MergeOrder, State: vm.Consuming},
		proc:      proc,
		fields:    fs,
		batchSize: int(proc.GetLim().BatchRows),
		schema:    schema,
		heap:      btree.New(btreeDegree),
		buf:       batch.NewBuilder(schema, 0),
	}, nil
}

func (ctr *Executor) OpType() vm.OpType {
	return vm.MergeOrder
}

// Consume keeps a zero copy slice of bat and its sort key columns.
func (ctr *Executor) Consume(bat *batch.Batch) error {
	if err := ctr.CheckConsume(); err != nil {
		return err
	}
	v2.MergeOrderExecBatchCounter.Inc()
	v2.MergeOrderExecRowCounter.Add(float64(bat.RowCount()))
	if bat.RowCount() == 0 {
		return nil
	}
	bat = bat.Slice(0, bat.RowCount())
	cols := make([]*vector.Vector, len(ctr.fields))
	for i, f := range ctr.fields {
		vec, err := f.E.Eval(bat, nil)
		if err != nil {
			return err
		}
		cols[i] = vec
	}
	ctr.batchList = append(ctr.batchList, bat)
	ctr.orderCols = append(ctr.orderCols, cols)
	ctr.indexList = append(ctr.indexList, 0)
	return nil
}

func (ctr *Executor) Finish() error {
	if err := ctr.CheckFinish(); err != nil {
		return err
	}
	for i := range ctr.batchList {
		ctr.heap.ReplaceOrInsert(&cursor{ctr: ctr, idx: i})
	}
	logutil.Debug("merge order executor finished",
		zap.String("pipeline", ctr.proc.Id),
		zap.Int("batches", len(ctr.batchList)))
	return nil
}

func (ctr *Executor) CanProduce() bool {
	return ctr.State == vm.Finished && ctr.heap.Len() > 0
}

// Produce pops the smallest head row until the output batch is full.
func (ctr *Executor) Produce() (*batch.Batch, error) {
	if err := ctr.CheckProduce(ctr.CanProduce()); err != nil {
		return nil, err
	}
	for ctr.buf.Len() < ctr.batchSize && ctr.heap.Len() > 0 {
		c := ctr.heap.DeleteMin().(*cursor)
		ctr.buf.AppendFrom(ctr.batchList[c.idx], ctr.indexList[c.idx])
		ctr.indexList[c.idx]++
		if ctr.indexList[c.idx] < ctr.batchList[c.idx].RowCount() {
			ctr.heap.ReplaceOrInsert(c)
		} else {
			ctr.batchList[c.idx] = nil
			ctr.orderCols[c.idx] = nil
		}
	}
	return ctr.buf.Build(), nil
}

func (ctr *Executor) OutputSchema() (batch.Schema, error) {
	if ctr.State == vm.Closed {
		return batch.Schema{}, ctr.CheckFinished("OutputSchema")
	}
	return ctr.schema, nil
}

func (ctr *Executor) Close() error {
	if !ctr.SinkBase.Close() {
		return nil
	}
	ctr.heap.Clear(false)
	ctr.batchList = nil
	ctr.orderCols = nil
	ctr.indexList = nil
	return nil
}

// Less orders cursors by their head rows, then by batch so that no two
// cursors are equal.
func (c *cursor) Less(than btree.Item) bool {
	o := than.(*cursor)
	ctr := c.ctr
	for i, f := range ctr.fields {
		a, b := ctr.orderCols[c.idx][i], ctr.orderCols[o.idx][i]
		x, y := ctr.indexList[c.idx], ctr.indexList[o.idx]
		an, bn := a.IsNull(x), b.IsNull(y)
		if an || bn {
			if an && bn {
				continue
			}
			return an
		}
		r := compareAt(a, x, b, y)
		if r == 0 {
			continue
		}
		if f.Desc {
			return r > 0
		}
		return r < 0
	}
	return c.idx < o.idx
}

// compareAt compares the non-null row i of a with row j of b.
func compareAt(a *vector.Vector, i int, b *vector.Vector, j int) int {
	switch a.GetType().Oid {
	case types.T_bool:
		x, y := vector.GetFixedAt[bool](a, i), vector.GetFixedAt[bool](b, j)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case types.T_int32:
		return cmp.Compare(vector.GetFixedAt[int32](a, i), vector.GetFixedAt[int32](b, j))
	case types.T_int64:
		return cmp.Compare(vector.GetFixedAt[int64](a, i), vector.GetFixedAt[int64](b, j))
	case types.T_float32:
		return cmp.Compare(vector.GetFixedAt[float32](a, i), vector.GetFixedAt[float32](b, j))
	case types.T_float64:
		return cmp.Compare(vector.GetFixedAt[float64](a, i), vector.GetFixedAt[float64](b, j))
	case types.T_binary:
		return bytes.Compare(vector.GetBytesAt(a, i), vector.GetBytesAt(b, j))
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected sort key type %s", a.GetType()))
}

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
	"fmt"

	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

var _ vm.Sink = new(Executor)

// String writes the plan of a grouped aggregation, group([g], [sum(a)]).
func String(keys []expr.Expression, aggs []agg.Aggregate, buf *bytes.Buffer) {
	buf.WriteString("group([")
	for i, e := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(fmt.Sprintf("%v", e))
	}
	buf.WriteString("], [")
	for i, ag := range aggs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(ag.String())
	}
	buf.WriteString("])")
}

// NewExecutor returns the sink grouping batches of schema by keys. Group
// buffers and output batches are bounded by the BatchRows limit of proc.
func NewExecutor(proc *process.Process, schema batch.Schema, keys []expr.Expression, aggs []agg.Aggregate) (*Executor, error) {
	b, err := NewBuilder(int(proc.GetLim().BatchRows), schema, keys, aggs)
	if err != nil {
		return nil, err
	}
	return &Executor{
		SinkBase: vm.SinkBase{Op: vm.Group, State: vm.Consuming},
		proc:     proc,
		builder:  b,
	}, nil
}

func (e *Executor) OpType() vm.OpType {
	return vm.Group
}

// Builder exposes the builder, to observe its buffers.
func (e *Executor) Builder() *Builder {
	return e.builder
}

func (e *Executor) Consume(bat *batch.Batch) error {
	if err := e.CheckConsume(); err != nil {
		return err
	}
	v2.GroupExecBatchCounter.Inc()
	v2.GroupExecRowCounter.Add(float64(bat.RowCount()))
	return e.builder.Add(bat)
}

func (e *Executor) Finish() error {
	if err := e.CheckFinish(); err != nil {
		return err
	}
	table, err := e.builder.Build()
	if err != nil {
		return err
	}
	e.table = table
	logutil.Debug("group executor finished",
		zap.String("pipeline", e.proc.Id),
		zap.Int("batches", table.Len()))
	return nil
}

func (e *Executor) CanProduce() bool {
	return e.State == vm.Finished && !e.table.IsEmpty()
}

func (e *Executor) Produce() (*batch.Batch, error) {
	if err := e.CheckProduce(e.CanProduce()); err != nil {
		return nil, err
	}
	e.draining = true
	return e.table.Poll(), nil
}

func (e *Executor) OutputSchema() (batch.Schema, error) {
	if err := e.CheckFinished("OutputSchema"); err != nil {
		return batch.Schema{}, err
	}
	return e.table.Schema(), nil
}

// Phase reports the builder state, Draining once the table is being
// polled.
func (e *Executor) Phase() State {
	if e.draining && e.builder.State() == Finished {
		return Draining
	}
	return e.builder.State()
}

func (e *Executor) Close() error {
	if !e.SinkBase.Close() {
		return nil
	}
	e.builder.Close()
	e.table.Close()
	return nil
}

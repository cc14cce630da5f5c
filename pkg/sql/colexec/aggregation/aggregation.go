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

	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

var _ vm.Sink = new(Executor)

func String(aggs []agg.Aggregate, buf *bytes.Buffer) {
	buf.WriteString("aggregation([")
	for i, ag := range aggs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(ag.String())
	}
	buf.WriteString("])")
}

func NewExecutor(proc *process.Process, schema batch.Schema, aggs []agg.Aggregate) (*Executor, error) {
	accs, inputs, outputs, err := agg.BindAll(aggs, schema)
	if err != nil {
		return nil, err
	}
	fields, err := expr.FieldsOf(inputs, schema)
	if err != nil {
		return nil, err
	}
	states := make([]agg.State, len(accs))
	for i, acc := range accs {
		states[i] = acc.NewState()
	}
	return &Executor{
		SinkBase: vm.SinkBase{Op: vm.Aggregation, State: vm.Consuming},
		proc:     proc,
		aggs:     aggs,
		accs:     accs,
		inputs:   inputs,
		schema:   batch.NewSchema(nil, outputs...),
		fields:   fields,
		states:   states,
	}, nil
}

func (e *Executor) OpType() vm.OpType {
	return vm.Aggregation
}

// Consume folds bat straight into the accumulator states.
func (e *Executor) Consume(bat *batch.Batch) error {
	if err := e.CheckConsume(); err != nil {
		return err
	}
	v2.AggregationExecBatchCounter.Inc()
	v2.AggregationExecRowCounter.Add(float64(bat.RowCount()))
	if bat.RowCount() == 0 {
		return nil
	}
	vals, err := expr.EvalAll(e.inputs, e.fields, bat)
	if err != nil {
		return err
	}
	for i, acc := range e.accs {
		if err := acc.Accumulate(e.states[i], vals.Vecs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) Finish() error {
	if err := e.CheckFinish(); err != nil {
		return err
	}
	logutil.Debug("aggregation executor finished", zap.String("pipeline", e.proc.Id))
	return nil
}

func (e *Executor) CanProduce() bool {
	return e.State == vm.Finished && !e.produced
}

func (e *Executor) Produce() (*batch.Batch, error) {
	if err := e.CheckProduce(e.CanProduce()); err != nil {
		return nil, err
	}
	if len(e.accs) == 0 {
		e.produced = true
		return batch.NewWithRowCount(1), nil
	}
	vecs := make([]*vector.Vector, len(e.accs))
	for i, acc := range e.accs {
		vec, err := acc.Evaluate(e.states[i : i+1])
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	bat, err := batch.New(e.schema.Fields, vecs)
	if err != nil {
		return nil, err
	}
	e.produced = true
	return bat, nil
}

// OutputSchema is known from the start.
func (e *Executor) OutputSchema() (batch.Schema, error) {
	if e.State == vm.Closed {
		return batch.Schema{}, e.CheckFinished("OutputSchema")
	}
	return e.schema, nil
}

func (e *Executor) Close() error {
	if !e.SinkBase.Close() {
		return nil
	}
	e.states = nil
	return nil
}

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
	"time"

	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
)

// NewBuilder groups batches of schema by keys and aggregates aggs within
// each group. A group buffers at most maxRows value rows before they are
// folded into its accumulator states.
func NewBuilder(maxRows int, schema batch.Schema, keys []expr.Expression, aggs []agg.Aggregate) (*Builder, error) {
	if maxRows <= 0 {
		return nil, moerr.NewInvalidArgNoCtx("maxBatchRowCount", maxRows)
	}
	keyFields, err := expr.FieldsOf(keys, schema)
	if err != nil {
		return nil, err
	}
	accs, inputs, aggFields, err := agg.BindAll(aggs, schema)
	if err != nil {
		return nil, err
	}
	valueFields, err := expr.FieldsOf(inputs, schema)
	if err != nil {
		return nil, err
	}
	return &Builder{
		state:       Building,
		maxRows:     maxRows,
		keyExprs:    keys,
		valueExprs:  inputs,
		accs:        accs,
		keyFields:   keyFields,
		valueFields: valueFields,
		aggFields:   aggFields,
		hashMap:     newHashMap(),
		keys:        batch.NewBuilder(batch.NewSchema(nil, keyFields...), 0),
	}, nil
}

func (b *Builder) SetObserver(fn BufferObserver) {
	b.observer = fn
}

func (b *Builder) State() State {
	return b.state
}

// Schema of the built batches: the key columns, then one column per
// aggregate.
func (b *Builder) Schema() batch.Schema {
	fields := make([]types.Field, 0, len(b.keyFields)+len(b.aggFields))
	fields = append(fields, b.keyFields...)
	fields = append(fields, b.aggFields...)
	return batch.NewSchema(nil, fields...)
}

// GroupCount returns the number of distinct keys seen so far.
func (b *Builder) GroupCount() int {
	return len(b.groups)
}

// Add routes every row of bat to its group. bat is not retained.
func (b *Builder) Add(bat *batch.Batch) error {
	if b.state != Building {
		return moerr.NewPreconditionNoCtx("add a batch to a %s group builder", b.state)
	}
	if bat.RowCount() == 0 {
		return nil
	}
	keys, err := expr.EvalAll(b.keyExprs, b.keyFields, bat)
	if err != nil {
		return err
	}
	rowGroups := make([]*GroupState, bat.RowCount())
	for row := range rowGroups {
		b.keyBuf = encodeKey(b.keyBuf[:0], keys.Vecs, row)
		id, inserted := b.hashMap.Insert(b.keyBuf)
		if inserted {
			b.groups = append(b.groups, b.newGroupState())
			b.keys.AppendFrom(keys, row)
			v2.GroupBuiltCounter.Inc()
		}
		rowGroups[row] = b.groups[id]
	}
	values, err := expr.EvalAll(b.valueExprs, b.valueFields, bat)
	if err != nil {
		return err
	}
	for row, gs := range rowGroups {
		if err := b.update(gs, values, row); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) newGroupState() *GroupState {
	gs := &GroupState{
		states: make([]agg.State, len(b.accs)),
		buffer: batch.NewBuilder(batch.NewSchema(nil, b.valueFields...), 0),
	}
	for i, acc := range b.accs {
		gs.states[i] = acc.NewState()
	}
	return gs
}

// update buffers one value row, flushing the buffer once it is full.
func (b *Builder) update(gs *GroupState, values *batch.Batch, row int) error {
	gs.buffer.AppendFrom(values, row)
	if b.observer != nil {
		b.observer(gs.buffer.Len())
	}
	if gs.buffer.Len() >= b.maxRows {
		return b.flush(gs)
	}
	return nil
}

func (b *Builder) flush(gs *GroupState) error {
	if gs.buffer.Len() == 0 {
		return nil
	}
	bat := gs.buffer.Build()
	for i, acc := range b.accs {
		if err := acc.Accumulate(gs.states[i], bat.Vecs[i]); err != nil {
			return err
		}
	}
	v2.GroupFlushCounter.Inc()
	return nil
}

// Build flushes every group and evaluates the groups in chunks of
// maxRows. The builder holds no group once it returns.
func (b *Builder) Build() (*GroupTable, error) {
	if b.state != Building {
		return nil, moerr.NewPreconditionNoCtx("build a %s group builder", b.state)
	}
	start := time.Now()
	for _, gs := range b.groups {
		if err := b.flush(gs); err != nil {
			return nil, err
		}
	}

	table := &GroupTable{schema: b.Schema()}
	keys := b.keys.Build()
	for i := 0; i < len(b.groups); i += b.maxRows {
		end := i + b.maxRows
		if end > len(b.groups) {
			end = len(b.groups)
		}
		bat, err := b.buildChunk(keys.Slice(i, end), b.groups[i:end])
		if err != nil {
			table.Close()
			return nil, err
		}
		table.bats = append(table.bats, bat)
	}
	logutil.Debug("group table built",
		zap.Int("groups", len(b.groups)),
		zap.Int("batches", len(table.bats)),
		zap.Duration("cost", time.Since(start)))

	b.free()
	b.state = Finished
	return table, nil
}

func (b *Builder) buildChunk(keys *batch.Batch, groups []*GroupState) (*batch.Batch, error) {
	schema := b.Schema()
	if len(schema.Fields) == 0 {
		return batch.NewWithRowCount(len(groups)), nil
	}
	vecs := make([]*vector.Vector, 0, len(schema.Fields))
	vecs = append(vecs, keys.Vecs...)
	states := make([]agg.State, len(groups))
	for i, acc := range b.accs {
		for j, gs := range groups {
			states[j] = gs.states[i]
		}
		vec, err := acc.Evaluate(states)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, vec)
	}
	return batch.New(schema.Fields, vecs)
}

func (b *Builder) free() {
	if b.hashMap != nil {
		b.hashMap.Free()
	}
	b.groups = nil
	b.keyBuf = nil
}

// Close releases every group, whether Build ran or not.
func (b *Builder) Close() {
	if b.state == Closed {
		return
	}
	b.free()
	b.keys = nil
	b.state = Closed
}

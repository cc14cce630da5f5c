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
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

type State int

const (
	Building State = iota
	Finished
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Finished:
		return "finished"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// BufferObserver is told the row count of a group buffer after each row
// appended to it.
type BufferObserver func(size int)

// GroupState holds the accumulator states of one group and the value rows
// not folded into them yet.
type GroupState struct {
	states []agg.State
	buffer *batch.Builder
}

// Builder folds batches into groups and then builds the GroupTable.
type Builder struct {
	state   State
	maxRows int

	keyExprs   []expr.Expression
	valueExprs []expr.Expression
	accs       []agg.Accumulator

	keyFields   []types.Field
	valueFields []types.Field
	aggFields   []types.Field

	hashMap *hashMap
	groups  []*GroupState
	// keys holds the key row of every group, in group id order
	keys *batch.Builder
	// keyBuf is reused to encode row keys
	keyBuf []byte

	observer BufferObserver
}

// GroupTable is the result of a Builder, batches of at most maxRows groups
// drained in order.
type GroupTable struct {
	schema batch.Schema
	bats   []*batch.Batch
}

// Executor is the sink of a grouped aggregation.
type Executor struct {
	vm.SinkBase
	proc    *process.Process
	builder *Builder
	table   *GroupTable

	draining bool
}

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

package vm

import (
	"github.com/polystore/polystore/pkg/container/batch"
)

type OpType int

const (
	Restrict OpType = iota
	Projection

	Aggregation
	Group
	MergeOrder
)

func (op OpType) String() string {
	switch op {
	case Restrict:
		return "restrict"
	case Projection:
		return "projection"
	case Aggregation:
		return "aggregation"
	case Group:
		return "group"
	case MergeOrder:
		return "merge_order"
	}
	return "unknown"
}

// Operator transforms one batch into another while streaming. Call may
// return an empty batch, never nil for a non-nil input.
type Operator interface {
	OpType() OpType
	Call(bat *batch.Batch) (*batch.Batch, error)
	String() string
}

// Sink consumes every input batch before it produces anything.
//
// The driver calls Consume for each batch, then Finish once, then Produce
// while CanProduce holds, and Close on every exit path. Calls out of this
// order fail with a precondition error. A batch passed to Consume is only
// borrowed for the duration of the call.
type Sink interface {
	OpType() OpType
	Consume(bat *batch.Batch) error
	Finish() error
	CanProduce() bool
	Produce() (*batch.Batch, error)
	// OutputSchema describes the produced batches. A grouped aggregation
	// only knows it after Finish.
	OutputSchema() (batch.Schema, error)
	Close() error
}

type SinkState int

const (
	Consuming SinkState = iota
	Finished
	Closed
)

func (s SinkState) String() string {
	switch s {
	case Consuming:
		return "consuming"
	case Finished:
		return "finished"
	case Closed:
		return "closed"
	}
	return "unknown"
}

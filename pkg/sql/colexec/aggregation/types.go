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
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

// Executor aggregates every input row into a single group. It produces
// exactly one row, also when no batch was consumed.
type Executor struct {
	vm.SinkBase
	proc *process.Process

	aggs   []agg.Aggregate
	accs   []agg.Accumulator
	inputs []expr.Expression
	schema batch.Schema
	// input fields of the accumulators
	fields []types.Field
	states []agg.State

	produced bool
}

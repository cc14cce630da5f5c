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
	"fmt"

	"github.com/google/btree"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/process"
)

const (
	Ascending  = "ASC"
	Descending = "DESC"
)

// Field is one sort key. Nulls sort first in both directions.
type Field struct {
	E    expr.Expression
	Desc bool
}

func (f Field) String() string {
	if f.Desc {
		return fmt.Sprintf("%s %s", f.E, Descending)
	}
	return fmt.Sprintf("%s %s", f.E, Ascending)
}

// Executor merges batches that are each sorted by Fields into batches of
// at most batchSize rows in global order.
type Executor struct {
	vm.SinkBase
	proc *process.Process

	fields    []Field
	batchSize int
	schema    batch.Schema

	// batchList holds a slice of every consumed batch
	batchList []*batch.Batch
	// orderCols[i] are the sort key columns of batchList[i]
	orderCols [][]*vector.Vector
	// indexList[i] is the next row of batchList[i] to merge
	indexList []int

	heap *btree.BTree
	buf  *batch.Builder
}

// cursor is the head row of one consumed batch in the heap.
type cursor struct {
	ctr *Executor
	idx int
}

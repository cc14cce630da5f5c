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

package expr

import (
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// Expression evaluates to exactly one column over a batch. With a non-nil
// selection only the selected rows are produced, in selection order.
// Evaluating twice over the same batch and selection gives the same column,
// and the batch is never modified.
type Expression interface {
	Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error)
	ResultType(schema batch.Schema) (types.Type, error)
	Children() []Expression
	String() string
}

// Predicate is a boolean expression that can also narrow a selection.
type Predicate interface {
	Expression
	// Filter returns the subset of sels (all rows when sels is nil) the
	// predicate holds for, as row offsets of bat. A nil result means every
	// input row matched.
	Filter(bat *batch.Batch, sels *selection.Selection) (*selection.Selection, error)
}

// isSimple reports whether e is a leaf reading the batch directly.
func isSimple(e Expression) bool {
	switch e.(type) {
	case *Literal, *FieldRef:
		return true
	}
	return false
}

func allSimple(es []Expression) bool {
	for _, e := range es {
		if !isSimple(e) {
			return false
		}
	}
	return true
}

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

package function

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

const (
	// ScalarNull is the type of an all-null operand, it matches every
	// parameter type.
	ScalarNull = types.T_any
)

// Function is a scalar function over columns.
//
// With a nil selection Eval computes every row, the result has the length
// of the shortest argument. With a selection it computes the selected rows
// only and the result has sels.Len() rows, an absent entry yields a null.
// Eval never modifies its arguments and always returns a new column.
type Function interface {
	Name() string
	Arity() int
	ReturnType(args ...types.Type) (types.Type, error)
	Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error)
}

// Comparison is a boolean function that can also answer which rows it
// holds for.
type Comparison interface {
	Function
	// Filter returns the rows where the function is true, null rows never
	// match. The result holds row offsets of the arguments: a subset of sels
	// in sels order, or ascending offsets when sels is nil.
	Filter(args []*vector.Vector, sels *selection.Selection) (*selection.Selection, error)
}

func checkArity(f Function, n int) error {
	if n != f.Arity() {
		return moerr.NewArityMismatchNoCtx(f.Name(), f.Arity(), n)
	}
	return nil
}

// outputLength is the number of rows a call over args produces.
func outputLength(args []*vector.Vector, sels *selection.Selection) int {
	if sels != nil {
		return sels.Len()
	}
	n := -1
	for _, arg := range args {
		if n < 0 || arg.Length() < n {
			n = arg.Length()
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

func anyNullArg(args []*vector.Vector) bool {
	for _, arg := range args {
		if arg.GetType().Oid == ScalarNull || arg.IsConstNull() {
			return true
		}
	}
	return false
}

// prepare brings args into a form the kernels take. When the result still
// carries a selection every argument is flat and the selection has no absent
// entry, otherwise the arguments were gathered and the selection is nil.
// Dictionary arguments are always decoded.
func prepare(args []*vector.Vector, sels *selection.Selection) ([]*vector.Vector, *selection.Selection) {
	gather := sels.HasAbsent()
	for _, arg := range args {
		if arg.IsDist() || arg.IsConst() {
			gather = true
		}
	}
	vs := make([]*vector.Vector, len(args))
	for i, arg := range args {
		if sels != nil && gather {
			arg = vector.Gather(arg, sels)
		}
		if arg.IsDist() {
			arg = vector.Decode(arg)
		}
		vs[i] = arg
	}
	if gather {
		return vs, nil
	}
	return vs, sels
}

// gatherAll returns args restricted to sels, dictionaries decoded.
func gatherAll(args []*vector.Vector, sels *selection.Selection) []*vector.Vector {
	vs := make([]*vector.Vector, len(args))
	for i, arg := range args {
		vs[i] = vector.Decode(vector.Gather(arg, sels))
	}
	return vs
}

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

package agg

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// State is the running value of one group for one accumulator. Only the
// accumulator that created a state may use it.
type State any

// Accumulator folds columns into per-group states and turns the states into
// one output row each.
type Accumulator interface {
	Name() string

	// InputType is the column type the accumulator was built for.
	InputType() types.Type

	// OutputType is the type of the column Evaluate returns.
	OutputType() types.Type

	// NewState returns the state of a group that has seen no rows.
	NewState() State

	// Accumulate folds the rows of vec into state, skipping nulls. vec
	// may be flat, constant or dictionary encoded and is not retained.
	Accumulate(state State, vec *vector.Vector) error

	// Merge folds from into into.
	Merge(into, from State) error

	// Evaluate returns one row per state, in order.
	Evaluate(states []State) (*vector.Vector, error)
}

// unaryAgg is an accumulator over a single typed column. T is the column
// element type and S the state.
type unaryAgg[T any, S any] struct {
	name string
	ityp types.Type
	otyp types.Type

	col func(*vector.Vector) []T
	at  func(*vector.Vector, int) T

	// fill folds vs[sels] into s, all of vs when sels is nil.
	fill func(s *S, vs []T, sels []int64)
	// fillConst folds n copies of v into s.
	fillConst func(s *S, v T, n int)
	merge     func(into, from *S)
	// eval returns the Go value of s, nil for null.
	eval func(s *S) any
}

func (a *unaryAgg[T, S]) Name() string {
	return a.name
}

func (a *unaryAgg[T, S]) InputType() types.Type {
	return a.ityp
}

func (a *unaryAgg[T, S]) OutputType() types.Type {
	return a.otyp
}

func (a *unaryAgg[T, S]) NewState() State {
	return new(S)
}

func (a *unaryAgg[T, S]) state(st State) (*S, error) {
	s, ok := st.(*S)
	if !ok {
		return nil, moerr.NewInvalidStateNoCtx("%T is not a state of %s(%s)", st, a.name, a.ityp)
	}
	return s, nil
}

func (a *unaryAgg[T, S]) Accumulate(st State, vec *vector.Vector) error {
	s, err := a.state(st)
	if err != nil {
		return err
	}
	if err := checkInput(a.name, a.ityp, vec); err != nil {
		return err
	}
	if vec.Length() == 0 || vec.AllNull() {
		return nil
	}
	if vec.IsConst() {
		a.fillConst(s, a.at(vec, 0), vec.Length())
		return nil
	}
	vec = vector.Decode(vec)
	if !vec.HasNull() {
		a.fill(s, a.col(vec)[:vec.Length()], nil)
		return nil
	}
	a.fill(s, a.col(vec), nonNullRows(vec))
	return nil
}

func (a *unaryAgg[T, S]) Merge(into, from State) error {
	x, err := a.state(into)
	if err != nil {
		return err
	}
	y, err := a.state(from)
	if err != nil {
		return err
	}
	a.merge(x, y)
	return nil
}

func (a *unaryAgg[T, S]) Evaluate(states []State) (*vector.Vector, error) {
	b := vector.NewBuilder(a.otyp, len(states))
	for _, st := range states {
		s, err := a.state(st)
		if err != nil {
			return nil, err
		}
		if err := b.Append(a.eval(s)); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func checkInput(name string, ityp types.Type, vec *vector.Vector) error {
	if typ := vec.GetType(); !typ.Eq(ityp) && !typ.IsNull() {
		return moerr.NewTypeMismatchNoCtx(name, 0, typ.String(), "expected "+ityp.String())
	}
	return nil
}

// nonNullRows returns the positions of vec that are not null.
func nonNullRows(vec *vector.Vector) []int64 {
	sels := make([]int64, 0, vec.Length())
	for i := 0; i < vec.Length(); i++ {
		if !vec.IsNull(i) {
			sels = append(sels, int64(i))
		}
	}
	return sels
}

func fixedAccess[T types.FixedSizeT]() (func(*vector.Vector) []T, func(*vector.Vector, int) T) {
	return vector.MustFixedCol[T], vector.GetFixedAt[T]
}

func bytesAccess() (func(*vector.Vector) [][]byte, func(*vector.Vector, int) []byte) {
	return vector.MustBytesCol, vector.GetBytesAt
}

func copyBytes(v []byte) []byte {
	return append([]byte(nil), v...)
}

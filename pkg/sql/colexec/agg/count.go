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

// Count counts rows, the non-null ones unless star is set. It accepts
// any input type.
type Count struct {
	ityp types.Type
	star bool
}

type countState struct {
	n int64
}

func NewCount(ityp types.Type, star bool) *Count {
	return &Count{ityp: ityp, star: star}
}

func (c *Count) Name() string {
	if c.star {
		return CountStar
	}
	return CountName
}

func (c *Count) InputType() types.Type {
	return c.ityp
}

func (c *Count) OutputType() types.Type {
	return types.T_int64.ToType()
}

func (c *Count) NewState() State {
	return &countState{}
}

func (c *Count) state(st State) (*countState, error) {
	s, ok := st.(*countState)
	if !ok {
		return nil, moerr.NewInvalidStateNoCtx("%T is not a state of %s", st, c.Name())
	}
	return s, nil
}

func (c *Count) Accumulate(st State, vec *vector.Vector) error {
	s, err := c.state(st)
	if err != nil {
		return err
	}
	if c.star {
		s.n += int64(vec.Length())
		return nil
	}
	if err := checkInput(c.Name(), c.ityp, vec); err != nil {
		return err
	}
	switch {
	case vec.AllNull():
	case vec.IsConst():
		s.n += int64(vec.Length())
	default:
		vec = vector.Decode(vec)
		s.n += int64(vec.Length() - vec.GetNulls().Count())
	}
	return nil
}

func (c *Count) Merge(into, from State) error {
	x, err := c.state(into)
	if err != nil {
		return err
	}
	y, err := c.state(from)
	if err != nil {
		return err
	}
	x.n += y.n
	return nil
}

func (c *Count) Evaluate(states []State) (*vector.Vector, error) {
	vs := make([]int64, len(states))
	for i, st := range states {
		s, err := c.state(st)
		if err != nil {
			return nil, err
		}
		vs[i] = s.n
	}
	return vector.NewFixed(types.T_int64.ToType(), vs, nil), nil
}

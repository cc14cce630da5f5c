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
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

type anyValueState[T any] struct {
	has bool
	v   T
}

// newAnyValue keeps the first non-null value seen, or the last when last
// is set. Merge treats from as the rows that came after into.
func newAnyValue[T any](ityp types.Type, last bool,
	col func(*vector.Vector) []T, at func(*vector.Vector, int) T, own func(T) T) Accumulator {
	name := FirstName
	if last {
		name = LastName
	}
	set := func(s *anyValueState[T], v T) {
		if !s.has || last {
			s.v = own(v)
			s.has = true
		}
	}
	return &unaryAgg[T, anyValueState[T]]{
		name: name,
		ityp: ityp,
		otyp: ityp,
		col:  col,
		at:   at,
		fill: func(s *anyValueState[T], vs []T, sels []int64) {
			switch {
			case sels == nil && len(vs) > 0:
				if last {
					set(s, vs[len(vs)-1])
				} else {
					set(s, vs[0])
				}
			case len(sels) > 0:
				if last {
					set(s, vs[sels[len(sels)-1]])
				} else {
					set(s, vs[sels[0]])
				}
			}
		},
		fillConst: func(s *anyValueState[T], v T, _ int) {
			set(s, v)
		},
		merge: func(x, y *anyValueState[T]) {
			if y.has {
				set(x, y.v)
			}
		},
		eval: func(s *anyValueState[T]) any {
			if !s.has {
				return nil
			}
			return s.v
		},
	}
}

func newAnyValueOf(ityp types.Type, last bool) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_bool:
		col, at := fixedAccess[bool]()
		return newAnyValue(ityp, last, col, at, identity[bool]), true
	case types.T_int32:
		col, at := fixedAccess[int32]()
		return newAnyValue(ityp, last, col, at, identity[int32]), true
	case types.T_int64:
		col, at := fixedAccess[int64]()
		return newAnyValue(ityp, last, col, at, identity[int64]), true
	case types.T_float32:
		col, at := fixedAccess[float32]()
		return newAnyValue(ityp, last, col, at, identity[float32]), true
	case types.T_float64:
		col, at := fixedAccess[float64]()
		return newAnyValue(ityp, last, col, at, identity[float64]), true
	case types.T_binary:
		col, at := bytesAccess()
		return newAnyValue(ityp, last, col, at, copyBytes), true
	}
	return nil, false
}

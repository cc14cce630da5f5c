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
	hll "github.com/axiomhq/hyperloglog"

	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

type approxState struct {
	sk *hll.Sketch
}

func (s *approxState) sketch() *hll.Sketch {
	if s.sk == nil {
		s.sk = hll.New()
	}
	return s.sk
}

// newApproxCountDistinct estimates the number of distinct non-null values.
// A group with no values reports 0.
func newApproxCountDistinct[T any](ityp types.Type,
	col func(*vector.Vector) []T, at func(*vector.Vector, int) T, encode func(T) []byte) Accumulator {
	return &unaryAgg[T, approxState]{
		name: ApproxCountDistinctName,
		ityp: ityp,
		otyp: types.T_int64.ToType(),
		col:  col,
		at:   at,
		fill: func(s *approxState, vs []T, sels []int64) {
			sk := s.sketch()
			if sels == nil {
				for _, v := range vs {
					sk.Insert(encode(v))
				}
				return
			}
			for _, sel := range sels {
				sk.Insert(encode(vs[sel]))
			}
		},
		fillConst: func(s *approxState, v T, _ int) {
			s.sketch().Insert(encode(v))
		},
		merge: func(x, y *approxState) {
			if y.sk == nil {
				return
			}
			// both sketches come from hll.New and share a precision
			_ = x.sketch().Merge(y.sk)
		},
		eval: func(s *approxState) any {
			if s.sk == nil {
				return int64(0)
			}
			return int64(s.sk.Estimate())
		},
	}
}

func newApproxOf(ityp types.Type) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_bool:
		col, at := fixedAccess[bool]()
		return newApproxCountDistinct(ityp, col, at, types.EncodeFixed[bool]), true
	case types.T_int32:
		col, at := fixedAccess[int32]()
		return newApproxCountDistinct(ityp, col, at, types.EncodeFixed[int32]), true
	case types.T_int64:
		col, at := fixedAccess[int64]()
		return newApproxCountDistinct(ityp, col, at, types.EncodeFixed[int64]), true
	case types.T_float32:
		col, at := fixedAccess[float32]()
		return newApproxCountDistinct(ityp, col, at, types.EncodeFixed[float32]), true
	case types.T_float64:
		col, at := fixedAccess[float64]()
		return newApproxCountDistinct(ityp, col, at, types.EncodeFixed[float64]), true
	case types.T_binary:
		col, at := bytesAccess()
		return newApproxCountDistinct(ityp, col, at, identity[[]byte]), true
	}
	return nil, false
}

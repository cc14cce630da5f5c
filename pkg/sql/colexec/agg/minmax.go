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
	"bytes"

	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/vectorize/max"
	"github.com/polystore/polystore/pkg/vectorize/min"
)

type extremeState[T any] struct {
	has bool
	v   T
}

// newExtreme keeps the value that better reports as preferred over the
// running one.
func newExtreme[T any](name string, ityp types.Type,
	col func(*vector.Vector) []T, at func(*vector.Vector, int) T,
	kernel func([]T) T, kernelSels func([]T, []int64) T,
	better func(x, y T) bool, own func(T) T) Accumulator {
	update := func(s *extremeState[T], v T) {
		if !s.has || better(v, s.v) {
			s.v = own(v)
			s.has = true
		}
	}
	return &unaryAgg[T, extremeState[T]]{
		name: name,
		ityp: ityp,
		otyp: ityp,
		col:  col,
		at:   at,
		fill: func(s *extremeState[T], vs []T, sels []int64) {
			switch {
			case sels == nil:
				if len(vs) > 0 {
					update(s, kernel(vs))
				}
			case len(sels) > 0:
				update(s, kernelSels(vs, sels))
			}
		},
		fillConst: func(s *extremeState[T], v T, _ int) {
			update(s, v)
		},
		merge: func(x, y *extremeState[T]) {
			if y.has {
				update(x, y.v)
			}
		},
		eval: func(s *extremeState[T]) any {
			if !s.has {
				return nil
			}
			return s.v
		},
	}
}

func greater[T types.Numeric](x, y T) bool { return x > y }
func less[T types.Numeric](x, y T) bool    { return x < y }

func identity[T any](v T) T { return v }

func newMaxOf(ityp types.Type) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_bool:
		col, at := fixedAccess[bool]()
		return newExtreme(MaxName, ityp, col, at, max.BoolMax, max.BoolMaxSels,
			func(x, y bool) bool { return x && !y }, identity[bool]), true
	case types.T_int32:
		col, at := fixedAccess[int32]()
		return newExtreme(MaxName, ityp, col, at, max.Int32Max, max.Int32MaxSels, greater[int32], identity[int32]), true
	case types.T_int64:
		col, at := fixedAccess[int64]()
		return newExtreme(MaxName, ityp, col, at, max.Int64Max, max.Int64MaxSels, greater[int64], identity[int64]), true
	case types.T_float32:
		col, at := fixedAccess[float32]()
		return newExtreme(MaxName, ityp, col, at, max.Float32Max, max.Float32MaxSels, greater[float32], identity[float32]), true
	case types.T_float64:
		col, at := fixedAccess[float64]()
		return newExtreme(MaxName, ityp, col, at, max.Float64Max, max.Float64MaxSels, greater[float64], identity[float64]), true
	case types.T_binary:
		col, at := bytesAccess()
		return newExtreme(MaxName, ityp, col, at, max.BytesMax, max.BytesMaxSels,
			func(x, y []byte) bool { return bytes.Compare(x, y) > 0 }, copyBytes), true
	}
	return nil, false
}

func newMinOf(ityp types.Type) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_bool:
		col, at := fixedAccess[bool]()
		return newExtreme(MinName, ityp, col, at, min.BoolMin, min.BoolMinSels,
			func(x, y bool) bool { return !x && y }, identity[bool]), true
	case types.T_int32:
		col, at := fixedAccess[int32]()
		return newExtreme(MinName, ityp, col, at, min.Int32Min, min.Int32MinSels, less[int32], identity[int32]), true
	case types.T_int64:
		col, at := fixedAccess[int64]()
		return newExtreme(MinName, ityp, col, at, min.Int64Min, min.Int64MinSels, less[int64], identity[int64]), true
	case types.T_float32:
		col, at := fixedAccess[float32]()
		return newExtreme(MinName, ityp, col, at, min.Float32Min, min.Float32MinSels, less[float32], identity[float32]), true
	case types.T_float64:
		col, at := fixedAccess[float64]()
		return newExtreme(MinName, ityp, col, at, min.Float64Min, min.Float64MinSels, less[float64], identity[float64]), true
	case types.T_binary:
		col, at := bytesAccess()
		return newExtreme(MinName, ityp, col, at, min.BytesMin, min.BytesMinSels,
			func(x, y []byte) bool { return bytes.Compare(x, y) < 0 }, copyBytes), true
	}
	return nil, false
}

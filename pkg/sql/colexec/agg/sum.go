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
	"github.com/polystore/polystore/pkg/vectorize/sum"
)

type intSumState struct {
	sum int64
	cnt int64
}

type floatSumState struct {
	sum float64
	cnt int64
}

func SumReturnType(ityp types.Type) types.Type {
	if ityp.IsFloat() {
		return types.T_float64.ToType()
	}
	return types.T_int64.ToType()
}

// newIntSum sums integers into an int64, wrapping on overflow.
func newIntSum[T types.Ints](ityp types.Type, kernel func([]T) int64, kernelSels func([]T, []int64) int64) Accumulator {
	col, at := fixedAccess[T]()
	return &unaryAgg[T, intSumState]{
		name: SumName,
		ityp: ityp,
		otyp: types.T_int64.ToType(),
		col:  col,
		at:   at,
		fill: func(s *intSumState, vs []T, sels []int64) {
			if sels == nil {
				s.sum += kernel(vs)
				s.cnt += int64(len(vs))
				return
			}
			s.sum += kernelSels(vs, sels)
			s.cnt += int64(len(sels))
		},
		fillConst: func(s *intSumState, v T, n int) {
			s.sum += int64(v) * int64(n)
			s.cnt += int64(n)
		},
		merge: func(x, y *intSumState) {
			x.sum += y.sum
			x.cnt += y.cnt
		},
		eval: func(s *intSumState) any {
			if s.cnt == 0 {
				return nil
			}
			return s.sum
		},
	}
}

func newFloatSum[T types.Floats](ityp types.Type, kernel func([]T) float64, kernelSels func([]T, []int64) float64) Accumulator {
	a := newFloatFold(ityp, kernel, kernelSels)
	a.name = SumName
	a.eval = func(s *floatSumState) any {
		if s.cnt == 0 {
			return nil
		}
		return s.sum
	}
	return a
}

// newAvg averages into a float64, integer inputs are summed exactly first.
func newAvg[T types.Numeric](ityp types.Type, kernel func([]T) float64, kernelSels func([]T, []int64) float64) Accumulator {
	a := newFloatFold(ityp, kernel, kernelSels)
	a.name = AvgName
	a.eval = func(s *floatSumState) any {
		if s.cnt == 0 {
			return nil
		}
		return s.sum / float64(s.cnt)
	}
	return a
}

func newFloatFold[T types.Numeric](ityp types.Type, kernel func([]T) float64, kernelSels func([]T, []int64) float64) *unaryAgg[T, floatSumState] {
	col, at := fixedAccess[T]()
	return &unaryAgg[T, floatSumState]{
		ityp: ityp,
		otyp: types.T_float64.ToType(),
		col:  col,
		at:   at,
		fill: func(s *floatSumState, vs []T, sels []int64) {
			if sels == nil {
				s.sum += kernel(vs)
				s.cnt += int64(len(vs))
				return
			}
			s.sum += kernelSels(vs, sels)
			s.cnt += int64(len(sels))
		},
		fillConst: func(s *floatSumState, v T, n int) {
			s.sum += float64(v) * float64(n)
			s.cnt += int64(n)
		},
		merge: func(x, y *floatSumState) {
			x.sum += y.sum
			x.cnt += y.cnt
		},
	}
}

// widen adapts an integer sum kernel to the float64 fold of avg.
func widen[T types.Ints](kernel func([]T) int64, kernelSels func([]T, []int64) int64) (func([]T) float64, func([]T, []int64) float64) {
	return func(vs []T) float64 {
			return float64(kernel(vs))
		}, func(vs []T, sels []int64) float64 {
			return float64(kernelSels(vs, sels))
		}
}

func newSumOf(ityp types.Type) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_int32:
		return newIntSum(ityp, sum.Int32Sum, sum.Int32SumSels), true
	case types.T_int64:
		return newIntSum(ityp, sum.Int64Sum, sum.Int64SumSels), true
	case types.T_float32:
		return newFloatSum(ityp, sum.Float32Sum, sum.Float32SumSels), true
	case types.T_float64:
		return newFloatSum(ityp, sum.Float64Sum, sum.Float64SumSels), true
	}
	return nil, false
}

func newAvgOf(ityp types.Type) (Accumulator, bool) {
	switch ityp.Oid {
	case types.T_int32:
		k, ks := widen(sum.Int32Sum, sum.Int32SumSels)
		return newAvg(ityp, k, ks), true
	case types.T_int64:
		k, ks := widen(sum.Int64Sum, sum.Int64SumSels)
		return newAvg(ityp, k, ks), true
	case types.T_float32:
		return newAvg(ityp, sum.Float32Sum, sum.Float32SumSels), true
	case types.T_float64:
		return newAvg(ityp, sum.Float64Sum, sum.Float64SumSels), true
	}
	return nil, false
}

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

package sum

import "github.com/polystore/polystore/pkg/container/types"

// Integer sums widen to int64 and float sums to float64.
var (
	Int32Sum       func([]int32) int64
	Int32SumSels   func([]int32, []int64) int64
	Int64Sum       func([]int64) int64
	Int64SumSels   func([]int64, []int64) int64
	Float32Sum     func([]float32) float64
	Float32SumSels func([]float32, []int64) float64
	Float64Sum     func([]float64) float64
	Float64SumSels func([]float64, []int64) float64
)

func init() {
	Int32Sum = intSum[int32]
	Int32SumSels = intSumSels[int32]
	Int64Sum = intSum[int64]
	Int64SumSels = intSumSels[int64]
	Float32Sum = floatSum[float32]
	Float32SumSels = floatSumSels[float32]
	Float64Sum = floatSum[float64]
	Float64SumSels = floatSumSels[float64]
}

func intSum[T types.Ints](xs []T) int64 {
	var res int64

	for _, x := range xs {
		res += int64(x)
	}
	return res
}

func intSumSels[T types.Ints](xs []T, sels []int64) int64 {
	var res int64

	for _, sel := range sels {
		res += int64(xs[sel])
	}
	return res
}

func floatSum[T types.Floats](xs []T) float64 {
	var res float64

	for _, x := range xs {
		res += float64(x)
	}
	return res
}

func floatSumSels[T types.Floats](xs []T, sels []int64) float64 {
	var res float64

	for _, sel := range sels {
		res += float64(xs[sel])
	}
	return res
}

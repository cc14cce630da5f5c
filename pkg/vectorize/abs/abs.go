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

package abs

import (
	"math"

	"github.com/polystore/polystore/pkg/container/types"
)

var (
	Int32Abs       func([]int32, []int32) []int32
	Int32AbsSels   func([]int32, []int32, []int64) []int32
	Int64Abs       func([]int64, []int64) []int64
	Int64AbsSels   func([]int64, []int64, []int64) []int64
	Float32Abs     func([]float32, []float32) []float32
	Float32AbsSels func([]float32, []float32, []int64) []float32
	Float64Abs     func([]float64, []float64) []float64
	Float64AbsSels func([]float64, []float64, []int64) []float64
)

func init() {
	Int32Abs = absSigned[int32]
	Int32AbsSels = absSignedSels[int32]
	Int64Abs = absSigned[int64]
	Int64AbsSels = absSignedSels[int64]
	Float32Abs = absFloat32
	Float32AbsSels = absFloat32Sels
	Float64Abs = absFloat64
	Float64AbsSels = absFloat64Sels
}

// abs of the minimum integer wraps to itself.
func absSigned[T types.Ints](xs, rs []T) []T {
	for i, x := range xs {
		if x < 0 {
			x = -x
		}
		rs[i] = x
	}
	return rs
}

func absSignedSels[T types.Ints](xs, rs []T, sels []int64) []T {
	for i, sel := range sels {
		x := xs[sel]
		if x < 0 {
			x = -x
		}
		rs[i] = x
	}
	return rs
}

func absFloat32(xs, rs []float32) []float32 {
	for i, x := range xs {
		rs[i] = float32(math.Abs(float64(x)))
	}
	return rs
}

func absFloat32Sels(xs, rs []float32, sels []int64) []float32 {
	for i, sel := range sels {
		rs[i] = float32(math.Abs(float64(xs[sel])))
	}
	return rs
}

func absFloat64(xs, rs []float64) []float64 {
	for i, x := range xs {
		rs[i] = math.Abs(x)
	}
	return rs
}

func absFloat64Sels(xs, rs []float64, sels []int64) []float64 {
	for i, sel := range sels {
		rs[i] = math.Abs(xs[sel])
	}
	return rs
}

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

package mul

import (
	"github.com/polystore/polystore/pkg/container/types"
)

var (
	Int32Mul           func([]int32, []int32, []int32) []int32
	Int32MulSels       func([]int32, []int32, []int32, []int64) []int32
	Int32MulScalar     func(int32, []int32, []int32) []int32
	Int32MulByScalar   func([]int32, int32, []int32) []int32
	Int64Mul           func([]int64, []int64, []int64) []int64
	Int64MulSels       func([]int64, []int64, []int64, []int64) []int64
	Int64MulScalar     func(int64, []int64, []int64) []int64
	Int64MulByScalar   func([]int64, int64, []int64) []int64
	Float32Mul         func([]float32, []float32, []float32) []float32
	Float32MulSels     func([]float32, []float32, []float32, []int64) []float32
	Float32MulScalar   func(float32, []float32, []float32) []float32
	Float32MulByScalar func([]float32, float32, []float32) []float32
	Float64Mul         func([]float64, []float64, []float64) []float64
	Float64MulSels     func([]float64, []float64, []float64, []int64) []float64
	Float64MulScalar   func(float64, []float64, []float64) []float64
	Float64MulByScalar func([]float64, float64, []float64) []float64
)

func init() {
	Int32Mul = mulGeneric[int32]
	Int32MulSels = mulSelsGeneric[int32]
	Int32MulScalar = mulScalarGeneric[int32]
	Int32MulByScalar = mulByScalarGeneric[int32]
	Int64Mul = mulGeneric[int64]
	Int64MulSels = mulSelsGeneric[int64]
	Int64MulScalar = mulScalarGeneric[int64]
	Int64MulByScalar = mulByScalarGeneric[int64]
	Float32Mul = mulGeneric[float32]
	Float32MulSels = mulSelsGeneric[float32]
	Float32MulScalar = mulScalarGeneric[float32]
	Float32MulByScalar = mulByScalarGeneric[float32]
	Float64Mul = mulGeneric[float64]
	Float64MulSels = mulSelsGeneric[float64]
	Float64MulScalar = mulScalarGeneric[float64]
	Float64MulByScalar = mulByScalarGeneric[float64]
}

func mulGeneric[T types.Numeric](xs, ys, rs []T) []T {
	for i, x := range xs {
		rs[i] = x * ys[i]
	}
	return rs
}

func mulSelsGeneric[T types.Numeric](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = xs[sel] * ys[sel]
	}
	return rs
}

func mulScalarGeneric[T types.Numeric](x T, ys, rs []T) []T {
	for i, y := range ys {
		rs[i] = x * y
	}
	return rs
}

func mulByScalarGeneric[T types.Numeric](xs []T, y T, rs []T) []T {
	return mulScalarGeneric(y, xs, rs)
}

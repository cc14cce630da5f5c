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

package add

import (
	"github.com/polystore/polystore/pkg/container/types"
)

var (
	Int32Add           func([]int32, []int32, []int32) []int32
	Int32AddSels       func([]int32, []int32, []int32, []int64) []int32
	Int32AddScalar     func(int32, []int32, []int32) []int32
	Int32AddByScalar   func([]int32, int32, []int32) []int32
	Int64Add           func([]int64, []int64, []int64) []int64
	Int64AddSels       func([]int64, []int64, []int64, []int64) []int64
	Int64AddScalar     func(int64, []int64, []int64) []int64
	Int64AddByScalar   func([]int64, int64, []int64) []int64
	Float32Add         func([]float32, []float32, []float32) []float32
	Float32AddSels     func([]float32, []float32, []float32, []int64) []float32
	Float32AddScalar   func(float32, []float32, []float32) []float32
	Float32AddByScalar func([]float32, float32, []float32) []float32
	Float64Add         func([]float64, []float64, []float64) []float64
	Float64AddSels     func([]float64, []float64, []float64, []int64) []float64
	Float64AddScalar   func(float64, []float64, []float64) []float64
	Float64AddByScalar func([]float64, float64, []float64) []float64
)

func init() {
	Int32Add = addGeneric[int32]
	Int32AddSels = addSelsGeneric[int32]
	Int32AddScalar = addScalarGeneric[int32]
	Int32AddByScalar = addByScalarGeneric[int32]
	Int64Add = addGeneric[int64]
	Int64AddSels = addSelsGeneric[int64]
	Int64AddScalar = addScalarGeneric[int64]
	Int64AddByScalar = addByScalarGeneric[int64]
	Float32Add = addGeneric[float32]
	Float32AddSels = addSelsGeneric[float32]
	Float32AddScalar = addScalarGeneric[float32]
	Float32AddByScalar = addByScalarGeneric[float32]
	Float64Add = addGeneric[float64]
	Float64AddSels = addSelsGeneric[float64]
	Float64AddScalar = addScalarGeneric[float64]
	Float64AddByScalar = addByScalarGeneric[float64]
}

func addGeneric[T types.Numeric](xs, ys, rs []T) []T {
	for i, x := range xs {
		rs[i] = x + ys[i]
	}
	return rs
}

func addSelsGeneric[T types.Numeric](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = xs[sel] + ys[sel]
	}
	return rs
}

func addScalarGeneric[T types.Numeric](x T, ys, rs []T) []T {
	for i, y := range ys {
		rs[i] = x + y
	}
	return rs
}

func addByScalarGeneric[T types.Numeric](xs []T, y T, rs []T) []T {
	return addScalarGeneric(y, xs, rs)
}

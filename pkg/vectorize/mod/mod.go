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

package mod

import (
	"math"

	"github.com/polystore/polystore/pkg/container/types"
)

// Integer kernels truncate toward zero and leave 0 in rows whose divisor is
// 0; the caller turns those rows into nulls. Float kernels follow math.Mod.
var (
	Int32Mod           func([]int32, []int32, []int32) []int32
	Int32ModSels       func([]int32, []int32, []int32, []int64) []int32
	Int32ModScalar     func(int32, []int32, []int32) []int32
	Int32ModByScalar   func([]int32, int32, []int32) []int32
	Int64Mod           func([]int64, []int64, []int64) []int64
	Int64ModSels       func([]int64, []int64, []int64, []int64) []int64
	Int64ModScalar     func(int64, []int64, []int64) []int64
	Int64ModByScalar   func([]int64, int64, []int64) []int64
	Float32Mod         func([]float32, []float32, []float32) []float32
	Float32ModSels     func([]float32, []float32, []float32, []int64) []float32
	Float32ModScalar   func(float32, []float32, []float32) []float32
	Float32ModByScalar func([]float32, float32, []float32) []float32
	Float64Mod         func([]float64, []float64, []float64) []float64
	Float64ModSels     func([]float64, []float64, []float64, []int64) []float64
	Float64ModScalar   func(float64, []float64, []float64) []float64
	Float64ModByScalar func([]float64, float64, []float64) []float64
)

func init() {
	Int32Mod = intModGeneric[int32]
	Int32ModSels = intModSelsGeneric[int32]
	Int32ModScalar = intModScalarGeneric[int32]
	Int32ModByScalar = intModByScalarGeneric[int32]
	Int64Mod = intModGeneric[int64]
	Int64ModSels = intModSelsGeneric[int64]
	Int64ModScalar = intModScalarGeneric[int64]
	Int64ModByScalar = intModByScalarGeneric[int64]
	Float32Mod = floatModGeneric[float32]
	Float32ModSels = floatModSelsGeneric[float32]
	Float32ModScalar = floatModScalarGeneric[float32]
	Float32ModByScalar = floatModByScalarGeneric[float32]
	Float64Mod = floatModGeneric[float64]
	Float64ModSels = floatModSelsGeneric[float64]
	Float64ModScalar = floatModScalarGeneric[float64]
	Float64ModByScalar = floatModByScalarGeneric[float64]
}

func intModGeneric[T types.Ints](xs, ys, rs []T) []T {
	for i, x := range xs {
		if ys[i] == 0 {
			rs[i] = 0
			continue
		}
		rs[i] = x % ys[i]
	}
	return rs
}

func intModSelsGeneric[T types.Ints](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		if ys[sel] == 0 {
			rs[i] = 0
			continue
		}
		rs[i] = xs[sel] % ys[sel]
	}
	return rs
}

func intModScalarGeneric[T types.Ints](x T, ys, rs []T) []T {
	for i, y := range ys {
		if y == 0 {
			rs[i] = 0
			continue
		}
		rs[i] = x % y
	}
	return rs
}

func intModByScalarGeneric[T types.Ints](xs []T, y T, rs []T) []T {
	if y == 0 {
		for i := range xs {
			rs[i] = 0
		}
		return rs
	}
	for i, x := range xs {
		rs[i] = x % y
	}
	return rs
}

func floatModGeneric[T types.Floats](xs, ys, rs []T) []T {
	for i, x := range xs {
		rs[i] = T(math.Mod(float64(x), float64(ys[i])))
	}
	return rs
}

func floatModSelsGeneric[T types.Floats](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = T(math.Mod(float64(xs[sel]), float64(ys[sel])))
	}
	return rs
}

func floatModScalarGeneric[T types.Floats](x T, ys, rs []T) []T {
	for i, y := range ys {
		rs[i] = T(math.Mod(float64(x), float64(y)))
	}
	return rs
}

func floatModByScalarGeneric[T types.Floats](xs []T, y T, rs []T) []T {
	for i, x := range xs {
		rs[i] = T(math.Mod(float64(x), float64(y)))
	}
	return rs
}

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

package div

import (
	"github.com/polystore/polystore/pkg/container/types"
)

// Division is only defined over floats, integer operands are promoted by
// the caller. Division by zero follows IEEE 754.
var (
	Float32Div         func([]float32, []float32, []float32) []float32
	Float32DivSels     func([]float32, []float32, []float32, []int64) []float32
	Float32DivScalar   func(float32, []float32, []float32) []float32
	Float32DivByScalar func([]float32, float32, []float32) []float32
	Float64Div         func([]float64, []float64, []float64) []float64
	Float64DivSels     func([]float64, []float64, []float64, []int64) []float64
	Float64DivScalar   func(float64, []float64, []float64) []float64
	Float64DivByScalar func([]float64, float64, []float64) []float64
)

func init() {
	Float32Div = divGeneric[float32]
	Float32DivSels = divSelsGeneric[float32]
	Float32DivScalar = divScalarGeneric[float32]
	Float32DivByScalar = divByScalarGeneric[float32]
	Float64Div = divGeneric[float64]
	Float64DivSels = divSelsGeneric[float64]
	Float64DivScalar = divScalarGeneric[float64]
	Float64DivByScalar = divByScalarGeneric[float64]
}

func divGeneric[T types.Floats](xs, ys, rs []T) []T {
	for i, x := range xs {
		rs[i] = x / ys[i]
	}
	return rs
}

func divSelsGeneric[T types.Floats](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = xs[sel] / ys[sel]
	}
	return rs
}

func divScalarGeneric[T types.Floats](x T, ys, rs []T) []T {
	for i, y := range ys {
		rs[i] = x / y
	}
	return rs
}

func divByScalarGeneric[T types.Floats](xs []T, y T, rs []T) []T {
	for i, x := range xs {
		rs[i] = x / y
	}
	return rs
}

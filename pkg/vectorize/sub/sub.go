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

package sub

import (
	"github.com/polystore/polystore/pkg/container/types"
)

var (
	Int32Sub           func([]int32, []int32, []int32) []int32
	Int32SubSels       func([]int32, []int32, []int32, []int64) []int32
	Int32SubScalar     func(int32, []int32, []int32) []int32
	Int32SubByScalar   func([]int32, int32, []int32) []int32
	Int64Sub           func([]int64, []int64, []int64) []int64
	Int64SubSels       func([]int64, []int64, []int64, []int64) []int64
	Int64SubScalar     func(int64, []int64, []int64) []int64
	Int64SubByScalar   func([]int64, int64, []int64) []int64
	Float32Sub         func([]float32, []float32, []float32) []float32
	Float32SubSels     func([]float32, []float32, []float32, []int64) []float32
	Float32SubScalar   func(float32, []float32, []float32) []float32
	Float32SubByScalar func([]float32, float32, []float32) []float32
	Float64Sub         func([]float64, []float64, []float64) []float64
	Float64SubSels     func([]float64, []float64, []float64, []int64) []float64
	Float64SubScalar   func(float64, []float64, []float64) []float64
	Float64SubByScalar func([]float64, float64, []float64) []float64
)

func init() {
	Int32Sub = subGeneric[int32]
	Int32SubSels = subSelsGeneric[int32]
	Int32SubScalar = subScalarGeneric[int32]
	Int32SubByScalar = subByScalarGeneric[int32]
	Int64Sub = subGeneric[int64]
	Int64SubSels = subSelsGeneric[int64]
	Int64SubScalar = subScalarGeneric[int64]
	Int64SubByScalar = subByScalarGeneric[int64]
	Float32Sub = subGeneric[float32]
	Float32SubSels = subSelsGeneric[float32]
	Float32SubScalar = subScalarGeneric[float32]
	Float32SubByScalar = subByScalarGeneric[float32]
	Float64Sub = subGeneric[float64]
	Float64SubSels = subSelsGeneric[float64]
	Float64SubScalar = subScalarGeneric[float64]
	Float64SubByScalar = subByScalarGeneric[float64]
}

func subGeneric[T types.Numeric](xs, ys, rs []T) []T {
	for i, x := range xs {
		rs[i] = x - ys[i]
	}
	return rs
}

func subSelsGeneric[T types.Numeric](xs, ys, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = xs[sel] - ys[sel]
	}
	return rs
}

func subScalarGeneric[T types.Numeric](x T, ys, rs []T) []T {
	for i, y := range ys {
		rs[i] = x - y
	}
	return rs
}

func subByScalarGeneric[T types.Numeric](xs []T, y T, rs []T) []T {
	for i, x := range xs {
		rs[i] = x - y
	}
	return rs
}

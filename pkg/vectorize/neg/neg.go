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

package neg

import (
	"github.com/polystore/polystore/pkg/container/types"
)

var (
	Int32Neg       func([]int32, []int32) []int32
	Int32NegSels   func([]int32, []int32, []int64) []int32
	Int64Neg       func([]int64, []int64) []int64
	Int64NegSels   func([]int64, []int64, []int64) []int64
	Float32Neg     func([]float32, []float32) []float32
	Float32NegSels func([]float32, []float32, []int64) []float32
	Float64Neg     func([]float64, []float64) []float64
	Float64NegSels func([]float64, []float64, []int64) []float64
)

func init() {
	Int32Neg = negGeneric[int32]
	Int32NegSels = negSelsGeneric[int32]
	Int64Neg = negGeneric[int64]
	Int64NegSels = negSelsGeneric[int64]
	Float32Neg = negGeneric[float32]
	Float32NegSels = negSelsGeneric[float32]
	Float64Neg = negGeneric[float64]
	Float64NegSels = negSelsGeneric[float64]
}

func negGeneric[T types.Numeric](xs, rs []T) []T {
	for i, x := range xs {
		rs[i] = -x
	}
	return rs
}

func negSelsGeneric[T types.Numeric](xs, rs []T, sels []int64) []T {
	for i, sel := range sels {
		rs[i] = -xs[sel]
	}
	return rs
}

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

package max

import (
	"bytes"

	"github.com/polystore/polystore/pkg/container/types"
)

// The kernels expect at least one value.
var (
	BoolMax        func([]bool) bool
	BoolMaxSels    func([]bool, []int64) bool
	Int32Max       func([]int32) int32
	Int32MaxSels   func([]int32, []int64) int32
	Int64Max       func([]int64) int64
	Int64MaxSels   func([]int64, []int64) int64
	Float32Max     func([]float32) float32
	Float32MaxSels func([]float32, []int64) float32
	Float64Max     func([]float64) float64
	Float64MaxSels func([]float64, []int64) float64
	BytesMax       func([][]byte) []byte
	BytesMaxSels   func([][]byte, []int64) []byte
)

func init() {
	BoolMax = boolMax
	BoolMaxSels = boolMaxSels
	Int32Max = numericMax[int32]
	Int32MaxSels = numericMaxSels[int32]
	Int64Max = numericMax[int64]
	Int64MaxSels = numericMaxSels[int64]
	Float32Max = numericMax[float32]
	Float32MaxSels = numericMaxSels[float32]
	Float64Max = numericMax[float64]
	Float64MaxSels = numericMaxSels[float64]
	BytesMax = bytesMax
	BytesMaxSels = bytesMaxSels
}

func boolMax(xs []bool) bool {
	for _, x := range xs {
		if x {
			return true
		}
	}
	return false
}

func boolMaxSels(xs []bool, sels []int64) bool {
	for _, sel := range sels {
		if xs[sel] {
			return true
		}
	}
	return false
}

func numericMax[T types.Numeric](xs []T) T {
	res := xs[0]
	for _, x := range xs {
		if x > res {
			res = x
		}
	}
	return res
}

func numericMaxSels[T types.Numeric](xs []T, sels []int64) T {
	res := xs[sels[0]]
	for _, sel := range sels {
		x := xs[sel]
		if x > res {
			res = x
		}
	}
	return res
}

func bytesMax(xs [][]byte) []byte {
	res := xs[0]
	for _, x := range xs {
		if bytes.Compare(x, res) > 0 {
			res = x
		}
	}
	return res
}

func bytesMaxSels(xs [][]byte, sels []int64) []byte {
	res := xs[sels[0]]
	for _, sel := range sels {
		x := xs[sel]
		if bytes.Compare(x, res) > 0 {
			res = x
		}
	}
	return res
}

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

package min

import (
	"bytes"

	"github.com/polystore/polystore/pkg/container/types"
)

// The kernels expect at least one value.
var (
	BoolMin        func([]bool) bool
	BoolMinSels    func([]bool, []int64) bool
	Int32Min       func([]int32) int32
	Int32MinSels   func([]int32, []int64) int32
	Int64Min       func([]int64) int64
	Int64MinSels   func([]int64, []int64) int64
	Float32Min     func([]float32) float32
	Float32MinSels func([]float32, []int64) float32
	Float64Min     func([]float64) float64
	Float64MinSels func([]float64, []int64) float64
	BytesMin       func([][]byte) []byte
	BytesMinSels   func([][]byte, []int64) []byte
)

func init() {
	BoolMin = boolMin
	BoolMinSels = boolMinSels
	Int32Min = numericMin[int32]
	Int32MinSels = numericMinSels[int32]
	Int64Min = numericMin[int64]
	Int64MinSels = numericMinSels[int64]
	Float32Min = numericMin[float32]
	Float32MinSels = numericMinSels[float32]
	Float64Min = numericMin[float64]
	Float64MinSels = numericMinSels[float64]
	BytesMin = bytesMin
	BytesMinSels = bytesMinSels
}

func boolMin(xs []bool) bool {
	for _, x := range xs {
		if !x {
			return false
		}
	}
	return true
}

func boolMinSels(xs []bool, sels []int64) bool {
	for _, sel := range sels {
		if !xs[sel] {
			return false
		}
	}
	return true
}

func numericMin[T types.Numeric](xs []T) T {
	res := xs[0]
	for _, x := range xs {
		if x < res {
			res = x
		}
	}
	return res
}

func numericMinSels[T types.Numeric](xs []T, sels []int64) T {
	res := xs[sels[0]]
	for _, sel := range sels {
		x := xs[sel]
		if x < res {
			res = x
		}
	}
	return res
}

func bytesMin(xs [][]byte) []byte {
	res := xs[0]
	for _, x := range xs {
		if bytes.Compare(x, res) < 0 {
			res = x
		}
	}
	return res
}

func bytesMinSels(xs [][]byte, sels []int64) []byte {
	res := xs[sels[0]]
	for _, sel := range sels {
		x := xs[sel]
		if bytes.Compare(x, res) < 0 {
			res = x
		}
	}
	return res
}

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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require.Equal(t, []int32{5, 7}, Int32Add([]int32{1, 2}, []int32{4, 5}, make([]int32, 2)))
	require.Equal(t, []int64{7}, Int64AddSels([]int64{1, 2}, []int64{4, 5}, make([]int64, 1), []int64{1}))
	require.Equal(t, []float32{2.5, 3.5}, Float32AddScalar(0.5, []float32{2, 3}, make([]float32, 2)))
	require.Equal(t, []float64{2.5, 3.5}, Float64AddByScalar([]float64{2, 3}, 0.5, make([]float64, 2)))
}

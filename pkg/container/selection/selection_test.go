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

package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilAndEmpty(t *testing.T) {
	var all *Selection
	require.Equal(t, 10, Cardinality(all, 10))
	require.False(t, all.IsEmpty())
	require.Nil(t, all.Clone())
	require.Equal(t, "all", all.String())

	none := Empty()
	require.NotNil(t, none)
	require.True(t, none.IsEmpty())
	require.Equal(t, 0, Cardinality(none, 10))
	require.False(t, none.Equal(nil))
	require.True(t, all.Equal(nil))
}

func TestTake(t *testing.T) {
	outer := New(2, 5, 7, 9)
	local := New(1, 3)
	require.Equal(t, []int64{5, 9}, outer.Take(local).Rows())

	var all *Selection
	require.True(t, all.Take(local).Equal(local))
	require.True(t, outer.Take(nil).Equal(outer))

	withAbsent := outer.WithAbsent(3)
	got := withAbsent.Take(New(0, 3))
	require.Equal(t, []int64{2, 9}, got.Rows())
	require.False(t, got.IsAbsent(0))
	require.True(t, got.IsAbsent(1))
	require.Equal(t, "[2 _]", got.String())
	// the source is untouched
	require.False(t, outer.HasAbsent())
}

func TestCloneOwnsRows(t *testing.T) {
	rows := []int64{3, 1, 2}
	s := New(rows...)
	rows[0] = 100
	require.Equal(t, int64(3), s.Row(0))

	c := s.Clone()
	require.True(t, c.Equal(s))
	require.Equal(t, map[int64]int{3: 0, 1: 1, 2: 2}, s.Positions())
	require.Equal(t, []int64{0, 1, 2}, All(3).Rows())
}

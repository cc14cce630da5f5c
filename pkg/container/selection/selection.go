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

// Package selection implements selection vectors: ordered row offsets into
// a batch naming the rows a computation works on.
//
// A nil *Selection means no filtering was applied, every row participates
// in natural order. A non-nil Selection with no entries means no row
// matches. An entry may be marked absent, a logical slot without a row.
package selection

import (
	"fmt"
	"strings"

	"github.com/polystore/polystore/pkg/container/nulls"
)

type Selection struct {
	rows   []int64
	absent *nulls.Nulls
}

// New returns a selection of the given rows. The result is never nil.
func New(rows ...int64) *Selection {
	rs := make([]int64, len(rows))
	copy(rs, rows)
	return &Selection{rows: rs}
}

// FromRows takes ownership of rows.
func FromRows(rows []int64) *Selection {
	if rows == nil {
		rows = []int64{}
	}
	return &Selection{rows: rows}
}

// Empty is the selection matching nothing.
func Empty() *Selection {
	return &Selection{rows: []int64{}}
}

// All returns the explicit selection 0..n-1.
func All(n int) *Selection {
	rows := make([]int64, n)
	for i := range rows {
		rows[i] = int64(i)
	}
	return &Selection{rows: rows}
}

// Cardinality is the number of rows sel names over a batch of rowCount rows.
func Cardinality(sel *Selection, rowCount int) int {
	if sel == nil {
		return rowCount
	}
	return len(sel.rows)
}

func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rows)
}

// IsEmpty is true only for a non-nil selection with no entries.
func (s *Selection) IsEmpty() bool {
	return s != nil && len(s.rows) == 0
}

func (s *Selection) Row(i int) int64 {
	return s.rows[i]
}

func (s *Selection) IsAbsent(i int) bool {
	return s.absent.Contains(uint64(i))
}

// HasAbsent reports whether any entry is marked absent.
func (s *Selection) HasAbsent() bool {
	return s != nil && s.absent.Any()
}

// Rows returns the row offsets. The slice must not be modified.
func (s *Selection) Rows() []int64 {
	if s == nil {
		return nil
	}
	return s.rows
}

// Absent returns the bitmap of absent positions, nil when there is none.
func (s *Selection) Absent() *nulls.Nulls {
	if s == nil {
		return nil
	}
	return s.absent
}

// WithAbsent returns a copy of s with the entries at the given positions
// marked absent.
func (s *Selection) WithAbsent(positions ...uint64) *Selection {
	r := s.Clone()
	if r.absent == nil {
		r.absent = &nulls.Nulls{}
	}
	nulls.Add(r.absent, positions...)
	return r
}

// Clone returns an owning copy. A nil selection stays nil.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	rows := make([]int64, len(s.rows))
	copy(rows, s.rows)
	return &Selection{rows: rows, absent: s.absent.Clone()}
}

// Take maps local positions back through s: entry i of the result is
// s.Row(local.Row(i)). It is used when a computation ran on the rows of s
// only and answered in positions of that narrowed space.
func (s *Selection) Take(local *Selection) *Selection {
	if s == nil {
		return local.Clone()
	}
	if local == nil {
		return s.Clone()
	}
	r := &Selection{rows: make([]int64, len(local.rows))}
	for i, pos := range local.rows {
		r.rows[i] = s.rows[pos]
		if local.IsAbsent(i) || s.IsAbsent(int(pos)) {
			if r.absent == nil {
				r.absent = &nulls.Nulls{}
			}
			nulls.Add(r.absent, uint64(i))
		}
	}
	return r
}

// Positions returns the inverted index row -> position in s.
func (s *Selection) Positions() map[int64]int {
	m := make(map[int64]int, len(s.rows))
	for i, row := range s.rows {
		if _, ok := m[row]; !ok {
			m[row] = i
		}
	}
	return m
}

// Equal compares content and order. nil only equals nil.
func (s *Selection) Equal(o *Selection) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	if len(s.rows) != len(o.rows) {
		return false
	}
	for i := range s.rows {
		if s.rows[i] != o.rows[i] || s.IsAbsent(i) != o.IsAbsent(i) {
			return false
		}
	}
	return true
}

func (s *Selection) String() string {
	if s == nil {
		return "all"
	}
	var buf strings.Builder
	buf.WriteByte('[')
	for i, row := range s.rows {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if s.IsAbsent(i) {
			buf.WriteString("_")
		} else {
			fmt.Fprintf(&buf, "%d", row)
		}
	}
	buf.WriteByte(']')
	return buf.String()
}

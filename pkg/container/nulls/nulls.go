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

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// Every column stores its NULL rows in a Nulls.
// You can think of Nulls as a bitmap.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	Np *roaring.Bitmap
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return &Nulls{Np: nil}
	}
	return &Nulls{
		Np: nsp.Np.Clone(),
	}
}

// Or performs union operation on Nulls nsp,m and store the result in r
func Or(nsp, m, r *Nulls) {
	if !Any(nsp) && !Any(m) {
		r.Np = nil
		return
	}
	r.Np = roaring.New()
	if Any(nsp) {
		r.Np.Or(nsp.Np)
	}
	if Any(m) {
		r.Np.Or(m.Np)
	}
}

func Build(rows ...uint64) *Nulls {
	nsp := &Nulls{}
	Add(nsp, rows...)
	return nsp
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Length returns the number of integers contained in the Nulls
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

func String(nsp *Nulls) string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint64) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(uint32(row))
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	for _, row := range rows {
		nsp.Np.Add(uint32(row))
	}
}

// AddRange adds rows in [start, end).
func AddRange(nsp *Nulls, start, end uint64) {
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	nsp.Np.AddRange(start, end)
}

func Del(nsp *Nulls, rows ...uint64) {
	if nsp.Np == nil {
		return
	}
	for _, row := range rows {
		nsp.Np.Remove(uint32(row))
	}
}

// Set performs union operation on Nulls nsp,m and store the result in nsp
func Set(nsp, m *Nulls) {
	if m != nil && m.Np != nil {
		if nsp.Np == nil {
			nsp.Np = roaring.New()
		}
		nsp.Np.Or(m.Np)
	}
}

// FilterCount returns the number count that appears in both nsp and sel
func FilterCount(nsp *Nulls, sels []int64) int {
	var cnt int

	if nsp == nil || nsp.Np == nil {
		return cnt
	}
	for _, sel := range sels {
		if nsp.Np.Contains(uint32(sel)) {
			cnt++
		}
	}
	return cnt
}

// Range returns the nulls of rows [start, end) shifted down by start.
func Range(nsp *Nulls, start, end uint64) *Nulls {
	m := &Nulls{}
	if !Any(nsp) {
		return m
	}
	it := nsp.Np.Iterator()
	it.AdvanceIfNeeded(uint32(start))
	for it.HasNext() {
		row := uint64(it.Next())
		if row >= end {
			break
		}
		Add(m, row-start)
	}
	return m
}

// Filter returns the nulls of the rows picked by sels, re-indexed so that
// row sels[i] becomes row i. nsp is not modified.
func Filter(nsp *Nulls, sels []int64) *Nulls {
	m := &Nulls{}
	if !Any(nsp) {
		return m
	}
	for i, sel := range sels {
		if sel >= 0 && nsp.Np.Contains(uint32(sel)) {
			Add(m, uint64(i))
		}
	}
	return m
}

func (nsp *Nulls) Any() bool {
	return Any(nsp)
}

func (nsp *Nulls) Set(row uint64) {
	Add(nsp, row)
}

func (nsp *Nulls) Contains(row uint64) bool {
	return Contains(nsp, row)
}

func (nsp *Nulls) Count() int {
	return Length(nsp)
}

func (nsp *Nulls) Show() ([]byte, error) {
	if nsp == nil || nsp.Np == nil {
		return nil, nil
	}
	return nsp.Np.ToBytes()
}

func (nsp *Nulls) Read(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	nsp.Np = roaring.New()
	return nsp.Np.UnmarshalBinary(data)
}

func (nsp *Nulls) IsSame(m *Nulls) bool {
	switch {
	case !Any(nsp) && !Any(m):
		return true
	case Any(nsp) && Any(m):
		return nsp.Np.Equals(m.Np)
	default:
		return false
	}
}

func (nsp *Nulls) ToArray() []uint64 {
	if nsp == nil || nsp.Np == nil {
		return []uint64{}
	}
	rows := nsp.Np.ToArray()
	rs := make([]uint64, len(rows))
	for i, row := range rows {
		rs[i] = uint64(row)
	}
	return rs
}

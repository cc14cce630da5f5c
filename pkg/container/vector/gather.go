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

package vector

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
)

// Gather returns the rows of v named by sel, in selection order. Absent
// entries become null rows. A dictionary vector stays a dictionary over the
// same shared values. A nil selection returns v itself.
func Gather(v *Vector, sel *selection.Selection) *Vector {
	if sel == nil {
		return v
	}
	rows := sel.Rows()
	switch v.class {
	case CONSTANT:
		if !sel.HasAbsent() || v.IsConstNull() {
			w := *v
			w.length = len(rows)
			return &w
		}
		return Gather(Materialize(v), sel)
	case DIST:
		idx := make([]int32, len(rows))
		nsp := &nulls.Nulls{}
		for i, row := range rows {
			if sel.IsAbsent(i) || v.nsp.Contains(uint64(row)) {
				nulls.Add(nsp, uint64(i))
				continue
			}
			idx[i] = v.idx[row]
		}
		return NewDict(idx, v.dict, nsp)
	case FLAT:
		nsp := &nulls.Nulls{}
		for i, row := range rows {
			if sel.IsAbsent(i) || v.nsp.Contains(uint64(row)) {
				nulls.Add(nsp, uint64(i))
			}
		}
		w := &Vector{class: FLAT, typ: v.typ, nsp: nsp, length: len(rows)}
		switch col := v.col.(type) {
		case []bool:
			w.col = gatherCol(col, sel)
		case []int32:
			w.col = gatherCol(col, sel)
		case []int64:
			w.col = gatherCol(col, sel)
		case []float32:
			w.col = gatherCol(col, sel)
		case []float64:
			w.col = gatherCol(col, sel)
		case [][]byte:
			w.col = gatherCol(col, sel)
		case nil:
		default:
			panic(moerr.NewInternalErrorNoCtx("unexpected column %T", col))
		}
		return w
	}
	panic(moerr.NewInternalErrorNoCtx("unknown vector class %d", v.class))
}

func gatherCol[T any](col []T, sel *selection.Selection) []T {
	rows := sel.Rows()
	rs := make([]T, len(rows))
	for i, row := range rows {
		if sel.IsAbsent(i) {
			continue
		}
		rs[i] = col[row]
	}
	return rs
}

// Decode resolves a dictionary vector against its shared values. Other
// vectors are returned as they are.
func Decode(v *Vector) *Vector {
	if v.class != DIST {
		return v
	}
	rows := make([]int64, len(v.idx))
	for i, x := range v.idx {
		rows[i] = int64(x)
	}
	sel := selection.FromRows(rows)
	if v.nsp.Any() {
		sel = sel.WithAbsent(v.nsp.ToArray()...)
	}
	return Gather(v.dict, sel)
}

// Materialize returns v in flat form. A constant null of type T_any has no
// values to expand and is returned as it is.
func Materialize(v *Vector) *Vector {
	switch v.class {
	case FLAT:
		return v
	case DIST:
		return Decode(v)
	case CONSTANT:
		if v.typ.Oid == types.T_any {
			return v
		}
		if v.IsConstNull() {
			nsp := &nulls.Nulls{}
			if v.length > 0 {
				nulls.AddRange(nsp, 0, uint64(v.length))
			}
			return &Vector{class: FLAT, typ: v.typ, nsp: nsp, col: emptyCol(v.typ, v.length), length: v.length}
		}
		w := &Vector{class: FLAT, typ: v.typ, nsp: &nulls.Nulls{}, length: v.length}
		switch col := v.col.(type) {
		case []bool:
			w.col = repeat(col[0], v.length)
		case []int32:
			w.col = repeat(col[0], v.length)
		case []int64:
			w.col = repeat(col[0], v.length)
		case []float32:
			w.col = repeat(col[0], v.length)
		case []float64:
			w.col = repeat(col[0], v.length)
		case [][]byte:
			w.col = repeat(col[0], v.length)
		default:
			panic(moerr.NewInternalErrorNoCtx("unexpected column %T", col))
		}
		return w
	}
	panic(moerr.NewInternalErrorNoCtx("unknown vector class %d", v.class))
}

func repeat[T any](val T, n int) []T {
	rs := make([]T, n)
	for i := range rs {
		rs[i] = val
	}
	return rs
}

// Window returns rows [start, end) of v without copying values.
func Window(v *Vector, start, end int) *Vector {
	if start < 0 || end > v.length || start > end {
		panic(moerr.NewPreconditionNoCtx("window [%d, %d) out of vector of %d rows", start, end, v.length))
	}
	switch v.class {
	case CONSTANT:
		w := *v
		w.length = end - start
		return &w
	case DIST:
		return NewDict(v.idx[start:end], v.dict, nulls.Range(v.nsp, uint64(start), uint64(end)))
	case FLAT:
		w := &Vector{class: FLAT, typ: v.typ, nsp: nulls.Range(v.nsp, uint64(start), uint64(end)), length: end - start}
		switch col := v.col.(type) {
		case []bool:
			w.col = col[start:end]
		case []int32:
			w.col = col[start:end]
		case []int64:
			w.col = col[start:end]
		case []float32:
			w.col = col[start:end]
		case []float64:
			w.col = col[start:end]
		case [][]byte:
			w.col = col[start:end]
		case nil:
		default:
			panic(moerr.NewInternalErrorNoCtx("unexpected column %T", col))
		}
		return w
	}
	panic(moerr.NewInternalErrorNoCtx("unknown vector class %d", v.class))
}

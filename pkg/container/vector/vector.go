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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent a uncompressed vector
	CONSTANT        // const vector
	DIST            // dictionary vector
)

// Vector represent a column. A vector is never modified after it is built.
type Vector struct {
	// vector's class
	class int
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// FLAT: []T of length rows. CONSTANT: []T holding the one value, empty
	// when the constant is null.
	col any

	// DIST: per row index into dict, and the shared FLAT values.
	idx  []int32
	dict *Vector

	length int
}

// NewVec returns an empty flat vector.
func NewVec(typ types.Type) *Vector {
	return &Vector{
		class: FLAT,
		typ:   typ,
		nsp:   &nulls.Nulls{},
		col:   emptyCol(typ, 0),
	}
}

// NewFixed builds a flat vector over vs. The vector takes ownership of vs
// and nsp, nsp may be nil.
func NewFixed[T types.FixedSizeT](typ types.Type, vs []T, nsp *nulls.Nulls) *Vector {
	checkColType[T](typ)
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		class:  FLAT,
		typ:    typ,
		nsp:    nsp,
		col:    vs,
		length: len(vs),
	}
}

// NewBytes builds a flat T_binary vector over vs.
func NewBytes(vs [][]byte, nsp *nulls.Nulls) *Vector {
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		class:  FLAT,
		typ:    types.T_binary.ToType(),
		nsp:    nsp,
		col:    vs,
		length: len(vs),
	}
}

func NewStrings(vs []string, nsp *nulls.Nulls) *Vector {
	bs := make([][]byte, len(vs))
	for i, s := range vs {
		bs[i] = []byte(s)
	}
	return NewBytes(bs, nsp)
}

func NewConstNull(typ types.Type, length int) *Vector {
	nsp := &nulls.Nulls{}
	nulls.Add(nsp, 0)
	return &Vector{
		class:  CONSTANT,
		typ:    typ,
		nsp:    nsp,
		col:    emptyCol(typ, 0),
		length: length,
	}
}

func NewConst[T types.FixedSizeT](typ types.Type, val T, length int) *Vector {
	checkColType[T](typ)
	return &Vector{
		class:  CONSTANT,
		typ:    typ,
		nsp:    &nulls.Nulls{},
		col:    []T{val},
		length: length,
	}
}

func NewConstBytes(val []byte, length int) *Vector {
	return &Vector{
		class:  CONSTANT,
		typ:    types.T_binary.ToType(),
		nsp:    &nulls.Nulls{},
		col:    [][]byte{val},
		length: length,
	}
}

// NewDict builds a dictionary vector. dict must be flat; nsp marks the null
// rows, whose index is ignored.
func NewDict(indices []int32, dict *Vector, nsp *nulls.Nulls) *Vector {
	if dict.class != FLAT {
		panic(moerr.NewPreconditionNoCtx("dictionary values must be a flat vector"))
	}
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		class:  DIST,
		typ:    dict.typ,
		nsp:    nsp,
		idx:    indices,
		dict:   dict,
		length: len(indices),
	}
}

// NewConstValue builds a constant vector from a Go value, nil is null.
func NewConstValue(typ types.Type, val any, length int) (*Vector, error) {
	if val == nil {
		return NewConstNull(typ, length), nil
	}
	switch typ.Oid {
	case types.T_bool:
		if v, ok := val.(bool); ok {
			return NewConst(typ, v, length), nil
		}
	case types.T_int32:
		if v, ok := val.(int32); ok {
			return NewConst(typ, v, length), nil
		}
	case types.T_int64:
		if v, ok := val.(int64); ok {
			return NewConst(typ, v, length), nil
		}
	case types.T_float32:
		if v, ok := val.(float32); ok {
			return NewConst(typ, v, length), nil
		}
	case types.T_float64:
		if v, ok := val.(float64); ok {
			return NewConst(typ, v, length), nil
		}
	case types.T_binary:
		switch v := val.(type) {
		case []byte:
			return NewConstBytes(v, length), nil
		case string:
			return NewConstBytes([]byte(v), length), nil
		}
	case types.T_any:
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected type %s", typ))
	}
	return nil, moerr.NewInvalidInputNoCtx("value %v (%T) is not of type %s", val, val, typ)
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) GetClass() int {
	return v.class
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.class == CONSTANT && nulls.Contains(v.nsp, 0)
}

func (v *Vector) IsDist() bool {
	return v.class == DIST
}

// GetNulls returns the null bitmap. For a constant vector only row 0 is
// meaningful.
func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

// HasNull reports whether any row is null.
func (v *Vector) HasNull() bool {
	if v.length == 0 {
		return false
	}
	return v.nsp.Any()
}

// AllNull reports whether every row is null, which is always the case for
// T_any vectors.
func (v *Vector) AllNull() bool {
	if v.typ.Oid == types.T_any || v.IsConstNull() {
		return true
	}
	return v.length > 0 && v.nsp.Count() == v.length
}

func (v *Vector) IsNull(i int) bool {
	if v.class == CONSTANT {
		return nulls.Contains(v.nsp, 0)
	}
	return nulls.Contains(v.nsp, uint64(i))
}

// GetDict returns the shared values of a dictionary vector.
func (v *Vector) GetDict() *Vector {
	return v.dict
}

// GetIndices returns the per row indices of a dictionary vector.
func (v *Vector) GetIndices() []int32 {
	return v.idx
}

// MustFixedCol returns the values of a flat vector.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.class != FLAT {
		panic(moerr.NewPreconditionNoCtx("MustFixedCol on a non flat vector"))
	}
	return v.col.([]T)
}

// MustBytesCol returns the values of a flat T_binary vector.
func MustBytesCol(v *Vector) [][]byte {
	if v.class != FLAT {
		panic(moerr.NewPreconditionNoCtx("MustBytesCol on a non flat vector"))
	}
	return v.col.([][]byte)
}

// GetFixedAt returns the value of row i whatever the class. The result of
// a null row is the zero value.
func GetFixedAt[T types.FixedSizeT](v *Vector, i int) T {
	var zero T
	if v.IsNull(i) {
		return zero
	}
	switch v.class {
	case FLAT:
		return v.col.([]T)[i]
	case CONSTANT:
		return v.col.([]T)[0]
	case DIST:
		return v.dict.col.([]T)[v.idx[i]]
	}
	panic(moerr.NewInternalErrorNoCtx("unknown vector class %d", v.class))
}

// GetBytesAt returns the value of row i of a T_binary vector.
func GetBytesAt(v *Vector, i int) []byte {
	if v.IsNull(i) {
		return nil
	}
	switch v.class {
	case FLAT:
		return v.col.([][]byte)[i]
	case CONSTANT:
		return v.col.([][]byte)[0]
	case DIST:
		return v.dict.col.([][]byte)[v.idx[i]]
	}
	panic(moerr.NewInternalErrorNoCtx("unknown vector class %d", v.class))
}

// Value returns row i as a Go value: nil, bool, int32, int64, float32,
// float64 or []byte.
func (v *Vector) Value(i int) any {
	if v.IsNull(i) {
		return nil
	}
	switch v.typ.Oid {
	case types.T_any:
		return nil
	case types.T_bool:
		return GetFixedAt[bool](v, i)
	case types.T_int32:
		return GetFixedAt[int32](v, i)
	case types.T_int64:
		return GetFixedAt[int64](v, i)
	case types.T_float32:
		return GetFixedAt[float32](v, i)
	case types.T_float64:
		return GetFixedAt[float64](v, i)
	case types.T_binary:
		return GetBytesAt(v, i)
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected type %s", v.typ))
}

// Equal compares two vectors row by row, ignoring their class.
func Equal(a, b *Vector) bool {
	if a.length != b.length || !a.typ.Eq(b.typ) {
		return false
	}
	for i := 0; i < a.length; i++ {
		x, y := a.Value(i), b.Value(i)
		if x == nil || y == nil {
			if x != nil || y != nil {
				return false
			}
			continue
		}
		if xb, ok := x.([]byte); ok {
			if !bytes.Equal(xb, y.([]byte)) {
				return false
			}
			continue
		}
		if x != y {
			return false
		}
	}
	return true
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < v.length; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		switch val := v.Value(i).(type) {
		case nil:
			buf.WriteString("null")
		case []byte:
			buf.Write(val)
		default:
			fmt.Fprintf(&buf, "%v", val)
		}
	}
	buf.WriteByte(']')
	return buf.String()
}

// Dup returns a deep copy in flat form.
func (v *Vector) Dup() *Vector {
	m := Materialize(v)
	if m.class != FLAT {
		return NewConstNull(m.typ, m.length)
	}
	w := &Vector{
		class:  FLAT,
		typ:    m.typ,
		nsp:    m.nsp.Clone(),
		length: m.length,
	}
	switch col := m.col.(type) {
	case []bool:
		w.col = append([]bool{}, col...)
	case []int32:
		w.col = append([]int32{}, col...)
	case []int64:
		w.col = append([]int64{}, col...)
	case []float32:
		w.col = append([]float32{}, col...)
	case []float64:
		w.col = append([]float64{}, col...)
	case [][]byte:
		vs := make([][]byte, len(col))
		for i, b := range col {
			if b != nil {
				vs[i] = append([]byte{}, b...)
			}
		}
		w.col = vs
	}
	return w
}

// MarshalBinary encodes the vector in flat form:
// oid, rows, nulls size, nulls, values.
func (v *Vector) MarshalBinary() ([]byte, error) {
	m := Materialize(v)
	var buf bytes.Buffer
	buf.WriteByte(byte(m.typ.Oid))
	writeUint32(&buf, uint32(m.length))
	if m.IsConstNull() {
		// T_any, every row is null
		nsp := &nulls.Nulls{}
		nulls.AddRange(nsp, 0, uint64(m.length))
		m = &Vector{class: FLAT, typ: m.typ, nsp: nsp, col: emptyCol(m.typ, 0), length: m.length}
	}
	data, err := m.nsp.Show()
	if err != nil {
		return nil, err
	}
	writeUint32(&buf, uint32(len(data)))
	buf.Write(data)
	switch col := m.col.(type) {
	case [][]byte:
		for _, b := range col {
			writeUint32(&buf, uint32(len(b)))
			buf.Write(b)
		}
	case nil:
	default:
		if err := binary.Write(&buf, binary.LittleEndian, col); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (v *Vector) UnmarshalBinary(data []byte) error {
	if len(data) < 9 {
		return moerr.NewUnexpectedEOF(moerr.Context(), "vector header")
	}
	v.class = FLAT
	v.typ = types.T(data[0]).ToType()
	v.length = int(binary.LittleEndian.Uint32(data[1:]))
	n := int(binary.LittleEndian.Uint32(data[5:]))
	data = data[9:]
	if len(data) < n {
		return moerr.NewUnexpectedEOF(moerr.Context(), "vector nulls")
	}
	v.nsp = &nulls.Nulls{}
	if err := v.nsp.Read(data[:n]); err != nil {
		return err
	}
	data = data[n:]
	r := bytes.NewReader(data)
	switch v.typ.Oid {
	case types.T_any:
		v.class = CONSTANT
		v.col = emptyCol(v.typ, 0)
		v.nsp = &nulls.Nulls{}
		nulls.Add(v.nsp, 0)
		return nil
	case types.T_binary:
		vs := make([][]byte, v.length)
		for i := range vs {
			if len(data) < 4 {
				return moerr.NewUnexpectedEOF(moerr.Context(), "vector values")
			}
			size := int(binary.LittleEndian.Uint32(data))
			data = data[4:]
			if len(data) < size {
				return moerr.NewUnexpectedEOF(moerr.Context(), "vector values")
			}
			if !nulls.Contains(v.nsp, uint64(i)) {
				vs[i] = append([]byte{}, data[:size]...)
			}
			data = data[size:]
		}
		v.col = vs
		return nil
	default:
		col := emptyCol(v.typ, v.length)
		if err := binary.Read(r, binary.LittleEndian, col); err != nil {
			return moerr.ConvertGoError(moerr.Context(), err)
		}
		v.col = col
		return nil
	}
}

func writeUint32(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func emptyCol(typ types.Type, n int) any {
	switch typ.Oid {
	case types.T_any:
		return nil
	case types.T_bool:
		return make([]bool, n)
	case types.T_int32:
		return make([]int32, n)
	case types.T_int64:
		return make([]int64, n)
	case types.T_float32:
		return make([]float32, n)
	case types.T_float64:
		return make([]float64, n)
	case types.T_binary:
		return make([][]byte, n)
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected type %s", typ))
}

func checkColType[T types.FixedSizeT](typ types.Type) {
	var zero T
	var ok bool
	switch any(zero).(type) {
	case bool:
		ok = typ.Oid == types.T_bool
	case int32:
		ok = typ.Oid == types.T_int32
	case int64:
		ok = typ.Oid == types.T_int64
	case float32:
		ok = typ.Oid == types.T_float32
	case float64:
		ok = typ.Oid == types.T_float64
	}
	if !ok {
		panic(moerr.NewPreconditionNoCtx("%T values for a %s vector", zero, typ))
	}
}

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
	"github.com/polystore/polystore/pkg/container/types"
)

// Builder appends rows and produces a flat vector. After Build the builder
// starts over empty.
type Builder struct {
	typ    types.Type
	col    any
	nsp    *nulls.Nulls
	length int
}

func NewBuilder(typ types.Type, capacity int) *Builder {
	b := &Builder{typ: typ}
	b.reset(capacity)
	return b
}

func (b *Builder) reset(capacity int) {
	b.nsp = &nulls.Nulls{}
	b.length = 0
	switch b.typ.Oid {
	case types.T_any:
		b.col = nil
	case types.T_bool:
		b.col = make([]bool, 0, capacity)
	case types.T_int32:
		b.col = make([]int32, 0, capacity)
	case types.T_int64:
		b.col = make([]int64, 0, capacity)
	case types.T_float32:
		b.col = make([]float32, 0, capacity)
	case types.T_float64:
		b.col = make([]float64, 0, capacity)
	case types.T_binary:
		b.col = make([][]byte, 0, capacity)
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected type %s", b.typ))
	}
}

func (b *Builder) Len() int {
	return b.length
}

func (b *Builder) GetType() types.Type {
	return b.typ
}

func (b *Builder) AppendNull() {
	nulls.Add(b.nsp, uint64(b.length))
	switch col := b.col.(type) {
	case []bool:
		b.col = append(col, false)
	case []int32:
		b.col = append(col, 0)
	case []int64:
		b.col = append(col, 0)
	case []float32:
		b.col = append(col, 0)
	case []float64:
		b.col = append(col, 0)
	case [][]byte:
		b.col = append(col, nil)
	}
	b.length++
}

// AppendFixed appends a value of a fixed size type.
func AppendFixed[T types.FixedSizeT](b *Builder, val T) {
	b.col = append(b.col.([]T), val)
	b.length++
}

func (b *Builder) AppendBytes(val []byte) {
	b.col = append(b.col.([][]byte), val)
	b.length++
}

// Append appends a Go value, nil appends a null.
func (b *Builder) Append(val any) error {
	if val == nil {
		b.AppendNull()
		return nil
	}
	switch b.typ.Oid {
	case types.T_bool:
		if v, ok := val.(bool); ok {
			AppendFixed(b, v)
			return nil
		}
	case types.T_int32:
		if v, ok := val.(int32); ok {
			AppendFixed(b, v)
			return nil
		}
	case types.T_int64:
		if v, ok := val.(int64); ok {
			AppendFixed(b, v)
			return nil
		}
	case types.T_float32:
		if v, ok := val.(float32); ok {
			AppendFixed(b, v)
			return nil
		}
	case types.T_float64:
		if v, ok := val.(float64); ok {
			AppendFixed(b, v)
			return nil
		}
	case types.T_binary:
		switch v := val.(type) {
		case []byte:
			b.AppendBytes(v)
			return nil
		case string:
			b.AppendBytes([]byte(v))
			return nil
		}
	case types.T_any:
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected type %s", b.typ))
	}
	return moerr.NewInvalidInputNoCtx("value %v (%T) is not of type %s", val, val, b.typ)
}

// AppendFrom appends a copy of row i of v, whatever its class. v must have
// the builder's type.
func (b *Builder) AppendFrom(v *Vector, i int) {
	if v.IsNull(i) {
		b.AppendNull()
		return
	}
	switch b.typ.Oid {
	case types.T_bool:
		AppendFixed(b, GetFixedAt[bool](v, i))
	case types.T_int32:
		AppendFixed(b, GetFixedAt[int32](v, i))
	case types.T_int64:
		AppendFixed(b, GetFixedAt[int64](v, i))
	case types.T_float32:
		AppendFixed(b, GetFixedAt[float32](v, i))
	case types.T_float64:
		AppendFixed(b, GetFixedAt[float64](v, i))
	case types.T_binary:
		b.AppendBytes(append([]byte(nil), GetBytesAt(v, i)...))
	case types.T_any:
		b.AppendNull()
	default:
		panic(moerr.NewInternalErrorNoCtx("unexpected type %s", b.typ))
	}
}

// Build returns the appended rows as a vector. A T_any builder yields a
// constant null.
func (b *Builder) Build() *Vector {
	var v *Vector
	if b.typ.Oid == types.T_any {
		v = NewConstNull(b.typ, b.length)
	} else {
		v = &Vector{class: FLAT, typ: b.typ, nsp: b.nsp, col: b.col, length: b.length}
	}
	b.reset(0)
	return v
}

// NewFromValues builds a flat vector of typ from Go values.
func NewFromValues(typ types.Type, vals ...any) (*Vector, error) {
	b := NewBuilder(typ, len(vals))
	for _, val := range vals {
		if err := b.Append(val); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// MustFromValues is NewFromValues for values known to be well typed.
func MustFromValues(typ types.Type, vals ...any) *Vector {
	v, err := NewFromValues(typ, vals...)
	if err != nil {
		panic(err)
	}
	return v
}

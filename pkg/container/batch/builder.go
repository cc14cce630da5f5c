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

package batch

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// Builder is the append-only way to make a batch of a given schema.
type Builder struct {
	schema Schema
	key    *vector.Builder
	vecs   []*vector.Builder
	rows   int
}

func NewBuilder(schema Schema, capacity int) *Builder {
	b := &Builder{schema: schema, vecs: make([]*vector.Builder, len(schema.Fields))}
	for i, f := range schema.Fields {
		b.vecs[i] = vector.NewBuilder(f.Type, capacity)
	}
	if schema.HasKey() {
		b.key = vector.NewBuilder(types.T_int64.ToType(), capacity)
	}
	return b
}

func (b *Builder) Len() int {
	return b.rows
}

// Append adds one row. key is ignored when the schema has no key; a nil key
// of a keyed schema is a null key.
func (b *Builder) Append(key *int64, values ...any) error {
	if len(values) != len(b.vecs) {
		return moerr.NewInvalidInputNoCtx("row of %d values for %d columns", len(values), len(b.vecs))
	}
	for i, val := range values {
		if err := b.vecs[i].Append(val); err != nil {
			// keep columns aligned
			for j := i; j < len(values); j++ {
				b.vecs[j].AppendNull()
			}
			b.appendKey(key)
			b.rows++
			return moerr.NewInvalidInputNoCtx("column %s: %s", b.schema.Fields[i].Name, err.Error())
		}
	}
	b.appendKey(key)
	b.rows++
	return nil
}

func (b *Builder) appendKey(key *int64) {
	if b.key == nil {
		return
	}
	if key == nil {
		b.key.AppendNull()
		return
	}
	vector.AppendFixed(b.key, *key)
}

// AppendFrom copies row i of bat, which must have the builder's schema.
func (b *Builder) AppendFrom(bat *Batch, i int) {
	for j, vec := range bat.Vecs {
		b.vecs[j].AppendFrom(vec, i)
	}
	if b.key != nil {
		if bat.Key == nil {
			b.key.AppendNull()
		} else {
			b.key.AppendFrom(bat.Key, i)
		}
	}
	b.rows++
}

// Build returns the appended rows and starts over.
func (b *Builder) Build() *Batch {
	vecs := make([]*vector.Vector, len(b.vecs))
	for i, vb := range b.vecs {
		vecs[i] = vb.Build()
	}
	bat := &Batch{
		Cnt:      1,
		Fields:   b.schema.Fields,
		Vecs:     vecs,
		keyField: b.schema.Key,
		rowCount: b.rows,
	}
	if b.key != nil {
		bat.Key = b.key.Build()
	}
	b.rows = 0
	return bat
}

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
	"strings"

	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// DefaultKeyName names the key column when a schema does not.
const DefaultKeyName = "$key"

// Schema is the ordered list of fields of a batch plus the optional key
// field, a 64-bit row identity.
type Schema struct {
	Key    *types.Field
	Fields []types.Field
}

// Batch represents a part of a relationship
// including an optional key column, columns and their fields
//
//	(Key)    - row identity, monotonic within the batch
//	(Fields) - identity of the columns
//	(Vecs)   - columns
//
// A batch is never modified once built, operations return new batches.
type Batch struct {
	// reference count, default is 1
	Cnt int64
	// Fields of the columns, same order as Vecs
	Fields []types.Field
	// Vecs col data
	Vecs []*vector.Vector
	// Key is the optional int64 key column
	Key *vector.Vector
	// keyField is the field of the key column
	keyField *types.Field

	rowCount int
}

func NewSchema(key *types.Field, fields ...types.Field) Schema {
	return Schema{Key: key, Fields: fields}
}

// KeyField returns the default key field.
func KeyField() *types.Field {
	f := types.NewField(DefaultKeyName, types.T_int64, nil)
	return &f
}

func (s Schema) HasKey() bool {
	return s.Key != nil
}

func (s Schema) Attrs() []string {
	attrs := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		attrs[i] = f.Name
	}
	return attrs
}

// Index returns the position of the field named name, -1 if absent.
func (s Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name || f.FullName() == name {
			return i
		}
	}
	return -1
}

func (s Schema) Equal(o Schema) bool {
	if s.HasKey() != o.HasKey() || len(s.Fields) != len(o.Fields) {
		return false
	}
	if s.HasKey() && !s.Key.Equal(*o.Key) {
		return false
	}
	for i := range s.Fields {
		if !s.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	var buf strings.Builder
	buf.WriteByte('(')
	if s.HasKey() {
		buf.WriteString("key ")
		buf.WriteString(s.Key.String())
		if len(s.Fields) > 0 {
			buf.WriteString(", ")
		}
	}
	for i, f := range s.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

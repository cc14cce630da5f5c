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

package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
)

type T uint8

const (
	// T_any is the type of a column holding nothing but nulls.
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric family
	T_int32   T = 22
	T_int64   T = 23
	T_float32 T = 30
	T_float64 T = 31

	// string family
	T_binary T = 40
)

type Type struct {
	Oid T
}

type Ints interface {
	int32 | int64
}

type Floats interface {
	float32 | float64
}

// Numeric is every type arithmetic functions accept.
type Numeric interface {
	Ints | Floats
}

// FixedSizeT is every type stored as a fixed-width slice.
type FixedSizeT interface {
	bool | Numeric
}

func New(oid T) Type {
	return Type{Oid: oid}
}

func (t T) ToType() Type {
	return Type{Oid: t}
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_binary:
		return "BINARY"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// OidString returns the name of the Go constant.
func (t T) OidString() string {
	switch t {
	case T_any:
		return "T_any"
	case T_bool:
		return "T_bool"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_binary:
		return "T_binary"
	}
	return "unknown_type"
}

// TypeLen returns the width in bytes of one value, 0 for variable width.
func (t T) TypeLen() int {
	switch t {
	case T_any:
		return 0
	case T_bool:
		return 1
	case T_int32, T_float32:
		return 4
	case T_int64, T_float64:
		return 8
	case T_binary:
		return 0
	}
	panic(moerr.NewInternalErrorNoCtx("unknown type %d", t))
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid
}

func (t Type) IsNumeric() bool {
	switch t.Oid {
	case T_int32, T_int64, T_float32, T_float64:
		return true
	}
	return false
}

func (t Type) IsIntegral() bool {
	return t.Oid == T_int32 || t.Oid == T_int64
}

func (t Type) IsFloat() bool {
	return t.Oid == T_float32 || t.Oid == T_float64
}

func (t Type) IsNull() bool {
	return t.Oid == T_any
}

func (t Type) IsVarlen() bool {
	return t.Oid == T_binary
}

// Field is the identity of a column: name, type and tag metadata.
type Field struct {
	Name string
	Type Type
	Tags map[string]string
}

func NewField(name string, oid T, tags map[string]string) Field {
	return Field{Name: name, Type: oid.ToType(), Tags: tags}
}

// FullName is the name followed by the sorted tags, cpu{host=a,region=x}.
func (f Field) FullName() string {
	if len(f.Tags) == 0 {
		return f.Name
	}
	keys := make([]string, 0, len(f.Tags))
	for k := range f.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf strings.Builder
	buf.WriteString(f.Name)
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(f.Tags[k])
	}
	buf.WriteByte('}')
	return buf.String()
}

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Type.Eq(o.Type) && f.FullName() == o.FullName()
}

func (f Field) String() string {
	return fmt.Sprintf("%s %s", f.FullName(), f.Type)
}

// ParseT maps a type name (as written in headers and schemas) to T.
func ParseT(name string) (T, error) {
	switch strings.ToUpper(name) {
	case "BOOL", "BOOLEAN":
		return T_bool, nil
	case "INT", "INTEGER", "INT32":
		return T_int32, nil
	case "BIGINT", "LONG", "INT64":
		return T_int64, nil
	case "FLOAT", "FLOAT32":
		return T_float32, nil
	case "DOUBLE", "FLOAT64":
		return T_float64, nil
	case "BINARY", "STRING", "VARCHAR", "BYTES":
		return T_binary, nil
	case "NULL", "ANY":
		return T_any, nil
	}
	return T_any, moerr.NewUnsupportedTypeNoCtx(name)
}

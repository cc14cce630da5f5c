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

package expr

import (
	"fmt"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// Literal is a constant, nil is the null literal.
type Literal struct {
	typ types.Type
	val any
}

// NewLiteral checks that val is a Go value of typ.
func NewLiteral(typ types.Type, val any) (*Literal, error) {
	if _, err := vector.NewConstValue(typ, val, 0); err != nil {
		return nil, err
	}
	if s, ok := val.(string); ok {
		val = []byte(s)
	}
	return &Literal{typ: typ, val: val}, nil
}

func MustLiteral(typ types.Type, val any) *Literal {
	l, err := NewLiteral(typ, val)
	if err != nil {
		panic(err)
	}
	return l
}

// NewNull returns the untyped null literal.
func NewNull() *Literal {
	return &Literal{typ: types.T_any.ToType()}
}

func (e *Literal) Value() any {
	return e.val
}

func (e *Literal) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	return vector.NewConstValue(e.typ, e.val, selection.Cardinality(sels, bat.RowCount()))
}

func (e *Literal) ResultType(_ batch.Schema) (types.Type, error) {
	return e.typ, nil
}

func (e *Literal) Children() []Expression {
	return nil
}

func (e *Literal) String() string {
	switch v := e.val.(type) {
	case nil:
		return "null"
	case []byte:
		return fmt.Sprintf("'%s'", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FieldRef reads one column of the batch, by name or by position. The name
// batch.DefaultKeyName reads the key column.
type FieldRef struct {
	name string
	pos  int
}

func NewFieldRef(name string) *FieldRef {
	return &FieldRef{name: name, pos: -1}
}

func NewFieldRefAt(pos int) *FieldRef {
	return &FieldRef{pos: pos}
}

func (e *FieldRef) Name() string {
	return e.name
}

func (e *FieldRef) resolve(bat *batch.Batch) (*vector.Vector, error) {
	if e.pos >= 0 {
		if e.pos >= bat.VectorCount() {
			return nil, moerr.NewInvalidInputNoCtx("field #%d out of %d columns", e.pos, bat.VectorCount())
		}
		return bat.GetVector(e.pos), nil
	}
	if e.name == batch.DefaultKeyName && bat.HasKey() {
		return bat.Key, nil
	}
	if v := bat.GetVectorByName(e.name); v != nil {
		return v, nil
	}
	return nil, moerr.NewInvalidInputNoCtx("field '%s' not found in %s", e.name, bat.Schema())
}

// Eval returns the column restricted to sels. A dictionary column is
// gathered by index and then resolved against its shared values.
func (e *FieldRef) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	v, err := e.resolve(bat)
	if err != nil {
		return nil, err
	}
	return vector.Decode(vector.Gather(v, sels)), nil
}

func (e *FieldRef) ResultType(schema batch.Schema) (types.Type, error) {
	if e.pos >= 0 {
		if e.pos >= len(schema.Fields) {
			return types.Type{}, moerr.NewInvalidInputNoCtx("field #%d out of %d columns", e.pos, len(schema.Fields))
		}
		return schema.Fields[e.pos].Type, nil
	}
	if e.name == batch.DefaultKeyName && schema.HasKey() {
		return schema.Key.Type, nil
	}
	if i := schema.Index(e.name); i >= 0 {
		return schema.Fields[i].Type, nil
	}
	return types.Type{}, moerr.NewInvalidInputNoCtx("field '%s' not found in %s", e.name, schema)
}

func (e *FieldRef) Children() []Expression {
	return nil
}

func (e *FieldRef) String() string {
	if e.pos >= 0 {
		return fmt.Sprintf("#%d", e.pos)
	}
	return e.name
}

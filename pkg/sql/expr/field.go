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
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
)

// FieldOf returns the field of the column e evaluates to over schema. A
// field reference keeps the name and tags of its input field, any other
// expression is named after itself.
func FieldOf(e Expression, schema batch.Schema) (types.Field, error) {
	typ, err := e.ResultType(schema)
	if err != nil {
		return types.Field{}, err
	}
	if ref, ok := e.(*FieldRef); ok {
		switch {
		case ref.pos >= 0:
			return schema.Fields[ref.pos], nil
		case ref.name == batch.DefaultKeyName && schema.HasKey():
			return *schema.Key, nil
		default:
			return schema.Fields[schema.Index(ref.name)], nil
		}
	}
	return types.Field{Name: e.String(), Type: typ}, nil
}

// FieldsOf is FieldOf over a list of expressions.
func FieldsOf(es []Expression, schema batch.Schema) ([]types.Field, error) {
	fields := make([]types.Field, len(es))
	for i, e := range es {
		f, err := FieldOf(e, schema)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}

// EvalAll evaluates es over every row of bat into a batch of fields.
func EvalAll(es []Expression, fields []types.Field, bat *batch.Batch) (*batch.Batch, error) {
	vecs, err := evalAll(es, bat, nil)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return batch.NewWithRowCount(bat.RowCount()), nil
	}
	return batch.New(fields, vecs)
}

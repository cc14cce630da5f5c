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

package agg

import (
	"fmt"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/expr"
)

// Aggregate is an aggregate function applied to an expression, as planned.
type Aggregate struct {
	Name string
	// E is the consumed expression, nil for count_star.
	E expr.Expression
	// Alias names the output column, name(E) when empty.
	Alias string
}

func (a Aggregate) String() string {
	if a.E == nil {
		return fmt.Sprintf("%s(*)", a.Name)
	}
	return fmt.Sprintf("%s(%s)", a.Name, a.E)
}

// Input returns the expression the accumulator consumes. count_star
// consumes a constant.
func (a Aggregate) Input() expr.Expression {
	if a.E == nil {
		return expr.MustLiteral(types.T_bool.ToType(), true)
	}
	return a.E
}

// Bind creates the accumulator of a over batches of schema, with the field
// of its output column. The output keeps the tags of a plain field input.
func (a Aggregate) Bind(schema batch.Schema) (Accumulator, types.Field, error) {
	in := a.Input()
	ifield, err := expr.FieldOf(in, schema)
	if err != nil {
		return nil, types.Field{}, err
	}
	acc, err := New(a.Name, ifield.Type)
	if err != nil {
		return nil, types.Field{}, err
	}
	name := a.Alias
	if name == "" {
		name = a.String()
	}
	field := types.Field{Name: name, Type: acc.OutputType()}
	if _, ok := in.(*expr.FieldRef); ok {
		field.Tags = ifield.Tags
	}
	return acc, field, nil
}

// BindAll binds every aggregate of aggs.
func BindAll(aggs []Aggregate, schema batch.Schema) ([]Accumulator, []expr.Expression, []types.Field, error) {
	accs := make([]Accumulator, len(aggs))
	inputs := make([]expr.Expression, len(aggs))
	fields := make([]types.Field, len(aggs))
	for i, a := range aggs {
		acc, f, err := a.Bind(schema)
		if err != nil {
			return nil, nil, nil, err
		}
		accs[i], inputs[i], fields[i] = acc, a.Input(), f
	}
	return accs, inputs, fields, nil
}

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

package projection

import (
	"bytes"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/vm"
)

var _ vm.Operator = new(Argument)

// Argument evaluates Es over each batch. Output columns are named after
// their expressions, a field reference keeps its input field.
type Argument struct {
	Es     []expr.Expression
	fields []types.Field
}

func New(es []expr.Expression, schema batch.Schema) (*Argument, error) {
	fields, err := expr.FieldsOf(es, schema)
	if err != nil {
		return nil, err
	}
	return &Argument{Es: es, fields: fields}, nil
}

func String(arg *Argument, buf *bytes.Buffer) {
	buf.WriteString("π(")
	for i, e := range arg.Es {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	buf.WriteString(")")
}

func (arg *Argument) String() string {
	buf := new(bytes.Buffer)
	String(arg, buf)
	return buf.String()
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Projection
}

// OutputSchema is the schema of every batch Call returns.
func (arg *Argument) OutputSchema() batch.Schema {
	return batch.NewSchema(nil, arg.fields...)
}

func (arg *Argument) Call(bat *batch.Batch) (*batch.Batch, error) {
	return expr.EvalAll(arg.Es, arg.fields, bat)
}

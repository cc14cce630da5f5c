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

package restrict

import (
	"bytes"
	"fmt"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/sql/filter"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
)

var _ vm.Operator = new(Argument)

// Argument keeps the rows of each batch a predicate holds for.
type Argument struct {
	E expr.Predicate
}

func New(e expr.Predicate) *Argument {
	return &Argument{E: e}
}

// NewFromFilter compiles f against the schema of the batches to restrict.
func NewFromFilter(f filter.Filter, schema batch.Schema) (*Argument, error) {
	e, err := filter.Compile(f, schema)
	if err != nil {
		return nil, err
	}
	return New(e), nil
}

func String(arg *Argument, buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("σ(%s)", arg.E))
}

func (arg *Argument) String() string {
	buf := new(bytes.Buffer)
	String(arg, buf)
	return buf.String()
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Restrict
}

func (arg *Argument) Call(bat *batch.Batch) (*batch.Batch, error) {
	n := bat.RowCount()
	if n == 0 {
		return bat, nil
	}
	sels, err := arg.E.Filter(bat, nil)
	if err != nil {
		return nil, err
	}
	v2.FilterSelectivityHistogram.Observe(float64(selection.Cardinality(sels, n)) / float64(n))
	return bat.Shrink(sels), nil
}

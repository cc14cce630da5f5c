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
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/sql/function"
)

// Call applies a function to its evaluated children.
type Call struct {
	fn   function.Function
	args []Expression
}

func NewCall(fn function.Function, args ...Expression) (*Call, error) {
	if len(args) != fn.Arity() {
		return nil, moerr.NewArityMismatchNoCtx(fn.Name(), fn.Arity(), len(args))
	}
	return &Call{fn: fn, args: args}, nil
}

func MustCall(fn function.Function, args ...Expression) *Call {
	e, err := NewCall(fn, args...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Call) Function() function.Function {
	return e.fn
}

// Eval narrows leaf children to sels directly. A child that is itself a
// call is computed over the whole batch once and the function gets the
// selection instead.
func (e *Call) Eval(bat *batch.Batch, sels *selection.Selection) (*vector.Vector, error) {
	if len(e.args) != e.fn.Arity() {
		return nil, moerr.NewArityMismatchNoCtx(e.fn.Name(), e.fn.Arity(), len(e.args))
	}
	if sels.IsEmpty() || allSimple(e.args) {
		vs, err := evalAll(e.args, bat, sels)
		if err != nil {
			return nil, err
		}
		return e.fn.Eval(vs, nil)
	}
	vs, err := evalAll(e.args, bat, nil)
	if err != nil {
		return nil, err
	}
	return e.fn.Eval(vs, sels)
}

func (e *Call) ResultType(schema batch.Schema) (types.Type, error) {
	tys := make([]types.Type, len(e.args))
	for i, arg := range e.args {
		typ, err := arg.ResultType(schema)
		if err != nil {
			return types.Type{}, err
		}
		tys[i] = typ
	}
	return e.fn.ReturnType(tys...)
}

func (e *Call) Children() []Expression {
	return e.args
}

func (e *Call) String() string {
	return callString(e.fn.Name(), e.args)
}

func evalAll(es []Expression, bat *batch.Batch, sels *selection.Selection) ([]*vector.Vector, error) {
	vs := make([]*vector.Vector, len(es))
	for i, e := range es {
		v, err := e.Eval(bat, sels)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func callString(name string, args []Expression) string {
	var buf strings.Builder
	if len(args) == 2 {
		buf.WriteByte('(')
		buf.WriteString(args[0].String())
		buf.WriteByte(' ')
		buf.WriteString(name)
		buf.WriteByte(' ')
		buf.WriteString(args[1].String())
		buf.WriteByte(')')
		return buf.String()
	}
	buf.WriteString(name)
	buf.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(arg.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

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

package function

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/nulls"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

type logicOp uint8

const (
	opAnd logicOp = iota
	opOr
	opNot
)

// Logic implements three-valued AND, OR and NOT over boolean columns.
type Logic struct {
	name string
	op   logicOp
}

var (
	And = &Logic{name: "and", op: opAnd}
	Or  = &Logic{name: "or", op: opOr}
	Not = &Logic{name: "not", op: opNot}
)

func (f *Logic) Name() string {
	return f.name
}

func (f *Logic) Arity() int {
	if f.op == opNot {
		return 1
	}
	return 2
}

func (f *Logic) ReturnType(args ...types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	for i, arg := range args {
		if arg.Oid != ScalarNull && arg.Oid != types.T_bool {
			return types.Type{}, moerr.NewTypeMismatchNoCtx(f.name, i, arg.String(), "expected BOOL")
		}
	}
	return types.T_bool.ToType(), nil
}

func (f *Logic) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	tys := make([]types.Type, len(args))
	for i, arg := range args {
		tys[i] = arg.GetType()
	}
	rt, err := f.ReturnType(tys...)
	if err != nil {
		return nil, err
	}
	n := outputLength(args, sels)
	vs := gatherAll(args, sels)
	rs := make([]bool, n)
	nsp := &nulls.Nulls{}
	for i := 0; i < n; i++ {
		x, xnull := boolAt(vs[0], i)
		if f.op == opNot {
			if xnull {
				nulls.Add(nsp, uint64(i))
			} else {
				rs[i] = !x
			}
			continue
		}
		y, ynull := boolAt(vs[1], i)
		switch f.op {
		case opAnd:
			switch {
			case (!xnull && !x) || (!ynull && !y):
			case xnull || ynull:
				nulls.Add(nsp, uint64(i))
			default:
				rs[i] = true
			}
		case opOr:
			switch {
			case (!xnull && x) || (!ynull && y):
				rs[i] = true
			case xnull || ynull:
				nulls.Add(nsp, uint64(i))
			}
		default:
			panic(moerr.NewInternalErrorNoCtx("unknown logic op %d", f.op))
		}
	}
	return vector.NewFixed(rt, rs, nsp), nil
}

func boolAt(v *vector.Vector, i int) (bool, bool) {
	if v.GetType().Oid == ScalarNull || v.IsNull(i) {
		return false, true
	}
	return vector.GetFixedAt[bool](v, i), false
}

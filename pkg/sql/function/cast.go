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

// Cast converts a numeric column to float64.
type Cast struct{}

func (f *Cast) Name() string {
	return "cast"
}

func (f *Cast) Arity() int {
	return 1
}

func (f *Cast) ReturnType(args ...types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	if args[0].Oid != ScalarNull && !args[0].IsNumeric() {
		return types.Type{}, moerr.NewTypeMismatchNoCtx(f.Name(), 0, args[0].String(), "expected a numeric type")
	}
	return types.T_float64.ToType(), nil
}

func (f *Cast) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	rt, err := f.ReturnType(args[0].GetType())
	if err != nil {
		return nil, err
	}
	n := outputLength(args, sels)
	if anyNullArg(args) {
		return vector.NewConstNull(rt, n), nil
	}
	v := gatherAll(args, sels)[0]
	if sels == nil && v.Length() != n {
		v = vector.Window(v, 0, n)
	}
	return castNumeric(v, rt), nil
}

// castNumeric converts v to the numeric type to, keeping its class. A vector
// already of type to is returned as it is. Dictionary vectors must have been
// decoded.
func castNumeric(v *vector.Vector, to types.Type) *vector.Vector {
	from := v.GetType()
	if from.Eq(to) || from.Oid == ScalarNull {
		return v
	}
	switch to.Oid {
	case types.T_int64:
		return castTo[int64](v, to)
	case types.T_float64:
		return castTo[float64](v, to)
	case types.T_float32:
		return castTo[float32](v, to)
	case types.T_int32:
		return castTo[int32](v, to)
	default:
		panic(moerr.NewInternalErrorNoCtx("cannot cast %s to %s", from, to))
	}
}

func castTo[R types.Numeric](v *vector.Vector, to types.Type) *vector.Vector {
	switch v.GetType().Oid {
	case types.T_int32:
		return convert[int32, R](v, to)
	case types.T_int64:
		return convert[int64, R](v, to)
	case types.T_float32:
		return convert[float32, R](v, to)
	case types.T_float64:
		return convert[float64, R](v, to)
	default:
		panic(moerr.NewInternalErrorNoCtx("cannot cast %s to %s", v.GetType(), to))
	}
}

func convert[F, R types.Numeric](v *vector.Vector, to types.Type) *vector.Vector {
	if v.IsConst() {
		if v.IsConstNull() {
			return vector.NewConstNull(to, v.Length())
		}
		return vector.NewConst(to, R(vector.GetFixedAt[F](v, 0)), v.Length())
	}
	xs := vector.MustFixedCol[F](v)
	rs := make([]R, len(xs))
	for i, x := range xs {
		rs[i] = R(x)
	}
	return vector.NewFixed(to, rs, v.GetNulls().Clone())
}

// unionNulls returns the nulls of rows [0, n) of the flat vectors in vs.
func unionNulls(n int, vs ...*vector.Vector) *nulls.Nulls {
	nsp := &nulls.Nulls{}
	for _, v := range vs {
		if v.IsConst() || !v.HasNull() {
			continue
		}
		nulls.Set(nsp, nulls.Range(v.GetNulls(), 0, uint64(n)))
	}
	return nsp
}

// filterNulls returns the nulls of the flat vectors in vs at rows sels,
// re-indexed by position in sels.
func filterNulls(sels []int64, vs ...*vector.Vector) *nulls.Nulls {
	nsp := &nulls.Nulls{}
	for _, v := range vs {
		if v.IsConst() || !v.HasNull() {
			continue
		}
		nulls.Set(nsp, nulls.Filter(v.GetNulls(), sels))
	}
	return nsp
}

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

package filter

import (
	"path"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/sql/function"
)

// Compile lowers f into a predicate over batches of schema. Operand types
// are checked against the schema, so the predicate fails only on data.
func Compile(f Filter, schema batch.Schema) (expr.Predicate, error) {
	p, err := compile(f, schema)
	if err != nil {
		return nil, err
	}
	if err := checkTypes(p, schema); err != nil {
		return nil, err
	}
	return p, nil
}

func checkTypes(e expr.Expression, schema batch.Schema) error {
	if _, err := e.ResultType(schema); err != nil {
		return err
	}
	for _, child := range e.Children() {
		if err := checkTypes(child, schema); err != nil {
			return err
		}
	}
	return nil
}

func compile(f Filter, schema batch.Schema) (expr.Predicate, error) {
	switch x := f.(type) {
	case *KeyFilter:
		if !schema.HasKey() {
			return nil, moerr.NewInvalidInputNoCtx("key filter %s on a batch without key", x)
		}
		if x.Op.IsLike() {
			return nil, moerr.NewInvalidInputNoCtx("operator %s on the key", x.Op)
		}
		v := expr.MustLiteral(types.T_int64.ToType(), x.Value)
		return expr.NewCompare(comparison(x.Op), expr.NewFieldRef(batch.DefaultKeyName), v), nil
	case *ValueFilter:
		return compileValue(x, schema)
	case *PathFilter:
		for _, name := range []string{x.PathA, x.PathB} {
			if schema.Index(name) < 0 {
				return nil, moerr.NewInvalidInputNoCtx("field '%s' not found in %s", name, schema)
			}
		}
		return expr.NewCompare(comparison(x.Op), expr.NewFieldRef(x.PathA), expr.NewFieldRef(x.PathB)), nil
	case *BoolFilter:
		if x.Value {
			return expr.NewTrue(), nil
		}
		return expr.NewFalse(), nil
	case *AndFilter:
		ps, err := compileAll(x.Children, schema)
		if err != nil {
			return nil, err
		}
		switch len(ps) {
		case 0:
			return expr.NewTrue(), nil
		case 1:
			return ps[0], nil
		}
		return expr.NewAnd(ps...)
	case *OrFilter:
		ps, err := compileAll(x.Children, schema)
		if err != nil {
			return nil, err
		}
		switch len(ps) {
		case 0:
			return expr.NewFalse(), nil
		case 1:
			return ps[0], nil
		}
		return expr.NewOr(ps...)
	case *NotFilter:
		p, err := compile(x.Child, schema)
		if err != nil {
			return nil, err
		}
		return expr.NewNot(p), nil
	}
	return nil, unknownFilter(f)
}

func compileAll(fs []Filter, schema batch.Schema) ([]expr.Predicate, error) {
	ps := make([]expr.Predicate, len(fs))
	for i, f := range fs {
		p, err := compile(f, schema)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

// compileValue expands a wildcard path into one comparison per matched
// field, joined by OR for the plain operators and by AND for the _AND ones.
func compileValue(f *ValueFilter, schema batch.Schema) (expr.Predicate, error) {
	fields, err := matchFields(f.Path, schema)
	if err != nil {
		return nil, err
	}
	lit, err := literalOf(f.Value)
	if err != nil {
		return nil, err
	}
	ps := make([]expr.Predicate, len(fields))
	for i, name := range fields {
		ps[i] = expr.NewCompare(comparison(f.Op), expr.NewFieldRef(name), lit)
	}
	switch {
	case len(ps) == 0:
		return expr.NewFalse(), nil
	case len(ps) == 1:
		return ps[0], nil
	case f.Op.IsAll():
		return expr.NewAnd(ps...)
	}
	return expr.NewOr(ps...)
}

func matchFields(pattern string, schema batch.Schema) ([]string, error) {
	if !isWildcard(pattern) {
		if schema.Index(pattern) < 0 {
			return nil, moerr.NewInvalidInputNoCtx("field '%s' not found in %s", pattern, schema)
		}
		return []string{pattern}, nil
	}
	var names []string
	for _, field := range schema.Fields {
		ok, err := path.Match(pattern, field.Name)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("bad path pattern '%s'", pattern)
		}
		if ok {
			names = append(names, field.Name)
		}
	}
	return names, nil
}

func isWildcard(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] == '*' {
			return true
		}
	}
	return false
}

func comparison(op Op) function.Comparison {
	switch op.Any() {
	case LIKE:
		return function.LikeFn
	case NOT_LIKE:
		return function.NotLikeFn
	}
	return function.CompareOf(op.compareOp())
}

func literalOf(v any) (*expr.Literal, error) {
	switch x := v.(type) {
	case nil:
		return expr.NewNull(), nil
	case bool:
		return expr.NewLiteral(types.T_bool.ToType(), x)
	case int:
		return expr.NewLiteral(types.T_int64.ToType(), int64(x))
	case int32:
		return expr.NewLiteral(types.T_int32.ToType(), x)
	case int64:
		return expr.NewLiteral(types.T_int64.ToType(), x)
	case float32:
		return expr.NewLiteral(types.T_float32.ToType(), x)
	case float64:
		return expr.NewLiteral(types.T_float64.ToType(), x)
	case []byte:
		return expr.NewLiteral(types.T_binary.ToType(), x)
	case string:
		return expr.NewLiteral(types.T_binary.ToType(), x)
	}
	return nil, moerr.NewInvalidInputNoCtx("unsupported filter value %v (%T)", v, v)
}

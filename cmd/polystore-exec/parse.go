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

package main

import (
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/colexec/mergeorder"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/sql/filter"
)

// listFlag collects every occurrence of a repeated flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, "; ")
}

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

// parseWhere reads "path op value", e.g. "cpu >= 0.5" or "host not like a%".
// The value is typed after the field the path names, a wildcard path keeps
// it as text.
func parseWhere(s string, schema batch.Schema) (filter.Filter, error) {
	parts := strings.Fields(s)
	if len(parts) < 3 {
		return nil, moerr.NewInvalidInputNoCtx("where %q: expected path op value", s)
	}
	path, opText, rest := parts[0], parts[1], parts[2:]
	if strings.EqualFold(opText, "not") && len(rest) > 1 {
		opText, rest = opText+" "+rest[0], rest[1:]
	}
	op, err := filter.ParseOp(opText)
	if err != nil {
		return nil, err
	}
	text := strings.Join(rest, " ")
	if op.Any() == filter.LIKE || op.Any() == filter.NOT_LIKE {
		return filter.NewValueFilter(path, op, text), nil
	}
	if i := schema.Index(path); i >= 0 {
		v, err := types.ParseValue(text, schema.Fields[i].Type.Oid)
		if err != nil {
			return nil, err
		}
		return filter.NewValueFilter(path, op, v), nil
	}
	return filter.NewValueFilter(path, op, text), nil
}

// parseAgg reads name(field), name(*) or a bare name, with an optional
// "as alias" suffix.
func parseAgg(s string) (agg.Aggregate, error) {
	var a agg.Aggregate
	if i := strings.Index(strings.ToLower(s), " as "); i > 0 {
		a.Alias = strings.TrimSpace(s[i+4:])
		s = strings.TrimSpace(s[:i])
	}
	name, arg, ok := strings.Cut(s, "(")
	a.Name = strings.ToLower(strings.TrimSpace(name))
	if ok {
		if !strings.HasSuffix(arg, ")") {
			return a, moerr.NewInvalidInputNoCtx("aggregate %q: missing )", s)
		}
		arg = strings.TrimSpace(strings.TrimSuffix(arg, ")"))
		if arg == "*" && a.Name == agg.CountName {
			a.Name = agg.CountStar
		} else if arg != "*" && len(arg) > 0 {
			a.E = expr.NewFieldRef(arg)
		}
	}
	if a.E == nil && a.Name != agg.CountStar {
		return a, moerr.NewInvalidInputNoCtx("aggregate %q needs an input field", s)
	}
	return a, nil
}

// parseOrder reads "field [asc|desc]".
func parseOrder(s string) (mergeorder.Field, error) {
	parts := strings.Fields(s)
	switch {
	case len(parts) == 1:
		return mergeorder.Field{E: expr.NewFieldRef(parts[0])}, nil
	case len(parts) == 2 && strings.EqualFold(parts[1], mergeorder.Ascending):
		return mergeorder.Field{E: expr.NewFieldRef(parts[0])}, nil
	case len(parts) == 2 && strings.EqualFold(parts[1], mergeorder.Descending):
		return mergeorder.Field{E: expr.NewFieldRef(parts[0]), Desc: true}, nil
	}
	return mergeorder.Field{}, moerr.NewInvalidInputNoCtx("order %q: expected field [asc|desc]", s)
}

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
	"bytes"
	"fmt"
	"strings"
)

type Type uint8

const (
	Key Type = iota
	Value
	Path
	Bool
	And
	Or
	Not
)

func (t Type) String() string {
	switch t {
	case Key:
		return "key"
	case Value:
		return "value"
	case Path:
		return "path"
	case Bool:
		return "bool"
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	}
	return "unknown"
}

// IsLeaf reports whether filters of type t have no children.
func (t Type) IsLeaf() bool {
	return t < And
}

// Filter is the WHERE clause of a query as a tree. Filters are values: the
// rewrites of this package build new trees and never modify their input.
type Filter interface {
	Type() Type
	String() string
}

// KeyFilter compares the key column with a constant.
type KeyFilter struct {
	Op    Op
	Value int64
}

// ValueFilter compares the fields matched by Path with a constant. Path is
// a field name or a pattern where '*' matches any run of characters.
type ValueFilter struct {
	Path  string
	Op    Op
	Value any
}

// PathFilter compares two fields row by row.
type PathFilter struct {
	PathA string
	Op    Op
	PathB string
}

type BoolFilter struct {
	Value bool
}

type AndFilter struct {
	Children []Filter
}

type OrFilter struct {
	Children []Filter
}

type NotFilter struct {
	Child Filter
}

func NewKeyFilter(op Op, v int64) *KeyFilter {
	return &KeyFilter{Op: op, Value: v}
}

// NewValueFilter stores string values as []byte.
func NewValueFilter(path string, op Op, v any) *ValueFilter {
	if s, ok := v.(string); ok {
		v = []byte(s)
	}
	return &ValueFilter{Path: path, Op: op, Value: v}
}

func NewPathFilter(a string, op Op, b string) *PathFilter {
	return &PathFilter{PathA: a, Op: op, PathB: b}
}

func NewBoolFilter(v bool) *BoolFilter {
	return &BoolFilter{Value: v}
}

func NewAndFilter(children ...Filter) *AndFilter {
	return &AndFilter{Children: children}
}

func NewOrFilter(children ...Filter) *OrFilter {
	return &OrFilter{Children: children}
}

func NewNotFilter(child Filter) *NotFilter {
	return &NotFilter{Child: child}
}

func (f *KeyFilter) Type() Type   { return Key }
func (f *ValueFilter) Type() Type { return Value }
func (f *PathFilter) Type() Type  { return Path }
func (f *BoolFilter) Type() Type  { return Bool }
func (f *AndFilter) Type() Type   { return And }
func (f *OrFilter) Type() Type    { return Or }
func (f *NotFilter) Type() Type   { return Not }

func (f *KeyFilter) String() string {
	return fmt.Sprintf("key %s %d", f.Op, f.Value)
}

func (f *ValueFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.Path, f.Op, valueString(f.Value))
}

func (f *PathFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.PathA, f.Op, f.PathB)
}

func (f *BoolFilter) String() string {
	if f.Value {
		return "true"
	}
	return "false"
}

func (f *AndFilter) String() string {
	return joinFilters(" && ", f.Children)
}

func (f *OrFilter) String() string {
	return joinFilters(" || ", f.Children)
}

func (f *NotFilter) String() string {
	return "!(" + f.Child.String() + ")"
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []byte:
		return fmt.Sprintf("'%s'", x)
	}
	return fmt.Sprintf("%v", v)
}

func joinFilters(sep string, fs []Filter) string {
	ss := make([]string, len(fs))
	for i, f := range fs {
		ss[i] = f.String()
	}
	return "(" + strings.Join(ss, sep) + ")"
}

// Equal compares two filters structurally. Children are compared in order.
func Equal(a, b Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *KeyFilter:
		y := b.(*KeyFilter)
		return x.Op == y.Op && x.Value == y.Value
	case *ValueFilter:
		y := b.(*ValueFilter)
		return x.Path == y.Path && x.Op == y.Op && valueEqual(x.Value, y.Value)
	case *PathFilter:
		y := b.(*PathFilter)
		return x.PathA == y.PathA && x.Op == y.Op && x.PathB == y.PathB
	case *BoolFilter:
		return x.Value == b.(*BoolFilter).Value
	case *AndFilter:
		return childrenEqual(x.Children, b.(*AndFilter).Children)
	case *OrFilter:
		return childrenEqual(x.Children, b.(*OrFilter).Children)
	case *NotFilter:
		return Equal(x.Child, b.(*NotFilter).Child)
	}
	return false
}

func valueEqual(x, y any) bool {
	xb, ok := x.([]byte)
	if !ok {
		return x == y
	}
	yb, ok := y.([]byte)
	return ok && bytes.Equal(xb, yb)
}

func childrenEqual(xs, ys []Filter) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

// Children returns the direct children of f, nil for leaves.
func Children(f Filter) []Filter {
	switch x := f.(type) {
	case *AndFilter:
		return x.Children
	case *OrFilter:
		return x.Children
	case *NotFilter:
		return []Filter{x.Child}
	}
	return nil
}

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
	"sort"

	"github.com/polystore/polystore/pkg/common/moerr"
)

// Reverse returns the negation of f with every NOT pushed down to the
// leaves: AND and OR swap (De Morgan) and leaf operators take their
// opposite.
func Reverse(f Filter) Filter {
	switch x := f.(type) {
	case *KeyFilter:
		return &KeyFilter{Op: x.Op.Opposite().Any(), Value: x.Value}
	case *ValueFilter:
		return &ValueFilter{Path: x.Path, Op: x.Op.Opposite(), Value: x.Value}
	case *PathFilter:
		return &PathFilter{PathA: x.PathA, Op: x.Op.Opposite().Any(), PathB: x.PathB}
	case *BoolFilter:
		return &BoolFilter{Value: !x.Value}
	case *AndFilter:
		return &OrFilter{Children: mapFilters(x.Children, Reverse)}
	case *OrFilter:
		return &AndFilter{Children: mapFilters(x.Children, Reverse)}
	case *NotFilter:
		return RemoveNot(x.Child)
	}
	panic(unknownFilter(f))
}

// RemoveNot rewrites f without NotFilter nodes.
func RemoveNot(f Filter) Filter {
	switch x := f.(type) {
	case *KeyFilter, *ValueFilter, *PathFilter, *BoolFilter:
		return f
	case *AndFilter:
		return &AndFilter{Children: mapFilters(x.Children, RemoveNot)}
	case *OrFilter:
		return &OrFilter{Children: mapFilters(x.Children, RemoveNot)}
	case *NotFilter:
		return Reverse(x.Child)
	}
	panic(unknownFilter(f))
}

// RemoveSingle replaces every AND and OR with a single child by the child.
func RemoveSingle(f Filter) Filter {
	switch x := f.(type) {
	case *AndFilter:
		if len(x.Children) == 1 {
			return RemoveSingle(x.Children[0])
		}
		return &AndFilter{Children: mapFilters(x.Children, RemoveSingle)}
	case *OrFilter:
		if len(x.Children) == 1 {
			return RemoveSingle(x.Children[0])
		}
		return &OrFilter{Children: mapFilters(x.Children, RemoveSingle)}
	case *NotFilter:
		return &NotFilter{Child: RemoveSingle(x.Child)}
	}
	return f
}

// MergeTrue folds boolean constants into their parents: a false child
// decides an AND, a true child decides an OR, and the other constants are
// dropped.
func MergeTrue(f Filter) Filter {
	switch x := f.(type) {
	case *AndFilter:
		children := make([]Filter, 0, len(x.Children))
		for _, child := range x.Children {
			child = MergeTrue(child)
			if b, ok := child.(*BoolFilter); ok {
				if !b.Value {
					return NewBoolFilter(false)
				}
				continue
			}
			children = append(children, child)
		}
		switch len(children) {
		case 0:
			return NewBoolFilter(true)
		case 1:
			return children[0]
		}
		return &AndFilter{Children: children}
	case *OrFilter:
		children := make([]Filter, 0, len(x.Children))
		for _, child := range x.Children {
			child = MergeTrue(child)
			if b, ok := child.(*BoolFilter); ok {
				if b.Value {
					return NewBoolFilter(true)
				}
				continue
			}
			children = append(children, child)
		}
		switch len(children) {
		case 0:
			return NewBoolFilter(false)
		case 1:
			return children[0]
		}
		return &OrFilter{Children: children}
	case *NotFilter:
		child := MergeTrue(x.Child)
		if b, ok := child.(*BoolFilter); ok {
			return NewBoolFilter(!b.Value)
		}
		return &NotFilter{Child: child}
	}
	return f
}

// ToDNF rewrites f as an OR of ANDs of leaves. A result with a single
// conjunction is an AndFilter or a leaf.
func ToDNF(f Filter) Filter {
	return toNormalForm(RemoveSingle(RemoveNot(f)), Or)
}

// ToCNF rewrites f as an AND of ORs of leaves.
func ToCNF(f Filter) Filter {
	return toNormalForm(RemoveSingle(RemoveNot(f)), And)
}

// toNormalForm distributes the inner connective over outer. For DNF outer
// is Or and inner is And, for CNF the other way around.
func toNormalForm(f Filter, outer Type) Filter {
	if f.Type().IsLeaf() {
		return f
	}
	if f.Type() == Not {
		panic(moerr.NewInternalErrorNoCtx("normal form of %s with a not", f))
	}
	children := mapFilters(Children(f), func(child Filter) Filter { return toNormalForm(child, outer) })
	if f.Type() == outer {
		// flatten nested outer connectives
		var flat []Filter
		for _, child := range children {
			if child.Type() == outer {
				flat = append(flat, Children(child)...)
			} else {
				flat = append(flat, child)
			}
		}
		return connective(outer, flat)
	}
	inner := f.Type()
	hasOuter := false
	for _, child := range children {
		if child.Type() == outer {
			hasOuter = true
			break
		}
	}
	if !hasOuter {
		return connective(inner, flattenInner(inner, children))
	}
	// cartesian product of the outer children of every child
	terms := [][]Filter{nil}
	for _, child := range children {
		var alts []Filter
		if child.Type() == outer {
			alts = Children(child)
		} else {
			alts = []Filter{child}
		}
		next := make([][]Filter, 0, len(terms)*len(alts))
		for _, term := range terms {
			for _, alt := range alts {
				t := make([]Filter, len(term), len(term)+1)
				copy(t, term)
				next = append(next, append(t, alt))
			}
		}
		terms = next
	}
	rs := make([]Filter, len(terms))
	for i, term := range terms {
		rs[i] = connective(inner, flattenInner(inner, term))
	}
	return connective(outer, rs)
}

func flattenInner(inner Type, fs []Filter) []Filter {
	rs := make([]Filter, 0, len(fs))
	for _, f := range fs {
		if f.Type() == inner {
			rs = append(rs, Children(f)...)
		} else {
			rs = append(rs, f)
		}
	}
	return rs
}

func connective(t Type, children []Filter) Filter {
	if t == And {
		return &AndFilter{Children: children}
	}
	return &OrFilter{Children: children}
}

// Paths returns the sorted field paths f reads. The key is not included.
func Paths(f Filter) []string {
	set := make(map[string]struct{})
	var walk func(Filter)
	walk = func(f Filter) {
		switch x := f.(type) {
		case *ValueFilter:
			set[x.Path] = struct{}{}
		case *PathFilter:
			set[x.PathA] = struct{}{}
			set[x.PathB] = struct{}{}
		default:
			for _, child := range Children(f) {
				walk(child)
			}
		}
	}
	walk(f)
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func mapFilters(fs []Filter, fn func(Filter) Filter) []Filter {
	rs := make([]Filter, len(fs))
	for i, f := range fs {
		rs[i] = fn(f)
	}
	return rs
}

func unknownFilter(f Filter) error {
	return moerr.NewInternalErrorNoCtx("unknown filter %T", f)
}

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

package compare

import (
	"bytes"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
)

type Op int8

const (
	EQ Op = iota
	NE
	LT
	LE
	GT
	GE
)

func (op Op) String() string {
	switch op {
	case EQ:
		return "="
	case NE:
		return "<>"
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

// Swap returns the op that gives the same answer with the operands
// exchanged.
func (op Op) Swap() Op {
	switch op {
	case EQ, NE:
		return op
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

func NumericFunc[T types.Numeric](op Op) func(T, T) bool {
	switch op {
	case EQ:
		return func(x, y T) bool { return x == y }
	case NE:
		return func(x, y T) bool { return x != y }
	case LT:
		return func(x, y T) bool { return x < y }
	case LE:
		return func(x, y T) bool { return x <= y }
	case GT:
		return func(x, y T) bool { return x > y }
	case GE:
		return func(x, y T) bool { return x >= y }
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

func BytesFunc(op Op) func([]byte, []byte) bool {
	switch op {
	case EQ:
		return func(x, y []byte) bool { return bytes.Equal(x, y) }
	case NE:
		return func(x, y []byte) bool { return !bytes.Equal(x, y) }
	case LT:
		return func(x, y []byte) bool { return bytes.Compare(x, y) < 0 }
	case LE:
		return func(x, y []byte) bool { return bytes.Compare(x, y) <= 0 }
	case GT:
		return func(x, y []byte) bool { return bytes.Compare(x, y) > 0 }
	case GE:
		return func(x, y []byte) bool { return bytes.Compare(x, y) >= 0 }
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

// BoolFunc orders false before true.
func BoolFunc(op Op) func(bool, bool) bool {
	switch op {
	case EQ:
		return func(x, y bool) bool { return x == y }
	case NE:
		return func(x, y bool) bool { return x != y }
	case LT:
		return func(x, y bool) bool { return !x && y }
	case LE:
		return func(x, y bool) bool { return !x || y }
	case GT:
		return func(x, y bool) bool { return x && !y }
	case GE:
		return func(x, y bool) bool { return x || !y }
	}
	panic(moerr.NewInternalErrorNoCtx("unknown compare op %d", int8(op)))
}

// Compare appends to rs[:0] every position i with fn(xs[i], ys[i]).
func Compare[T any](fn func(T, T) bool, xs, ys []T, rs []int64) []int64 {
	rs = rs[:0]
	for i, x := range xs {
		if fn(x, ys[i]) {
			rs = append(rs, int64(i))
		}
	}
	return rs
}

// CompareSels keeps the entries of sels whose rows match.
func CompareSels[T any](fn func(T, T) bool, xs, ys []T, rs, sels []int64) []int64 {
	rs = rs[:0]
	for _, sel := range sels {
		if fn(xs[sel], ys[sel]) {
			rs = append(rs, sel)
		}
	}
	return rs
}

func CompareScalar[T any](fn func(T, T) bool, x T, ys []T, rs []int64) []int64 {
	rs = rs[:0]
	for i, y := range ys {
		if fn(x, y) {
			rs = append(rs, int64(i))
		}
	}
	return rs
}

func CompareScalarSels[T any](fn func(T, T) bool, x T, ys []T, rs, sels []int64) []int64 {
	rs = rs[:0]
	for _, sel := range sels {
		if fn(x, ys[sel]) {
			rs = append(rs, sel)
		}
	}
	return rs
}

func CompareByScalar[T any](fn func(T, T) bool, xs []T, y T, rs []int64) []int64 {
	rs = rs[:0]
	for i, x := range xs {
		if fn(x, y) {
			rs = append(rs, int64(i))
		}
	}
	return rs
}

func CompareByScalarSels[T any](fn func(T, T) bool, xs []T, y T, rs, sels []int64) []int64 {
	rs = rs[:0]
	for _, sel := range sels {
		if fn(xs[sel], y) {
			rs = append(rs, sel)
		}
	}
	return rs
}

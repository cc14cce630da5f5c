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
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/vectorize/compare"
)

// Op is a filter operator. The plain operators hold when any field matched
// by a path satisfies them, the _AND forms when all of them do.
type Op uint8

const (
	G Op = iota
	GE
	L
	LE
	E
	NE
	LIKE
	NOT_LIKE

	G_AND
	GE_AND
	L_AND
	LE_AND
	E_AND
	NE_AND
	LIKE_AND
	NOT_LIKE_AND
)

const allOffset = G_AND - G

var opNames = [...]string{
	G:            ">",
	GE:           ">=",
	L:            "<",
	LE:           "<=",
	E:            "=",
	NE:           "<>",
	LIKE:         "like",
	NOT_LIKE:     "not like",
	G_AND:        "&>",
	GE_AND:       "&>=",
	L_AND:        "&<",
	LE_AND:       "&<=",
	E_AND:        "&=",
	NE_AND:       "&<>",
	LIKE_AND:     "&like",
	NOT_LIKE_AND: "&not like",
}

// negated pairs of the plain operators
var opposites = [...]Op{
	G:        LE,
	GE:       L,
	L:        GE,
	LE:       G,
	E:        NE,
	NE:       E,
	LIKE:     NOT_LIKE,
	NOT_LIKE: LIKE,
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "unknown"
}

// IsAll reports whether op is one of the _AND forms.
func (op Op) IsAll() bool {
	return op >= G_AND && op <= NOT_LIKE_AND
}

// Any returns the plain form of op.
func (op Op) Any() Op {
	if op.IsAll() {
		return op - allOffset
	}
	return op
}

// All returns the _AND form of op.
func (op Op) All() Op {
	if op.IsAll() {
		return op
	}
	return op + allOffset
}

// Opposite returns the operator of the negation: not (any x > v) is
// (all x <= v), so G maps to LE_AND and G_AND to LE.
func (op Op) Opposite() Op {
	if op.IsAll() {
		return opposites[op.Any()]
	}
	return opposites[op].All()
}

// IsLike reports whether op is a pattern match.
func (op Op) IsLike() bool {
	switch op.Any() {
	case LIKE, NOT_LIKE:
		return true
	}
	return false
}

// compareOp maps a comparison operator to its vectorized kernel operator.
func (op Op) compareOp() compare.Op {
	switch op.Any() {
	case G:
		return compare.GT
	case GE:
		return compare.GE
	case L:
		return compare.LT
	case LE:
		return compare.LE
	case E:
		return compare.EQ
	case NE:
		return compare.NE
	}
	panic(moerr.NewInternalErrorNoCtx("%s is not a comparison", op))
}

// ParseOp accepts the operator names printed by String plus the usual
// aliases: ==, != and the "not_like" spelling.
func ParseOp(s string) (Op, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	all := strings.HasPrefix(name, "&")
	name = strings.TrimSpace(strings.TrimPrefix(name, "&"))
	var op Op
	switch name {
	case ">":
		op = G
	case ">=":
		op = GE
	case "<":
		op = L
	case "<=":
		op = LE
	case "=", "==":
		op = E
	case "<>", "!=":
		op = NE
	case "like":
		op = LIKE
	case "not like", "not_like":
		op = NOT_LIKE
	default:
		return 0, moerr.NewInvalidInputNoCtx("unknown filter operator '%s'", s)
	}
	if all {
		op = op.All()
	}
	return op, nil
}

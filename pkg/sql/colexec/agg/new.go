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

package agg

import (
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
)

const (
	CountName               = "count"
	CountStar               = "count_star"
	SumName                 = "sum"
	AvgName                 = "avg"
	MinName                 = "min"
	MaxName                 = "max"
	FirstName               = "first"
	LastName                = "last"
	ApproxCountDistinctName = "approx_count_distinct"
)

var names = []string{
	CountName,
	CountStar,
	SumName,
	AvgName,
	MinName,
	MaxName,
	FirstName,
	LastName,
	ApproxCountDistinctName,
}

// Names returns the aggregate names New accepts.
func Names() []string {
	return append([]string(nil), names...)
}

// New returns the accumulator name over columns of type ityp.
func New(name string, ityp types.Type) (Accumulator, error) {
	var (
		a  Accumulator
		ok bool
	)
	switch name {
	case CountName:
		a, ok = NewCount(ityp, false), true
	case CountStar:
		a, ok = NewCount(ityp, true), true
	case SumName:
		a, ok = newSumOf(ityp)
	case AvgName:
		a, ok = newAvgOf(ityp)
	case MinName:
		a, ok = newMinOf(ityp)
	case MaxName:
		a, ok = newMaxOf(ityp)
	case FirstName:
		a, ok = newAnyValueOf(ityp, false)
	case LastName:
		a, ok = newAnyValueOf(ityp, true)
	case ApproxCountDistinctName:
		a, ok = newApproxOf(ityp)
	default:
		return nil, moerr.NewNYINoCtx("aggregate %s", name)
	}
	if !ok {
		return nil, moerr.NewTypeMismatchNoCtx(name, 0, ityp.String(), "unsupported input type")
	}
	return a, nil
}

// Must is New for statically known aggregates.
func Must(name string, ityp types.Type) Accumulator {
	a, err := New(name, ityp)
	if err != nil {
		panic(err)
	}
	return a
}

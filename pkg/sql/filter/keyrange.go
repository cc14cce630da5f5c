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
	"fmt"
	"math"
	"sort"

	"github.com/polystore/polystore/pkg/common/moerr"
)

// KeyRange is the half-open interval [Begin, End) of keys.
type KeyRange struct {
	Begin int64
	End   int64
}

// FullKeyRange holds every key a filter without key conditions selects.
var FullKeyRange = KeyRange{Begin: math.MinInt64, End: math.MaxInt64}

func (r KeyRange) IsEmpty() bool {
	return r.Begin >= r.End
}

func (r KeyRange) Contains(key int64) bool {
	return key >= r.Begin && key < r.End
}

func (r KeyRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}

// KeyRanges returns the sorted disjoint key ranges outside of which f holds
// for no row. Conditions on fields are not narrowed by, so the result is a
// superset of the matching keys. A key compared with <> is not supported.
func KeyRanges(f Filter) ([]KeyRange, error) {
	dnf := MergeTrue(ToDNF(f))
	var conjunctions []Filter
	if dnf.Type() == Or {
		conjunctions = Children(dnf)
	} else {
		conjunctions = []Filter{dnf}
	}
	ranges := make([]KeyRange, 0, len(conjunctions))
	for _, c := range conjunctions {
		r, err := conjunctionRange(c)
		if err != nil {
			return nil, err
		}
		if !r.IsEmpty() {
			ranges = append(ranges, r)
		}
	}
	return unionKeyRanges(ranges), nil
}

func conjunctionRange(f Filter) (KeyRange, error) {
	leaves := []Filter{f}
	if f.Type() == And {
		leaves = Children(f)
	}
	r := FullKeyRange
	for _, leaf := range leaves {
		switch x := leaf.(type) {
		case *KeyFilter:
			kr, err := keyFilterRange(x)
			if err != nil {
				return KeyRange{}, err
			}
			r = intersectKeyRanges(r, kr)
		case *BoolFilter:
			if !x.Value {
				return KeyRange{}, nil
			}
		}
	}
	return r, nil
}

func keyFilterRange(f *KeyFilter) (KeyRange, error) {
	v := f.Value
	switch f.Op.Any() {
	case L:
		return KeyRange{Begin: math.MinInt64, End: v}, nil
	case LE:
		if v == math.MaxInt64 {
			return FullKeyRange, nil
		}
		return KeyRange{Begin: math.MinInt64, End: v + 1}, nil
	case G:
		if v == math.MaxInt64 {
			return KeyRange{}, nil
		}
		return KeyRange{Begin: v + 1, End: math.MaxInt64}, nil
	case GE:
		return KeyRange{Begin: v, End: math.MaxInt64}, nil
	case E:
		if v == math.MaxInt64 {
			return KeyRange{Begin: v, End: v}, nil
		}
		return KeyRange{Begin: v, End: v + 1}, nil
	case NE:
		return KeyRange{}, moerr.NewNYINoCtx("key range of %s", f)
	}
	return KeyRange{}, moerr.NewInvalidInputNoCtx("operator %s on the key", f.Op)
}

func intersectKeyRanges(a, b KeyRange) KeyRange {
	r := KeyRange{Begin: a.Begin, End: a.End}
	if b.Begin > r.Begin {
		r.Begin = b.Begin
	}
	if b.End < r.End {
		r.End = b.End
	}
	return r
}

// unionKeyRanges merges overlapping and adjacent ranges.
func unionKeyRanges(ranges []KeyRange) []KeyRange {
	if len(ranges) == 0 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Begin < ranges[j].Begin })
	rs := ranges[:1]
	for _, r := range ranges[1:] {
		last := &rs[len(rs)-1]
		if r.Begin <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		rs = append(rs, r)
	}
	return rs
}

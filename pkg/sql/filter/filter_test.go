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
	"math"
	"testing"

	"github.com/polystore/polystore/pkg/common/moerr"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

var (
	fa = NewValueFilter("a", G, int64(1))
	fb = NewValueFilter("b", L, int64(2))
	fc = NewValueFilter("c", E, "x")
	fd = NewValueFilter("d", NE, 1.5)
)

func TestOp(t *testing.T) {
	Convey("opposite operators", t, func() {
		So(G.Opposite(), ShouldEqual, LE_AND)
		So(G_AND.Opposite(), ShouldEqual, LE)
		So(GE.Opposite(), ShouldEqual, L_AND)
		So(E.Opposite(), ShouldEqual, NE_AND)
		So(LIKE.Opposite(), ShouldEqual, NOT_LIKE_AND)
		So(NOT_LIKE_AND.Opposite(), ShouldEqual, LIKE)
		for op := G; op <= NOT_LIKE_AND; op++ {
			So(op.Opposite().Opposite(), ShouldEqual, op)
			So(op.Opposite().IsAll(), ShouldNotEqual, op.IsAll())
		}
	})
	Convey("names round trip", t, func() {
		for op := G; op <= NOT_LIKE_AND; op++ {
			parsed, err := ParseOp(op.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, op)
		}
		op, err := ParseOp("!=")
		So(err, ShouldBeNil)
		So(op, ShouldEqual, NE)
		op, err = ParseOp(" NOT_LIKE ")
		So(err, ShouldBeNil)
		So(op, ShouldEqual, NOT_LIKE)
		_, err = ParseOp("~")
		So(moerr.IsMoErrCode(err, moerr.ErrInvalidInput), ShouldBeTrue)
	})
}

func TestString(t *testing.T) {
	f := NewOrFilter(NewAndFilter(NewKeyFilter(G, 5), fc), NewNotFilter(NewBoolFilter(true)), NewPathFilter("a", LE_AND, "b"))
	require.Equal(t, "((key > 5 && c = 'x') || !(true) || a &<= b)", f.String())
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(NewAndFilter(fa, fc), NewAndFilter(NewValueFilter("a", G, int64(1)), NewValueFilter("c", E, []byte("x")))))
	require.False(t, Equal(NewAndFilter(fa, fc), NewAndFilter(fc, fa)))
	require.False(t, Equal(NewAndFilter(fa), NewOrFilter(fa)))
	require.False(t, Equal(fa, NewValueFilter("a", G, int32(1))))
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(fa, nil))
}

func TestReverse(t *testing.T) {
	f := NewAndFilter(NewKeyFilter(G, 5), fa)
	r := Reverse(f)
	require.True(t, Equal(NewOrFilter(NewKeyFilter(LE, 5), NewValueFilter("a", LE_AND, int64(1))), r), r.String())
	// the input is left alone
	require.Equal(t, "(key > 5 && a > 1)", f.String())

	require.True(t, Equal(fa, Reverse(NewNotFilter(fa))))
	require.True(t, Equal(NewBoolFilter(false), Reverse(NewBoolFilter(true))))
	require.True(t, Equal(NewPathFilter("a", L, "b"), Reverse(NewPathFilter("a", GE, "b"))))
}

func TestRemoveNot(t *testing.T) {
	f := NewNotFilter(NewOrFilter(fa, NewNotFilter(fb)))
	r := RemoveNot(f)
	require.True(t, Equal(NewAndFilter(NewValueFilter("a", LE_AND, int64(1)), fb), r), r.String())

	nested := NewAndFilter(NewNotFilter(NewNotFilter(fc)), fd)
	require.True(t, Equal(NewAndFilter(fc, fd), RemoveNot(nested)))
}

func TestNormalForms(t *testing.T) {
	cases := []struct {
		in       Filter
		dnf, cnf Filter
	}{
		{
			in:  NewAndFilter(NewOrFilter(fa, fb), fc),
			dnf: NewOrFilter(NewAndFilter(fa, fc), NewAndFilter(fb, fc)),
			cnf: NewAndFilter(NewOrFilter(fa, fb), fc),
		},
		{
			in: NewAndFilter(NewOrFilter(fa, fb), NewOrFilter(fc, fd)),
			dnf: NewOrFilter(
				NewAndFilter(fa, fc), NewAndFilter(fa, fd),
				NewAndFilter(fb, fc), NewAndFilter(fb, fd)),
			cnf: NewAndFilter(NewOrFilter(fa, fb), NewOrFilter(fc, fd)),
		},
		{
			in:  NewOrFilter(fa, NewOrFilter(fb, fc)),
			dnf: NewOrFilter(fa, fb, fc),
			cnf: NewOrFilter(fa, fb, fc),
		},
		{
			in:  NewOrFilter(NewAndFilter(fa, fb), fc),
			dnf: NewOrFilter(NewAndFilter(fa, fb), fc),
			cnf: NewAndFilter(NewOrFilter(fa, fc), NewOrFilter(fb, fc)),
		},
		{
			in:  NewAndFilter(NewAndFilter(fa), NewAndFilter(fb, fc)),
			dnf: NewAndFilter(fa, fb, fc),
			cnf: NewAndFilter(fa, fb, fc),
		},
		{
			in:  NewNotFilter(NewOrFilter(fa, fb)),
			dnf: NewAndFilter(Reverse(fa), Reverse(fb)),
			cnf: NewAndFilter(Reverse(fa), Reverse(fb)),
		},
	}
	for _, c := range cases {
		dnf := ToDNF(c.in)
		require.True(t, Equal(c.dnf, dnf), "dnf of %s: %s", c.in, dnf)
		cnf := ToCNF(c.in)
		require.True(t, Equal(c.cnf, cnf), "cnf of %s: %s", c.in, cnf)
	}
}

func TestMergeTrue(t *testing.T) {
	tt, ff := NewBoolFilter(true), NewBoolFilter(false)
	require.True(t, Equal(fa, MergeTrue(NewAndFilter(tt, fa))))
	require.True(t, Equal(ff, MergeTrue(NewAndFilter(fa, ff, fb))))
	require.True(t, Equal(tt, MergeTrue(NewOrFilter(fa, tt))))
	require.True(t, Equal(NewOrFilter(fa, fb), MergeTrue(NewOrFilter(fa, ff, fb))))
	require.True(t, Equal(tt, MergeTrue(NewAndFilter(tt, NewNotFilter(ff)))))
	require.True(t, Equal(ff, MergeTrue(NewOrFilter())))
}

func TestPaths(t *testing.T) {
	f := NewAndFilter(fb, NewOrFilter(fa, NewKeyFilter(E, 1)), NewNotFilter(NewPathFilter("c", E, "a")))
	require.Equal(t, []string{"a", "b", "c"}, Paths(f))
}

func TestKeyRanges(t *testing.T) {
	Convey("key ranges", t, func() {
		Convey("union of conjunctions", func() {
			f := NewOrFilter(
				NewAndFilter(NewKeyFilter(GE, 10), NewKeyFilter(L, 20)),
				NewKeyFilter(E, 40),
				NewAndFilter(NewKeyFilter(GE, 15), NewKeyFilter(LE, 30)),
			)
			rs, err := KeyRanges(f)
			So(err, ShouldBeNil)
			So(rs, ShouldResemble, []KeyRange{{10, 31}, {40, 41}})
		})
		Convey("adjacent ranges merge", func() {
			rs, err := KeyRanges(NewOrFilter(NewKeyFilter(L, 5), NewKeyFilter(GE, 5)))
			So(err, ShouldBeNil)
			So(rs, ShouldResemble, []KeyRange{FullKeyRange})
		})
		Convey("field conditions do not narrow", func() {
			rs, err := KeyRanges(NewAndFilter(NewKeyFilter(G, 9), fa))
			So(err, ShouldBeNil)
			So(rs, ShouldResemble, []KeyRange{{10, math.MaxInt64}})

			rs, err = KeyRanges(NewOrFilter(NewKeyFilter(L, 3), fa))
			So(err, ShouldBeNil)
			So(rs, ShouldResemble, []KeyRange{FullKeyRange})
		})
		Convey("disjoint conditions select nothing", func() {
			rs, err := KeyRanges(NewAndFilter(NewKeyFilter(G, 5), NewKeyFilter(L, 3)))
			So(err, ShouldBeNil)
			So(rs, ShouldBeEmpty)

			rs, err = KeyRanges(NewAndFilter(NewKeyFilter(G, 5), NewBoolFilter(false)))
			So(err, ShouldBeNil)
			So(rs, ShouldBeEmpty)
		})
		Convey("negation", func() {
			rs, err := KeyRanges(NewNotFilter(NewKeyFilter(L, 10)))
			So(err, ShouldBeNil)
			So(rs, ShouldResemble, []KeyRange{{10, math.MaxInt64}})
		})
		Convey("not equal is unsupported", func() {
			_, err := KeyRanges(NewKeyFilter(NE, 10))
			So(moerr.IsMoErrCode(err, moerr.ErrNYI), ShouldBeTrue)
		})
		Convey("contains", func() {
			r := KeyRange{Begin: 1, End: 3}
			So(r.Contains(1), ShouldBeTrue)
			So(r.Contains(3), ShouldBeFalse)
			So(r.String(), ShouldEqual, "[1, 3)")
		})
	})
}

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
	"regexp"
	"strings"
	"sync"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// Like matches a binary column against a pattern where '%' is any run of
// bytes and '_' exactly one character. '\' escapes the next byte.
type Like struct {
	name  string
	not   bool
	cache sync.Map // pattern -> *regexp.Regexp
}

var (
	LikeFn    = &Like{name: "like"}
	NotLikeFn = &Like{name: "not like", not: true}
)

func (f *Like) Name() string {
	return f.name
}

func (f *Like) Arity() int {
	return 2
}

func (f *Like) ReturnType(args ...types.Type) (types.Type, error) {
	if err := checkArity(f, len(args)); err != nil {
		return types.Type{}, err
	}
	for i, arg := range args {
		if arg.Oid != ScalarNull && arg.Oid != types.T_binary {
			return types.Type{}, moerr.NewTypeMismatchNoCtx(f.name, i, arg.String(), "expected BINARY")
		}
	}
	return types.T_bool.ToType(), nil
}

func (f *Like) Eval(args []*vector.Vector, sels *selection.Selection) (*vector.Vector, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	if _, err := f.ReturnType(args[0].GetType(), args[1].GetType()); err != nil {
		return nil, err
	}
	return boolResult(f, args, sels)
}

func (f *Like) Filter(args []*vector.Vector, sels *selection.Selection) (*selection.Selection, error) {
	if err := checkArity(f, len(args)); err != nil {
		return nil, err
	}
	if _, err := f.ReturnType(args[0].GetType(), args[1].GetType()); err != nil {
		return nil, err
	}
	if anyNullArg(args) {
		return selection.Empty(), nil
	}
	n := outputLength(args, sels)
	vs := gatherAll(args, sels)
	rows := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		if vs[0].IsNull(i) || vs[1].IsNull(i) {
			continue
		}
		re, err := f.compile(vector.GetBytesAt(vs[1], i))
		if err != nil {
			return nil, err
		}
		if re.Match(vector.GetBytesAt(vs[0], i)) != f.not {
			rows = append(rows, int64(i))
		}
	}
	if sels == nil {
		return selection.FromRows(rows), nil
	}
	return sels.Take(selection.FromRows(rows)), nil
}

func (f *Like) compile(pattern []byte) (*regexp.Regexp, error) {
	if re, ok := f.cache.Load(string(pattern)); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(LikeToRegexp(pattern))
	if err != nil {
		return nil, moerr.NewInvalidArgNoCtx("like pattern", string(pattern))
	}
	f.cache.Store(string(pattern), re)
	return re, nil
}

// LikeToRegexp translates a LIKE pattern into an anchored regular
// expression over bytes.
func LikeToRegexp(pattern []byte) string {
	var buf strings.Builder
	buf.WriteString(`(?s)^`)
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '%':
			buf.WriteString(`.*`)
		case '_':
			buf.WriteString(`.`)
		case '\\':
			if i+1 < len(pattern) {
				i++
			}
			buf.WriteString(regexp.QuoteMeta(string(pattern[i : i+1])))
		default:
			buf.WriteString(regexp.QuoteMeta(string(pattern[i : i+1])))
		}
	}
	buf.WriteString(`$`)
	return buf.String()
}

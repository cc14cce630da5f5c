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

package stream

import (
	"sort"
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
)

// ParseField reads a column declaration of the form name:TYPE{k=v,...}.
// The tag list is optional.
func ParseField(s string) (types.Field, error) {
	var tags map[string]string
	if strings.HasSuffix(s, "}") {
		i := strings.LastIndexByte(s, '{')
		if i < 0 {
			return types.Field{}, moerr.NewInvalidInputNoCtx("column %q: unbalanced tags", s)
		}
		var err error
		if tags, err = parseTags(s[i+1 : len(s)-1]); err != nil {
			return types.Field{}, moerr.NewInvalidInputNoCtx("column %q: %s", s, err.Error())
		}
		s = s[:i]
	}
	i := strings.LastIndexByte(s, ':')
	if i <= 0 {
		return types.Field{}, moerr.NewInvalidInputNoCtx("column %q: expected name:TYPE", s)
	}
	oid, err := types.ParseT(s[i+1:])
	if err != nil {
		return types.Field{}, err
	}
	return types.NewField(s[:i], oid, tags), nil
}

func parseTags(s string) (map[string]string, error) {
	if len(s) == 0 {
		return nil, nil
	}
	tags := make(map[string]string)
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || len(k) == 0 {
			return nil, moerr.NewInvalidInputNoCtx("bad tag %q", kv)
		}
		tags[k] = v
	}
	return tags, nil
}

// FormatField is the inverse of ParseField.
func FormatField(f types.Field) string {
	var buf strings.Builder
	buf.WriteString(f.Name)
	buf.WriteByte(':')
	buf.WriteString(f.Type.Oid.String())
	if len(f.Tags) > 0 {
		keys := make([]string, 0, len(f.Tags))
		for k := range f.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(k)
			buf.WriteByte('=')
			buf.WriteString(f.Tags[k])
		}
		buf.WriteByte('}')
	}
	return buf.String()
}

// ParseHeader reads a list of column declarations. A first column named
// batch.DefaultKeyName declares the key, with or without a type.
func ParseHeader(cols []string) (Header, error) {
	var h Header
	if len(cols) > 0 && strings.HasPrefix(cols[0], batch.DefaultKeyName) {
		if cols[0] != batch.DefaultKeyName {
			f, err := ParseField(cols[0])
			if err != nil {
				return h, err
			}
			if f.Name != batch.DefaultKeyName || f.Type.Oid != types.T_int64 {
				return h, moerr.NewInvalidInputNoCtx("key column %q must be %s:%s", cols[0], batch.DefaultKeyName, types.T_int64)
			}
		}
		h.Key = batch.KeyField()
		cols = cols[1:]
	}
	h.Fields = make([]types.Field, len(cols))
	for i, col := range cols {
		f, err := ParseField(col)
		if err != nil {
			return h, err
		}
		h.Fields[i] = f
	}
	return h, nil
}

// FormatHeader is the inverse of ParseHeader.
func FormatHeader(h Header) []string {
	cols := make([]string, 0, len(h.Fields)+1)
	if h.Key != nil {
		cols = append(cols, batch.DefaultKeyName)
	}
	for _, f := range h.Fields {
		cols = append(cols, FormatField(f))
	}
	return cols
}

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

package group

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

const (
	nullMark  = 0
	valueMark = 1
)

// encodeKey appends the composite key of row to buf. Every column writes a
// null marker, then the fixed size value or the length prefixed bytes, so
// equal values at equal columns always encode alike.
func encodeKey(buf []byte, vecs []*vector.Vector, row int) []byte {
	for _, vec := range vecs {
		if vec.IsNull(row) {
			buf = append(buf, nullMark)
			continue
		}
		buf = append(buf, valueMark)
		switch vec.GetType().Oid {
		case types.T_bool:
			if vector.GetFixedAt[bool](vec, row) {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case types.T_int32:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(vector.GetFixedAt[int32](vec, row)))
		case types.T_int64:
			buf = binary.LittleEndian.AppendUint64(buf, uint64(vector.GetFixedAt[int64](vec, row)))
		case types.T_float32:
			buf = append(buf, types.EncodeFixed(vector.GetFixedAt[float32](vec, row))...)
		case types.T_float64:
			buf = append(buf, types.EncodeFixed(vector.GetFixedAt[float64](vec, row))...)
		case types.T_binary:
			v := vector.GetBytesAt(vec, row)
			buf = binary.AppendUvarint(buf, uint64(len(v)))
			buf = append(buf, v...)
		case types.T_any:
			panic(moerr.NewInternalErrorNoCtx("non null row in a null only column"))
		default:
			panic(moerr.NewInternalErrorNoCtx("unexpected key type %s", vec.GetType()))
		}
	}
	return buf
}

// hashMap maps encoded keys to dense group ids in first seen order.
type hashMap struct {
	buckets map[uint64][]int
	keys    [][]byte
}

func newHashMap() *hashMap {
	return &hashMap{buckets: make(map[uint64][]int)}
}

func (m *hashMap) Len() int {
	return len(m.keys)
}

// Insert returns the group id of key, and whether the key is new. key is
// copied when stored.
func (m *hashMap) Insert(key []byte) (int, bool) {
	h := xxhash.Sum64(key)
	for _, id := range m.buckets[h] {
		if bytes.Equal(m.keys[id], key) {
			return id, false
		}
	}
	id := len(m.keys)
	m.keys = append(m.keys, append([]byte(nil), key...))
	m.buckets[h] = append(m.buckets[h], id)
	return id, true
}

func (m *hashMap) Free() {
	m.buckets = nil
	m.keys = nil
}
